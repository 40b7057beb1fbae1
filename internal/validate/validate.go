// Package validate checks finished stories for structural problems that
// no single generation call can see: branches that stop early, ending
// conditions no playthrough can satisfy, and gauge arithmetic that puts
// final endings out of reach.
package validate

import (
	"fmt"
	"strings"

	"github.com/inkwell-labs/gamebook/internal/cond"
	"github.com/inkwell-labs/gamebook/internal/snapshot"
	"github.com/inkwell-labs/gamebook/internal/story"
)

// DeadEnd is a node that terminates its branch before the tree's maximum
// depth.
type DeadEnd struct {
	EpisodeID string
	NodeID    string
	Depth     int
	Kind      story.NodeKind
}

// TagGap is an ending-condition identifier that no choice tag in the
// episode can ever feed.
type TagGap struct {
	EpisodeID  string
	EndingID   string
	Identifier string
}

// UnusedTag is a choice tag that no ending condition of its episode
// refers to. Unused tags are wasted authoring signal, not defects.
type UnusedTag struct {
	EpisodeID string
	Tag       string
}

// Interval is the reachable value range of one gauge.
type Interval struct {
	Min int
	Max int
}

// Contains reports whether v lies inside the interval.
func (iv Interval) Contains(v int) bool {
	return iv.Min <= v && v <= iv.Max
}

// UnreachableEnding is a final ending whose condition cannot hold for any
// reachable gauge state.
type UnreachableEnding struct {
	EndingID  string
	Condition string
	Reason    string
}

// Report aggregates every check over one story. TagCoverageRatio is the
// share of choice tags that some ending condition references.
type Report struct {
	DeadEnds         []DeadEnd
	TagGaps          []TagGap
	UnusedTags       []UnusedTag
	TagCoverageRatio float64
	Unreachable      []UnreachableEnding
	Warnings         []string
}

// Clean reports whether no check found a problem. Warnings alone do not
// make a story unclean.
func (r *Report) Clean() bool {
	return len(r.DeadEnds) == 0 && len(r.TagGaps) == 0 && len(r.Unreachable) == 0
}

// Story runs all checks over the snapshot.
func Story(s *snapshot.Story) *Report {
	r := &Report{}

	var used, total int
	for _, ep := range s.Episodes {
		r.DeadEnds = append(r.DeadEnds, FindDeadEnds(ep)...)

		gaps, unused, u, n := CheckTagCoverage(ep)
		r.TagGaps = append(r.TagGaps, gaps...)
		r.UnusedTags = append(r.UnusedTags, unused...)
		used += u
		total += n

		for _, e := range ep.Endings {
			if cond.MixesAndOr(e.Condition) {
				r.Warnings = append(r.Warnings, mixWarning(ep.ID, e.ID, e.Condition))
			}
		}
	}
	r.TagCoverageRatio = 1
	if total > 0 {
		r.TagCoverageRatio = float64(used) / float64(total)
	}

	unreachable, warnings := CheckGaugeBalance(s.Context.Gauges, s.Episodes, s.Context.FinalEndings)
	r.Unreachable = unreachable
	r.Warnings = append(r.Warnings, warnings...)

	return r
}

// FindDeadEnds returns the episode's nodes that stop their branch without
// being classified as endings: any non-ending node with no choices,
// whatever its depth. Error nodes are expected to show up here; they mark
// branches that degraded during generation.
func FindDeadEnds(ep story.Episode) []DeadEnd {
	var out []DeadEnd
	for _, n := range ep.Nodes {
		if n.Kind == story.KindEnding || len(n.Choices) > 0 {
			continue
		}
		out = append(out, DeadEnd{
			EpisodeID: ep.ID,
			NodeID:    n.ID,
			Depth:     n.Depth,
			Kind:      n.Kind,
		})
	}
	return out
}

// CheckTagCoverage relates the episode's choice tags to its ending
// conditions, matching by substring in either direction, so a condition
// on "cooperative" is fed by the tag "cooperative" but not by "brave".
// It reports both directions of the mismatch: condition identifiers no
// tag can feed (gaps), and tags no condition ever reads (unused), plus
// the used/total tag counts behind the coverage ratio.
func CheckTagCoverage(ep story.Episode) ([]TagGap, []UnusedTag, int, int) {
	var tags []string
	seen := make(map[string]struct{})
	for _, n := range ep.Nodes {
		for _, c := range n.Choices {
			for _, tag := range c.Tags {
				if _, ok := seen[tag]; ok {
					continue
				}
				seen[tag] = struct{}{}
				tags = append(tags, tag)
			}
		}
	}

	var idents []string
	for _, e := range ep.Endings {
		idents = append(idents, cond.Identifiers(e.Condition)...)
	}

	var gaps []TagGap
	for _, e := range ep.Endings {
		for _, ident := range cond.Identifiers(e.Condition) {
			if anyMatches(tags, ident) {
				continue
			}
			gaps = append(gaps, TagGap{
				EpisodeID:  ep.ID,
				EndingID:   e.ID,
				Identifier: ident,
			})
		}
	}

	var unused []UnusedTag
	used := 0
	for _, tag := range tags {
		if anyMatches(idents, tag) {
			used++
			continue
		}
		unused = append(unused, UnusedTag{EpisodeID: ep.ID, Tag: tag})
	}

	return gaps, unused, used, len(tags)
}

func anyMatches(candidates []string, name string) bool {
	for _, c := range candidates {
		if c == name || strings.Contains(c, name) || strings.Contains(name, c) {
			return true
		}
	}
	return false
}

// GaugeIntervals computes each gauge's reachable range: the initial
// value pushed down by every negative delta and up by every positive
// delta across all episode endings, clamped to the gauge scale. A gauge
// no ending ever touches stays pinned at its initial value.
func GaugeIntervals(gauges []story.GaugeDefinition, episodes []story.Episode) map[string]Interval {
	init := story.NewGaugeState(gauges)

	out := make(map[string]Interval, len(gauges))
	for _, g := range gauges {
		v := init.Get(g.ID)
		out[g.ID] = Interval{Min: v, Max: v}
	}

	for _, ep := range episodes {
		for _, e := range ep.Endings {
			for id, delta := range e.GaugeChanges {
				iv, ok := out[id]
				if !ok {
					continue
				}
				if delta < 0 {
					iv.Min += delta
				} else {
					iv.Max += delta
				}
				out[id] = iv
			}
		}
	}

	for id, iv := range out {
		out[id] = Interval{Min: story.Clamp(iv.Min), Max: story.Clamp(iv.Max)}
	}
	return out
}

// CheckGaugeBalance tests every final ending's condition against the
// reachable gauge intervals. This is an interval approximation: a
// condition reported unreachable truly is, while a reachable verdict may
// still be hard to hit in play.
func CheckGaugeBalance(gauges []story.GaugeDefinition, episodes []story.Episode, finals []story.FinalEnding) ([]UnreachableEnding, []string) {
	intervals := GaugeIntervals(gauges, episodes)

	var unreachable []UnreachableEnding
	var warnings []string
	for _, f := range finals {
		if strings.TrimSpace(f.Condition) == cond.Default {
			continue
		}
		if cond.MixesAndOr(f.Condition) {
			warnings = append(warnings, mixWarning("final", f.ID, f.Condition))
		}

		if reason := unreachableReason(f.Condition, intervals); reason != "" {
			unreachable = append(unreachable, UnreachableEnding{
				EndingID:  f.ID,
				Condition: f.Condition,
				Reason:    reason,
			})
		}
	}
	return unreachable, warnings
}

// unreachableReason returns a description of the first conjunct no gauge
// state can satisfy, or "" when the whole condition is satisfiable.
func unreachableReason(condition string, intervals map[string]Interval) string {
	for _, group := range cond.Groups(condition) {
		satisfiable := false
		for _, alt := range group {
			if termSatisfiable(alt, intervals) {
				satisfiable = true
				break
			}
		}
		if !satisfiable {
			return fmt.Sprintf("no reachable gauge state satisfies %q", strings.Join(group, " OR "))
		}
	}
	return ""
}

// termSatisfiable tests one comparison against the intervals. Unknown
// identifiers are the constant 0, matching the evaluator.
func termSatisfiable(term string, intervals map[string]Interval) bool {
	t, ok := cond.ParseTerm(term)
	if !ok {
		return false
	}

	left := identInterval(t.Left, intervals)

	if threshold, ok := t.Threshold(); ok {
		switch t.Op {
		case ">=":
			return left.Max >= threshold
		case "<=":
			return left.Min <= threshold
		case "==":
			return left.Contains(threshold)
		case ">":
			return left.Max > threshold
		case "<":
			return left.Min < threshold
		}
		return false
	}

	right := identInterval(t.Right, intervals)
	switch t.Op {
	case ">=":
		return left.Max >= right.Min
	case "<=":
		return left.Min <= right.Max
	case "==":
		return left.Min <= right.Max && right.Min <= left.Max
	case ">":
		return left.Max > right.Min
	case "<":
		return left.Min < right.Max
	}
	return false
}

func identInterval(name string, intervals map[string]Interval) Interval {
	if iv, ok := intervals[name]; ok {
		return iv
	}
	return Interval{}
}

func mixWarning(scope, endingID, condition string) string {
	return fmt.Sprintf("%s/%s: condition %q mixes AND and OR; it resolves by the AND-first split", scope, endingID, condition)
}
