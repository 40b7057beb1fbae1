// Package cond implements the small boolean condition language used by
// episode and final endings. Conditions compare named integer scores
// (choice tag counts or gauge values), for example:
//
//	"cooperative >= 2"
//	"trusting > doubtful"
//	"cooperative >= 2 AND trusting >= 1"
//	"doubtful >= 2 OR aggressive >= 2"
//	"default"
//
// There are no parentheses. A condition that mixes AND and OR is split on
// " AND " first; this is a fixed left-to-right rule, not operator
// precedence. Validators warn about such conditions, the evaluator never
// rejects them.
package cond

import (
	"strconv"
	"strings"
)

// Default is the catch-all condition that always evaluates to true.
const Default = "default"

// comparators ordered longest-first so ">=" is never misread as ">".
var comparators = []string{">=", "<=", "==", ">", "<"}

// Evaluate reports whether the condition holds for the given scores.
// Unknown identifiers evaluate to 0. Malformed terms evaluate to false.
func Evaluate(condition string, scores map[string]int) bool {
	condition = strings.TrimSpace(condition)
	if condition == Default {
		return true
	}

	if strings.Contains(condition, " AND ") {
		for _, part := range strings.Split(condition, " AND ") {
			if !Evaluate(part, scores) {
				return false
			}
		}
		return true
	}

	if strings.Contains(condition, " OR ") {
		for _, part := range strings.Split(condition, " OR ") {
			if Evaluate(part, scores) {
				return true
			}
		}
		return false
	}

	return evaluateTerm(condition, scores)
}

// evaluateTerm handles a single "identifier comparator value" clause where
// value is an integer literal or another identifier.
func evaluateTerm(term string, scores map[string]int) bool {
	t, ok := ParseTerm(term)
	if !ok {
		return false
	}

	leftVal := scores[t.Left]
	rightVal, ok := t.Threshold()
	if !ok {
		rightVal = scores[t.Right]
	}

	switch t.Op {
	case ">=":
		return leftVal >= rightVal
	case "<=":
		return leftVal <= rightVal
	case "==":
		return leftVal == rightVal
	case ">":
		return leftVal > rightVal
	case "<":
		return leftVal < rightVal
	}
	return false
}

// Term is one parsed comparison clause.
type Term struct {
	Left  string
	Op    string
	Right string
}

// Threshold returns the right side as an integer literal; ok is false
// when it names another identifier instead.
func (t Term) Threshold() (int, bool) {
	n, err := strconv.Atoi(t.Right)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseTerm splits a single clause around its comparator. It reports
// false for clauses with no comparator or an empty side.
func ParseTerm(s string) (Term, bool) {
	for _, op := range comparators {
		idx := strings.Index(s, op)
		if idx < 0 {
			continue
		}
		t := Term{
			Left:  strings.TrimSpace(s[:idx]),
			Op:    op,
			Right: strings.TrimSpace(s[idx+len(op):]),
		}
		if t.Left == "" || t.Right == "" {
			return Term{}, false
		}
		return t, true
	}
	return Term{}, false
}

// Groups applies the AND-first split: the outer slice is conjunctive,
// each inner slice disjunctive. The condition holds when every group has
// at least one holding alternative. "default" yields nil.
func Groups(condition string) [][]string {
	condition = strings.TrimSpace(condition)
	if condition == Default {
		return nil
	}

	var groups [][]string
	for _, part := range strings.Split(condition, " AND ") {
		var alts []string
		for _, alt := range strings.Split(part, " OR ") {
			alts = append(alts, strings.TrimSpace(alt))
		}
		groups = append(groups, alts)
	}
	return groups
}

// MixesAndOr reports whether the condition contains both AND and OR
// connectors. Such conditions are legal but ambiguous; they resolve by the
// fixed AND-first split.
func MixesAndOr(condition string) bool {
	return strings.Contains(condition, " AND ") && strings.Contains(condition, " OR ")
}

// Identifiers returns the distinct non-numeric names referenced by the
// condition, in order of first appearance. Returns nil for "default".
func Identifiers(condition string) []string {
	condition = strings.TrimSpace(condition)
	if condition == Default {
		return nil
	}

	seen := make(map[string]struct{})
	var names []string

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, err := strconv.Atoi(s); err == nil {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		names = append(names, s)
	}

	terms := strings.Split(condition, " AND ")
	var flat []string
	for _, t := range terms {
		flat = append(flat, strings.Split(t, " OR ")...)
	}

	for _, term := range flat {
		matched := false
		for _, op := range comparators {
			if idx := strings.Index(term, op); idx >= 0 {
				add(term[:idx])
				add(term[idx+len(op):])
				matched = true
				break
			}
		}
		if !matched {
			add(term)
		}
	}

	return names
}
