package director

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/inkwell-labs/gamebook/internal/provider"
	"github.com/inkwell-labs/gamebook/internal/story"
)

// genTask is one pending generation: expand this choice of this parent.
// The root task has a nil parent.
type genTask struct {
	parent *story.Node
	choice *story.Choice
	depth  int
}

func newNodeID() string {
	return uuid.NewString()[:8]
}

// BuildTree grows one episode tree. Generation proceeds in rounds: every
// (parent, choice) pair of the current frontier becomes a task, all tasks
// of a round run concurrently under the configured limit, and the next
// round starts only after the whole round has settled. Within a round each
// call gets its own timeout and a clone of the gauge baseline; a failed or
// structurally invalid generation degrades into a terminal error node
// unless Strict is set.
func (d *Director) BuildTree(ctx context.Context, epCtx story.EpisodeContext, baseline story.GaugeState) (*story.Tree, error) {
	tree := story.NewTree()

	root, err := d.generateNode(ctx, epCtx, genTask{depth: 0}, baseline)
	if err != nil {
		return nil, err
	}
	if err := tree.Add(*root); err != nil {
		return nil, err
	}

	frontier := []*story.Node{root}
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("tree build cancelled at depth %d: %w", frontier[0].Depth+1, err)
		}

		var tasks []genTask
		for _, parent := range frontier {
			if parent.Terminal(d.cfg.MaxDepth) {
				continue
			}
			for i := range parent.Choices {
				tasks = append(tasks, genTask{
					parent: parent,
					choice: &parent.Choices[i],
					depth:  parent.Depth + 1,
				})
			}
		}
		if len(tasks) == 0 {
			break
		}

		// Results land in pre-assigned slots, so the round needs no
		// locking and node order stays deterministic.
		results := make([]*story.Node, len(tasks))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.cfg.Concurrency)
		for i, task := range tasks {
			g.Go(func() error {
				node, err := d.generateNode(gctx, epCtx, task, baseline)
				if err != nil {
					return err
				}
				results[i] = node
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, node := range results {
			if err := tree.Add(*node); err != nil {
				return nil, err
			}
			frontier = append(frontier, node)
		}
	}

	return tree, nil
}

// generateNode runs one provider call under the per-call timeout and
// wraps the payload into a tree node. Failures become terminal error
// nodes; in strict mode a structurally invalid payload propagates
// instead.
func (d *Director) generateNode(ctx context.Context, epCtx story.EpisodeContext, task genTask, baseline story.GaugeState) (*story.Node, error) {
	kind := story.KindForDepth(task.depth, d.cfg.MaxDepth)

	req := provider.NodeRequest{
		Context:  epCtx,
		Depth:    task.depth,
		MaxDepth: d.cfg.MaxDepth,
		Kind:     kind,
		Parent:   task.parent,
		Choice:   task.choice,
		Gauges:   baseline.Clone(),
	}

	callCtx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()

	payload, err := d.src.GenerateNode(callCtx, req)
	if err != nil {
		if d.cfg.Strict && errors.Is(err, provider.ErrInvalidPayload) {
			return nil, err
		}
		return d.errorNode(task, err), nil
	}

	node := &story.Node{
		ID:      newNodeID(),
		Depth:   task.depth,
		Text:    payload.Text,
		Details: payload.Details,
		Choices: payload.Choices,
		Kind:    kind,
		Episode: epCtx.Plan.ID,
	}
	if task.parent != nil {
		node.ParentID = task.parent.ID
	}
	return node, nil
}

// errorNode builds the terminal placeholder that stands in for a failed
// generation. It has no choices, so the branch ends here while its
// siblings keep growing.
func (d *Director) errorNode(task genTask, cause error) *story.Node {
	node := &story.Node{
		ID:    newNodeID(),
		Depth: task.depth,
		Text:  fmt.Sprintf("[story generation failed: %v]", cause),
		Kind:  story.KindError,
	}
	if task.parent != nil {
		node.ParentID = task.parent.ID
	}
	return node
}
