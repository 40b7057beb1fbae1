// Package story defines the data model for branching interactive stories:
// narrative nodes and choices, episodes with their local endings, gauge
// definitions and the clamped gauge state they accumulate into, and the
// ending resolver that picks outcomes from condition expressions.
package story

// NodeKind classifies a node by its position in the tree.
type NodeKind string

const (
	KindRoot        NodeKind = "root"
	KindDevelopment NodeKind = "development"
	KindClimax      NodeKind = "climax"
	KindEnding      NodeKind = "ending"
	KindError       NodeKind = "error"
)

// KindForDepth returns the classification for a node at the given depth of
// a tree bounded by maxDepth.
func KindForDepth(depth, maxDepth int) NodeKind {
	switch {
	case depth == 0:
		return KindRoot
	case depth >= maxDepth:
		return KindEnding
	case depth == maxDepth-1:
		return KindClimax
	default:
		return KindDevelopment
	}
}

// NodeDetail carries the free-form flavor data attached to a node.
type NodeDetail struct {
	// NPCEmotions maps character names to their current emotional state.
	NPCEmotions map[string]string `json:"npc_emotions"`

	// Situation is a one-line summary of the scene.
	Situation string `json:"situation"`

	// RelationsUpdate records relationship changes caused by this scene.
	RelationsUpdate map[string]string `json:"relations_update"`
}

// Choice is a player-facing option on a node. Tags accumulate into the
// episode's tag scores; the immediate reaction is shown right after the
// choice is taken. GaugeChanges is only meaningful on ending-bearing
// entities and is usually empty on in-tree choices.
type Choice struct {
	Text              string         `json:"text"`
	Tags              []string       `json:"tags"`
	ImmediateReaction string         `json:"immediate_reaction"`
	GaugeChanges      map[string]int `json:"gauge_changes,omitempty"`
}

// Node is one narrative beat in a branching tree.
type Node struct {
	ID       string     `json:"id"`
	Depth    int        `json:"depth"`
	Text     string     `json:"text"`
	Details  NodeDetail `json:"details"`
	Choices  []Choice   `json:"choices"`
	ParentID string     `json:"parent_id"`
	Kind     NodeKind   `json:"node_type"`
	Episode  string     `json:"episode_id"`
}

// Terminal reports whether the node ends its branch: either it sits at the
// tree's maximum depth or it offers no choices.
func (n *Node) Terminal(maxDepth int) bool {
	return n.Depth >= maxDepth || len(n.Choices) == 0
}

// Character is a protagonist extracted from the source novel.
type Character struct {
	Name          string   `json:"name"`
	Aliases       []string `json:"aliases"`
	Description   string   `json:"description"`
	Relationships []string `json:"relationships"`
}

// GaugeDefinition describes one thematic axis tracked across episodes.
type GaugeDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Meaning     string `json:"meaning"`
	MinLabel    string `json:"min_label"`
	MaxLabel    string `json:"max_label"`
	Description string `json:"description"`

	// InitialValue is the gauge's starting value in [0,100]. Zero means
	// unset and reads as DefaultGaugeValue, so a gauge cannot be authored
	// to start at exactly 0; the lowest expressible start is 1.
	InitialValue int `json:"initial_value"`
}

// EpisodeEnding is a per-episode outcome. Its condition is evaluated over
// accumulated tag scores; its gauge changes feed the global gauge state.
type EpisodeEnding struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Condition    string         `json:"condition"`
	Text         string         `json:"text"`
	GaugeChanges map[string]int `json:"gauge_changes"`
}

// FinalEnding is a global outcome. Its condition is evaluated over the
// final gauge state; it reads gauges and carries no deltas.
type FinalEnding struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Condition string `json:"condition"`
	Summary   string `json:"summary"`
}

// EpisodePlan is the authoring-time outline of one episode, produced by
// splitting the novel before any tree is generated.
type EpisodePlan struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Order         int      `json:"order"`
	Description   string   `json:"description"`
	Theme         string   `json:"theme"`
	KeyCharacters []string `json:"key_characters"`
}

// Episode is one independently playable branching tree plus its local
// endings and intro text. Episodes do not connect narratively; only gauges
// carry across them.
type Episode struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Order       int             `json:"order"`
	Description string          `json:"description"`
	Theme       string          `json:"theme"`
	IntroText   string          `json:"intro_text"`
	Nodes       []Node          `json:"nodes"`
	Endings     []EpisodeEnding `json:"endings"`
}

// EpisodeContext is everything the content provider needs to generate one
// episode: the novel-level analysis plus this episode's plan.
type EpisodeContext struct {
	Summary      string
	Characters   []Character
	Gauges       []GaugeDefinition
	FinalEndings []FinalEnding
	Plan         EpisodePlan
	IntroText    string
}
