package story

// DefaultGaugeValue is assumed for any gauge that has no explicit initial
// value and for deltas applied to gauges absent from the state.
const DefaultGaugeValue = 50

// GaugeState maps gauge IDs to their current value. Values always stay
// within [0,100]; every delta application is clamped.
type GaugeState map[string]int

// Clamp bounds a gauge value to [0,100]. Idempotent.
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// NewGaugeState builds the baseline state from gauge definitions, using
// each definition's initial value or DefaultGaugeValue when unset.
func NewGaugeState(defs []GaugeDefinition) GaugeState {
	state := make(GaugeState, len(defs))
	for _, def := range defs {
		v := def.InitialValue
		if v == 0 {
			v = DefaultGaugeValue
		}
		state[def.ID] = Clamp(v)
	}
	return state
}

// Clone returns an independent copy of the state. Concurrent generation
// tasks receive clones so the baseline stays read-only during a build.
func (s GaugeState) Clone() GaugeState {
	out := make(GaugeState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Get returns the gauge's value, or DefaultGaugeValue if absent.
func (s GaugeState) Get(id string) int {
	if v, ok := s[id]; ok {
		return v
	}
	return DefaultGaugeValue
}

// Apply returns a new state with the deltas folded in. Each touched gauge
// is clamped to [0,100]; untouched gauges pass through unchanged. The
// receiver is not modified.
func (s GaugeState) Apply(deltas map[string]int) GaugeState {
	out := s.Clone()
	for id, delta := range deltas {
		out[id] = Clamp(out.Get(id) + delta)
	}
	return out
}

// AggregateEpisodes folds the chosen episode endings into the initial
// state in order. Order matters: clamping saturates, so applying a large
// positive delta before a negative one is not the same as summing first.
func AggregateEpisodes(initial GaugeState, endings []EpisodeEnding) GaugeState {
	state := initial.Clone()
	for _, ending := range endings {
		state = state.Apply(ending.GaugeChanges)
	}
	return state
}

// Scores exposes the state as a plain map for condition evaluation.
func (s GaugeState) Scores() map[string]int {
	return map[string]int(s)
}
