package story

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{101, 100},
		{-150, 0},
		{250, 100},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
		// Idempotence.
		if got := Clamp(Clamp(tt.in)); got != tt.want {
			t.Errorf("Clamp(Clamp(%d)) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNewGaugeState(t *testing.T) {
	defs := []GaugeDefinition{
		{ID: "hope", InitialValue: 70},
		{ID: "trust"}, // unset → default
		{ID: "fear", InitialValue: 130},
	}
	state := NewGaugeState(defs)

	if state["hope"] != 70 {
		t.Errorf("hope = %d, want 70", state["hope"])
	}
	if state["trust"] != DefaultGaugeValue {
		t.Errorf("trust = %d, want %d", state["trust"], DefaultGaugeValue)
	}
	if state["fear"] != 100 {
		t.Errorf("fear = %d, want clamped 100", state["fear"])
	}
}

func TestGaugeState_ApplyClamps(t *testing.T) {
	state := GaugeState{"hope": 50}

	state = state.Apply(map[string]int{"hope": 60})
	if state["hope"] != 100 {
		t.Errorf("hope after +60 = %d, want 100 (clamped)", state["hope"])
	}

	state = state.Apply(map[string]int{"hope": -150})
	if state["hope"] != 0 {
		t.Errorf("hope after -150 = %d, want 0 (clamped)", state["hope"])
	}
}

func TestGaugeState_ApplyDefaultsMissingGauge(t *testing.T) {
	state := GaugeState{}
	state = state.Apply(map[string]int{"hope": 10})
	if state["hope"] != 60 {
		t.Errorf("missing gauge starts at %d, got %d after +10, want 60", DefaultGaugeValue, state["hope"])
	}
}

func TestGaugeState_ApplyIsPure(t *testing.T) {
	before := GaugeState{"hope": 50, "trust": 40}
	after := before.Apply(map[string]int{"hope": 10})

	if before["hope"] != 50 {
		t.Errorf("receiver mutated: hope = %d, want 50", before["hope"])
	}
	if after["hope"] != 60 || after["trust"] != 40 {
		t.Errorf("unexpected result state: %v", after)
	}
}

func TestAggregateEpisodes_OrderMatters(t *testing.T) {
	initial := GaugeState{"hope": 50}

	bigThenNeg := []EpisodeEnding{
		{GaugeChanges: map[string]int{"hope": 80}},
		{GaugeChanges: map[string]int{"hope": -30}},
	}
	negThenBig := []EpisodeEnding{
		{GaugeChanges: map[string]int{"hope": -30}},
		{GaugeChanges: map[string]int{"hope": 80}},
	}

	// 50+80→100 (clamped), -30 → 70.
	if got := AggregateEpisodes(initial, bigThenNeg)["hope"]; got != 70 {
		t.Errorf("saturate-then-drop = %d, want 70", got)
	}
	// 50-30→20, +80→100.
	if got := AggregateEpisodes(initial, negThenBig)["hope"]; got != 100 {
		t.Errorf("drop-then-rise = %d, want 100", got)
	}
}

func TestAggregateEpisodes_AllValuesInRange(t *testing.T) {
	initial := GaugeState{"hope": 50, "trust": 10}
	endings := []EpisodeEnding{
		{GaugeChanges: map[string]int{"hope": 200, "trust": -90}},
		{GaugeChanges: map[string]int{"hope": -500}},
		{GaugeChanges: map[string]int{"trust": 75}},
	}

	final := AggregateEpisodes(initial, endings)
	for id, v := range final {
		if v < 0 || v > 100 {
			t.Errorf("gauge %s = %d, outside [0,100]", id, v)
		}
	}
}
