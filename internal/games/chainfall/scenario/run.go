package scenario

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vovakirdan/chainfall/internal/games/chainfall/engine"
)

// Result is the outcome of running one scenario.
type Result struct {
	Scenario *Scenario
	Events   []engine.Event
	Final    engine.Snapshot
	Stats    engine.Stats
	Failures []string
}

// Passed reports whether every expectation held.
func (r Result) Passed() bool {
	return len(r.Failures) == 0
}

// EventNames returns the kinds of all recorded events.
func (r Result) EventNames() []string {
	names := make([]string, len(r.Events))
	for i, ev := range r.Events {
		names[i] = ev.Kind.String()
	}
	return names
}

// Run plays the scenario to its last step and checks the expectations.
// sink, if not nil, receives every published snapshot.
func Run(s *Scenario, rules engine.Rules, sink engine.Sink) (Result, error) {
	e, err := s.Build(rules, sink)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %s: %w", s.Title(), err)
	}

	res := Result{Scenario: s}
	for _, st := range s.Steps {
		if st.Action != "" {
			a, _ := engine.ParseAction(st.Action)
			e.Apply(a)
			continue
		}
		res.Events = append(res.Events, e.Advance(st.Advance)...)
	}
	res.Final = e.Snapshot()
	res.Stats = e.Stats()

	if err := res.check(rules); err != nil {
		return res, fmt.Errorf("scenario %s: %w", s.Title(), err)
	}
	return res, nil
}

func (r *Result) check(rules engine.Rules) error {
	exp := r.Scenario.Expect

	if exp.Phase != "" {
		got := r.Final.Phase.Kind.String()
		if !strings.EqualFold(got, exp.Phase) {
			r.failf("phase: got %s, want %s", got, exp.Phase)
		}
	}

	if len(exp.Field) > 0 {
		want, err := engine.ParseField(rules.Rows, rules.Cols, exp.Field)
		if err != nil {
			return fmt.Errorf("expect field: %w", err)
		}
		if !want.Equal(r.Final.Field) {
			r.failf("field mismatch\ngot:\n%s\nwant:\n%s", r.Final.Field, want)
		}
	}

	if len(exp.Events) > 0 {
		got := r.EventNames()
		if !slices.Equal(got, exp.Events) {
			r.failf("events: got %v, want %v", got, exp.Events)
		}
	}

	names := make([]string, 0, len(exp.Stats))
	for name := range exp.Stats {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		got := statNames[name](r.Stats)
		if want := exp.Stats[name]; got != want {
			r.failf("stats.%s: got %d, want %d", name, got, want)
		}
	}
	return nil
}

func (r *Result) failf(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}
