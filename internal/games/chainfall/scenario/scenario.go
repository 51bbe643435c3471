// Package scenario runs scripted chainfall games on the engine's virtual
// clock. A scenario is a YAML file holding a starting field, a fixed pair
// sequence, a list of steps and the expected outcome.
package scenario

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/chainfall/internal/games/chainfall/engine"
)

// Scenario is one scripted game.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Speed       *int     `yaml:"speed"`
	Seed        int64    `yaml:"seed"`
	Field       []string `yaml:"field"`
	Pairs       []string `yaml:"pairs"` // satellite then axis, e.g. "GR"
	Steps       []Step   `yaml:"steps"`
	Expect      Expect   `yaml:"expect"`

	// Path is the file the scenario was loaded from, if any.
	Path string `yaml:"-"`
}

// Step is either an action or a wait on the virtual clock.
type Step struct {
	Action  string        `yaml:"action,omitempty"`
	Advance time.Duration `yaml:"advance,omitempty"`
}

// Expect lists the checks made after the last step. Empty fields are not checked.
type Expect struct {
	Phase  string         `yaml:"phase"`
	Field  []string       `yaml:"field"`
	Events []string       `yaml:"events"`
	Stats  map[string]int `yaml:"stats"`
}

var statNames = map[string]func(engine.Stats) int{
	"pairs":          func(s engine.Stats) int { return s.Pairs },
	"settled":        func(s engine.Stats) int { return s.Settled },
	"conflicts":      func(s engine.Stats) int { return s.Conflicts },
	"chain_links":    func(s engine.Stats) int { return s.ChainLinks },
	"longest_chain":  func(s engine.Stats) int { return s.LongestChain },
	"groups_cleared": func(s engine.Stats) int { return s.GroupsCleared },
	"cells_cleared":  func(s engine.Stats) int { return s.CellsCleared },
}

// Title returns the scenario name, falling back to its path.
func (s *Scenario) Title() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Path
}

// Validate checks that every step, pair and expectation is well formed.
func (s *Scenario) Validate() error {
	for i, st := range s.Steps {
		switch {
		case st.Action != "" && st.Advance != 0:
			return fmt.Errorf("step %d: action and advance are exclusive", i+1)
		case st.Action != "":
			if _, ok := engine.ParseAction(st.Action); !ok {
				return fmt.Errorf("step %d: unknown action %q", i+1, st.Action)
			}
		case st.Advance < 0:
			return fmt.Errorf("step %d: negative advance %s", i+1, st.Advance)
		case st.Advance == 0:
			return fmt.Errorf("step %d: empty step", i+1)
		}
	}
	if _, err := s.pairs(); err != nil {
		return err
	}
	for name := range s.Expect.Stats {
		if _, ok := statNames[name]; !ok {
			return fmt.Errorf("expect: unknown stat %q", name)
		}
	}
	return nil
}

func (s *Scenario) pairs() ([]engine.Pair, error) {
	out := make([]engine.Pair, 0, len(s.Pairs))
	for _, p := range s.Pairs {
		letters := []rune(strings.TrimSpace(p))
		if len(letters) != 2 {
			return nil, fmt.Errorf("pair %q: want two color letters", p)
		}
		var pair engine.Pair
		for i, r := range letters {
			c, ok := engine.ParseColor(string(r))
			if !ok {
				return nil, fmt.Errorf("pair %q: unknown color %q", p, r)
			}
			pair[i] = c
		}
		out = append(out, pair)
	}
	return out, nil
}

// Build creates an engine positioned at the scenario start.
func (s *Scenario) Build(rules engine.Rules, sink engine.Sink) (*engine.Engine, error) {
	pairs, err := s.pairs()
	if err != nil {
		return nil, err
	}

	var source engine.PairSource
	if len(pairs) > 0 {
		source = engine.NewSequenceSource(pairs...)
	} else {
		source = engine.NewRandomSource(s.Seed, rules.Colors)
	}

	var opts []engine.Option
	if sink != nil {
		opts = append(opts, engine.WithSink(sink))
	}
	if len(s.Field) > 0 {
		f, err := engine.ParseField(rules.Rows, rules.Cols, s.Field)
		if err != nil {
			return nil, fmt.Errorf("field: %w", err)
		}
		opts = append(opts, engine.WithField(f))
	}
	if s.Speed != nil {
		opts = append(opts, engine.WithSpeed(*s.Speed))
	}
	return engine.New(rules, source, opts...)
}
