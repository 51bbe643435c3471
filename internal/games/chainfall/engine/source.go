package engine

import "math/rand"

// PairSource supplies the colors of each new piece.
type PairSource interface {
	Next() Pair
}

// RandomSource picks both halves of every pair independently.
type RandomSource struct {
	rng    *rand.Rand
	colors []Color
}

// NewRandomSource creates a seeded source drawing from colors.
func NewRandomSource(seed int64, colors []Color) *RandomSource {
	if len(colors) == 0 {
		colors = AllColors()
	}
	return &RandomSource{
		rng:    rand.New(rand.NewSource(seed)),
		colors: append([]Color(nil), colors...),
	}
}

// Next returns a random pair.
func (s *RandomSource) Next() Pair {
	return Pair{
		s.colors[s.rng.Intn(len(s.colors))],
		s.colors[s.rng.Intn(len(s.colors))],
	}
}

// SequenceSource replays a fixed list of pairs, wrapping around at the end.
type SequenceSource struct {
	pairs []Pair
	next  int
}

// NewSequenceSource creates a source over pairs. It panics on an empty list.
func NewSequenceSource(pairs ...Pair) *SequenceSource {
	if len(pairs) == 0 {
		panic("engine: sequence source needs at least one pair")
	}
	return &SequenceSource{pairs: append([]Pair(nil), pairs...)}
}

// Next returns the next pair of the sequence.
func (s *SequenceSource) Next() Pair {
	p := s.pairs[s.next]
	s.next = (s.next + 1) % len(s.pairs)
	return p
}
