// Package hand provides the predefined opponent boards fielded against the
// player on each shop turn.
package hand

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/autobattler/internal/game/card"
)

//go:embed hands.yaml
var defaultHandsYAML []byte

// Source is the subset of dice.Source used to pick a hand.
type Source interface {
	Intn(n int) int
}

// IDSequence allocates card ids unique within one player's game.
type IDSequence interface {
	NextID() uint32
}

// Slot is one card of a predefined board.
type Slot struct {
	Base card.BaseCard
	Atk  int
	HP   int
}

// Hand is a named opponent whose board grows with the shop turn.
type Hand struct {
	Name string
	// turns maps a shop turn to its board; turns with no entry use fallback.
	turns    map[int][]Slot
	fallback []Slot
}

// Board returns the slots fielded on turn.
//
// Postcondition: Returns a non-empty slice the caller must not modify.
func (h *Hand) Board(turn int) []Slot {
	if b, ok := h.turns[turn]; ok {
		return b
	}
	return h.fallback
}

// Cards builds fresh cards for turn, taking one id per card from ids in
// board order.
//
// Precondition: ids must be non-nil.
// Postcondition: Every returned card has Played == 0.
func (h *Hand) Cards(turn int, ids IDSequence) []card.Card {
	board := h.Board(turn)
	out := make([]card.Card, 0, len(board))
	for _, s := range board {
		out = append(out, card.Card{ID: ids.NextID(), Base: s.Base, HP: s.HP, Atk: s.Atk})
	}
	return out
}

// Set is a collection of hands keyed by name.
type Set struct {
	hands  []*Hand
	byName map[string]*Hand
}

// Get returns the hand called name.
func (s *Set) Get(name string) (*Hand, bool) {
	h, ok := s.byName[name]
	return h, ok
}

// Names returns the hand names in declaration order.
func (s *Set) Names() []string {
	out := make([]string, len(s.hands))
	for i, h := range s.hands {
		out[i] = h.Name
	}
	return out
}

// Random picks a hand uniformly using one draw from src.
//
// Precondition: the set must contain at least one hand.
func (s *Set) Random(src Source) *Hand {
	return s.hands[src.Intn(len(s.hands))]
}

type slotYAML struct {
	Base string `yaml:"base"`
	Atk  int    `yaml:"atk"`
	HP   int    `yaml:"hp"`
}

type handYAML struct {
	Name    string             `yaml:"name"`
	Turns   map[int][]slotYAML `yaml:"turns"`
	Default []slotYAML         `yaml:"default"`
}

type setYAML struct {
	Hands []handYAML `yaml:"hands"`
}

func toSlots(hand string, raw []slotYAML, cat *card.Catalogue) ([]Slot, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("hand %q: board must not be empty", hand)
	}
	out := make([]Slot, 0, len(raw))
	for _, r := range raw {
		base, err := card.ParseBaseCard(r.Base)
		if err != nil {
			return nil, fmt.Errorf("hand %q: %w", hand, err)
		}
		c := card.Card{Base: base, Atk: r.Atk, HP: r.HP}
		if err := c.Validate(cat); err != nil {
			return nil, fmt.Errorf("hand %q: %w", hand, err)
		}
		out = append(out, Slot{Base: base, Atk: r.Atk, HP: r.HP})
	}
	return out, nil
}

// Load parses a hand set from raw YAML bytes, validating every slot against cat.
//
// Precondition: cat must be non-nil.
// Postcondition: Returns a Set with at least one hand, each with a non-empty
// default board, or an error on the first violation.
func Load(data []byte, cat *card.Catalogue) (*Set, error) {
	var raw setYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hands YAML: %w", err)
	}
	if len(raw.Hands) == 0 {
		return nil, fmt.Errorf("hands YAML defines no hands")
	}

	s := &Set{byName: make(map[string]*Hand, len(raw.Hands))}
	for _, rh := range raw.Hands {
		if rh.Name == "" {
			return nil, fmt.Errorf("hand name must not be empty")
		}
		if _, dup := s.byName[rh.Name]; dup {
			return nil, fmt.Errorf("hand %q: defined more than once", rh.Name)
		}
		fallback, err := toSlots(rh.Name, rh.Default, cat)
		if err != nil {
			return nil, err
		}
		h := &Hand{Name: rh.Name, turns: make(map[int][]Slot, len(rh.Turns)), fallback: fallback}

		turns := make([]int, 0, len(rh.Turns))
		for t := range rh.Turns {
			turns = append(turns, t)
		}
		sort.Ints(turns)
		for _, t := range turns {
			if t < 1 {
				return nil, fmt.Errorf("hand %q: turn must be >= 1, got %d", rh.Name, t)
			}
			board, err := toSlots(rh.Name, rh.Turns[t], cat)
			if err != nil {
				return nil, fmt.Errorf("turn %d: %w", t, err)
			}
			h.turns[t] = board
		}
		s.hands = append(s.hands, h)
		s.byName[h.Name] = h
	}
	return s, nil
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the built-in hands, validated against card.DefaultCatalogue.
//
// Postcondition: Returns the same non-nil Set on every call; panics if the
// embedded data is invalid.
func Default() *Set {
	defaultOnce.Do(func() {
		s, err := Load(defaultHandsYAML, card.DefaultCatalogue())
		if err != nil {
			panic("hand: embedded hands are invalid: " + err.Error())
		}
		defaultSet = s
	})
	return defaultSet
}

// Fixed returns a hand that fields board on every turn.
//
// Precondition: board must be non-empty.
func Fixed(name string, board []Slot) *Hand {
	return &Hand{Name: name, fallback: board}
}
