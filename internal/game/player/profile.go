// Package player defines the long-lived player profile carried between shop
// and fight phases.
package player

import (
	"errors"
	"fmt"
	"time"

	"github.com/cory-johannsen/autobattler/internal/game/card"
)

// DefaultStartingHP is the player life total at the start of a game.
const DefaultStartingHP = 30

// Profile is a player's persistent state.
//
// ID is set by the persistence layer or the caller; zero means unsaved.
type Profile struct {
	ID   int64
	Name string

	HP   int
	Gold int
	// ExtraCoins is gold earned during fights, paid out at the next shop phase.
	ExtraCoins int
	Turn       int

	Board      []card.Card
	NextCardID uint32

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New constructs a fresh profile on turn 1 with an empty board.
//
// Precondition: name must be non-empty; hp must be >= 1.
// Postcondition: Returns a Profile ready for persistence, or a non-nil error.
func New(name string, hp int) (*Profile, error) {
	if name == "" {
		return nil, errors.New("player name must not be empty")
	}
	if hp < 1 {
		return nil, fmt.Errorf("starting hp must be >= 1, got %d", hp)
	}
	return &Profile{Name: name, HP: hp, Turn: 1}, nil
}

// NextID allocates a card id unique within this profile.
func (p *Profile) NextID() uint32 {
	id := p.NextCardID
	p.NextCardID++
	return id
}

// GameOver reports whether the player has no life left.
func (p *Profile) GameOver() bool {
	return p.HP <= 0
}

// Validate checks the profile's invariants against cat.
//
// Postcondition: Returns nil iff HP >= 0, every board card is valid, card ids
// are unique, and NextCardID is above every id in use.
func (p *Profile) Validate(cat *card.Catalogue) error {
	if p.HP < 0 {
		return fmt.Errorf("player %q: hp must be >= 0, got %d", p.Name, p.HP)
	}
	seen := make(map[uint32]bool, len(p.Board))
	for _, c := range p.Board {
		if err := c.Validate(cat); err != nil {
			return fmt.Errorf("player %q: %w", p.Name, err)
		}
		if seen[c.ID] {
			return fmt.Errorf("player %q: card id %d used more than once", p.Name, c.ID)
		}
		seen[c.ID] = true
		if c.ID >= p.NextCardID {
			return fmt.Errorf("player %q: card id %d not below next card id %d", p.Name, c.ID, p.NextCardID)
		}
	}
	return nil
}
