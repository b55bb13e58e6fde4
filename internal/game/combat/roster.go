// Package combat implements the auto-battle resolution engine: given two
// rosters and a random Source it resolves a whole battle synchronously and
// returns the ordered event log.
//
// The engine holds no global state and never observes wall-clock time; all
// randomness is drawn from the Source passed in, so a battle is reproducible
// from its seed and its starting rosters.
package combat

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/autobattler/internal/game/card"
)

// ErrUnknownCard is returned when a roster references a base card missing from the catalogue.
var ErrUnknownCard = errors.New("unknown base card")

// Source is the subset of dice.Source used by the engine.
// Using a local interface avoids a circular import.
type Source interface {
	Intn(n int) int
}

// CardInstance is one card on a board during a battle.
//
// Invariant: a CardInstance with HP == 0 is dying and is removed from its
// roster before the roster is read by the next resolution step.
type CardInstance struct {
	// ID is stable for the whole fight and correlates events back to UI entities.
	ID uint32
	// Def is the shared, immutable catalogue entry.
	Def *card.Definition
	// HP is the current hit points.
	HP int
	// Atk is the current attack power.
	Atk int
	// Played is the play-order counter; the lowest value attacks next.
	Played int
}

func (c *CardInstance) dying() bool { return c.HP <= 0 }

// Roster is one side's mutable combat-time state.
type Roster struct {
	// PlayerID distinguishes the two sides in emitted events.
	PlayerID int64
	// HP is the player's own life total.
	HP int
	// Gold is the gold gained by abilities during this battle.
	Gold int
	// Cards is the board in slot order; attack order is derived from Played.
	Cards []*CardInstance
}

// NewRoster builds a Roster for playerID from persistent cards.
//
// Precondition: cat must be non-nil.
// Postcondition: Returns a Roster whose Cards mirror cards in order, or an
// error wrapping ErrUnknownCard when a base card is not in cat.
func NewRoster(playerID int64, hp int, cards []card.Card, cat *card.Catalogue) (Roster, error) {
	r := Roster{PlayerID: playerID, HP: hp, Cards: make([]*CardInstance, 0, len(cards))}
	for _, c := range cards {
		def, ok := cat.Lookup(c.Base)
		if !ok {
			return Roster{}, fmt.Errorf("card %d: %w %d", c.ID, ErrUnknownCard, int(c.Base))
		}
		r.Cards = append(r.Cards, &CardInstance{ID: c.ID, Def: def, HP: c.HP, Atk: c.Atk, Played: c.Played})
	}
	return r, nil
}

// Survivors converts the cards still on the board back to persistent cards.
//
// Postcondition: Every returned card has HP >= 1.
func (r *Roster) Survivors() []card.Card {
	out := make([]card.Card, 0, len(r.Cards))
	for _, c := range r.Cards {
		if c.dying() {
			continue
		}
		out = append(out, card.Card{ID: c.ID, Base: c.Def.Base, HP: c.HP, Atk: c.Atk, Played: c.Played})
	}
	return out
}

// RankSum returns the total rank of the cards on the board.
func (r *Roster) RankSum() int {
	total := 0
	for _, c := range r.Cards {
		total += c.Def.Rank
	}
	return total
}

// clone returns a deep copy so the engine exclusively owns the cards it mutates.
func (r Roster) clone() Roster {
	out := r
	out.Cards = make([]*CardInstance, len(r.Cards))
	for i, c := range r.Cards {
		cp := *c
		out.Cards[i] = &cp
	}
	return out
}

// indexOf returns c's current slot, or -1 once c has been removed.
func (r *Roster) indexOf(c *CardInstance) int {
	for i, x := range r.Cards {
		if x == c {
			return i
		}
	}
	return -1
}

// removeDead drops every dying card, preserving slot order of the rest.
func (r *Roster) removeDead() {
	kept := r.Cards[:0]
	for _, c := range r.Cards {
		if !c.dying() {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(r.Cards); i++ {
		r.Cards[i] = nil
	}
	r.Cards = kept
}

// nextAttacker returns the slot of the card with the lowest Played counter;
// ties go to the leftmost slot.
//
// Precondition: r.Cards is non-empty.
func (r *Roster) nextAttacker() int {
	best := 0
	for i, c := range r.Cards {
		if c.Played < r.Cards[best].Played {
			best = i
		}
	}
	return best
}
