package card

import "fmt"

// Card is a card owned by a player between fights: on the board, in the shop
// or in hand. Stats may differ from the catalogue base after buffs.
type Card struct {
	ID     uint32   `json:"id" yaml:"id"`
	Base   BaseCard `json:"base" yaml:"base"`
	HP     int      `json:"hp" yaml:"hp"`
	Atk    int      `json:"atk" yaml:"atk"`
	Played int      `json:"played" yaml:"played"`
}

// New creates a card of type base at catalogue stats.
//
// Precondition: base must be Valid; cat must be non-nil.
// Postcondition: HP and Atk equal the catalogue definition's base stats.
func New(cat *Catalogue, base BaseCard, id uint32) Card {
	def := cat.Get(base)
	return Card{ID: id, Base: base, HP: def.HP, Atk: def.Atk}
}

// Validate checks the card's invariants against cat.
//
// Postcondition: Returns nil iff Base is a catalogue entry, HP >= 1 and Atk >= 0.
func (c Card) Validate(cat *Catalogue) error {
	if _, ok := cat.Lookup(c.Base); !ok {
		return fmt.Errorf("card %d: unknown base card %d", c.ID, int(c.Base))
	}
	if c.HP < 1 {
		return fmt.Errorf("card %d (%s): hp must be >= 1, got %d", c.ID, c.Base, c.HP)
	}
	if c.Atk < 0 {
		return fmt.Errorf("card %d (%s): atk must be >= 0, got %d", c.ID, c.Base, c.Atk)
	}
	return nil
}
