// Package card holds the immutable card catalogue and the persistent card type
// carried between shop and fight.
package card

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed cards.yaml
var defaultCatalogueYAML []byte

// Definition is the immutable catalogue entry for one BaseCard.
type Definition struct {
	Base        BaseCard
	Name        string
	Description string
	Family      Family
	Ability     Ability
	Trigger     Trigger
	Rank        int
	Atk         int
	HP          int
}

type definitionYAML struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Family      string `yaml:"family"`
	Ability     string `yaml:"ability"`
	Trigger     string `yaml:"trigger"`
	Rank        int    `yaml:"rank"`
	Atk         int    `yaml:"atk"`
	HP          int    `yaml:"hp"`
}

type catalogueYAML struct {
	Cards []definitionYAML `yaml:"cards"`
}

// Catalogue maps every BaseCard to its Definition. It is read-only after
// construction and safe for concurrent use.
type Catalogue struct {
	defs [baseCardCount]*Definition
}

// Get returns the Definition for b.
//
// Precondition: b must be Valid.
// Postcondition: Returns a non-nil Definition; panics on an invalid b.
func (c *Catalogue) Get(b BaseCard) *Definition {
	if !b.Valid() {
		panic(fmt.Sprintf("card: Catalogue.Get called with invalid base card %d", int(b)))
	}
	return c.defs[b]
}

// Lookup returns the Definition for b, or false if b is not a catalogue entry.
func (c *Catalogue) Lookup(b BaseCard) (*Definition, bool) {
	if !b.Valid() {
		return nil, false
	}
	return c.defs[b], true
}

// ByFamily returns the definitions of family f in catalogue order.
func (c *Catalogue) ByFamily(f Family) []*Definition {
	var out []*Definition
	for _, d := range c.defs {
		if d.Family == f {
			out = append(out, d)
		}
	}
	return out
}

func (d definitionYAML) toDefinition() (*Definition, error) {
	base, err := ParseBaseCard(d.Key)
	if err != nil {
		return nil, err
	}
	if d.Name == "" {
		return nil, fmt.Errorf("card %q: name must not be empty", d.Key)
	}
	family, err := ParseFamily(d.Family)
	if err != nil {
		return nil, fmt.Errorf("card %q: %w", d.Key, err)
	}
	ability, err := ParseAbility(d.Ability)
	if err != nil {
		return nil, fmt.Errorf("card %q: %w", d.Key, err)
	}
	trigger, err := ParseTrigger(d.Trigger)
	if err != nil {
		return nil, fmt.Errorf("card %q: %w", d.Key, err)
	}
	if (ability == AbilityNone) != (trigger == TriggerNone) {
		return nil, fmt.Errorf("card %q: ability %s and trigger %s must both be none or both be set", d.Key, ability, trigger)
	}
	if d.Rank < 1 || d.Rank > 4 {
		return nil, fmt.Errorf("card %q: rank must be 1-4, got %d", d.Key, d.Rank)
	}
	if d.Atk < 0 {
		return nil, fmt.Errorf("card %q: atk must be >= 0, got %d", d.Key, d.Atk)
	}
	if d.HP < 1 {
		return nil, fmt.Errorf("card %q: hp must be >= 1, got %d", d.Key, d.HP)
	}
	return &Definition{
		Base:        base,
		Name:        d.Name,
		Description: d.Description,
		Family:      family,
		Ability:     ability,
		Trigger:     trigger,
		Rank:        d.Rank,
		Atk:         d.Atk,
		HP:          d.HP,
	}, nil
}

// LoadCatalogue parses a catalogue from raw YAML bytes.
//
// Precondition: data must be valid YAML with a top-level "cards" list.
// Postcondition: Returns a Catalogue defining every BaseCard exactly once, or
// an error on the first violation.
func LoadCatalogue(data []byte) (*Catalogue, error) {
	var raw catalogueYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing catalogue YAML: %w", err)
	}

	c := &Catalogue{}
	for _, entry := range raw.Cards {
		def, err := entry.toDefinition()
		if err != nil {
			return nil, err
		}
		if c.defs[def.Base] != nil {
			return nil, fmt.Errorf("card %q: defined more than once", entry.Key)
		}
		c.defs[def.Base] = def
	}
	for i, d := range c.defs {
		if d == nil {
			return nil, fmt.Errorf("card %q: missing from catalogue", BaseCard(i))
		}
	}
	return c, nil
}

var (
	defaultOnce      sync.Once
	defaultCatalogue *Catalogue
)

// DefaultCatalogue returns the built-in catalogue.
//
// Postcondition: Returns the same non-nil Catalogue on every call; panics if
// the embedded data is invalid.
func DefaultCatalogue() *Catalogue {
	defaultOnce.Do(func() {
		c, err := LoadCatalogue(defaultCatalogueYAML)
		if err != nil {
			panic("card: embedded catalogue is invalid: " + err.Error())
		}
		defaultCatalogue = c
	})
	return defaultCatalogue
}
