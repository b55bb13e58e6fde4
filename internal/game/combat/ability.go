package combat

import (
	"fmt"

	"github.com/cory-johannsen/autobattler/internal/game/card"
)

const (
	// goldPerAbility is the gold granted by Pillage and GoldMine.
	goldPerAbility = 1
	// glitchAmount is the stat reduction applied by Glitch.
	glitchAmount = 2
)

// ResolveAbility applies the ability of own.Cards[cardIndex] fired by trigger.
// targetIndex names the opposing card involved in the exchange; an index
// outside opp.Cards means the ability has no target.
//
// Precondition: cardIndex must be a valid index into own.Cards.
// Postcondition: The first returned event is an AbilityAppliedEvent for the
// triggering card. Cards killed by ExplodingArmour are swept at once;
// single-target kills are left at HP 0 for the caller to sweep.
func ResolveAbility(cardIndex, targetIndex int, own, opp *Roster, trigger card.Trigger, src Source) []Event {
	if cardIndex < 0 || cardIndex >= len(own.Cards) {
		panic(fmt.Sprintf("combat: ResolveAbility card index %d out of range [0,%d)", cardIndex, len(own.Cards)))
	}
	var target *CardInstance
	if targetIndex >= 0 && targetIndex < len(opp.Cards) {
		target = opp.Cards[targetIndex]
	}
	return resolveAbility(own.Cards[cardIndex], target, own, opp, trigger, src)
}

// resolveAbility is the pointer form used inside an attack. Holding pointers
// instead of indices keeps references valid across removals within a step.
func resolveAbility(self, target *CardInstance, own, opp *Roster, trigger card.Trigger, src Source) []Event {
	events := []Event{AbilityAppliedEvent{
		PlayerID:  own.PlayerID,
		CardID:    self.ID,
		CardIndex: own.indexOf(self),
		Ability:   self.Def.Ability,
		Trigger:   trigger,
	}}

	// target is nil or already swept when the ability has nothing to act on.
	if target != nil && opp.indexOf(target) < 0 {
		target = nil
	}

	switch self.Def.Ability {
	case card.AbilityNone:

	// Mushrooms
	case card.AbilitySlimy:
		if !self.dying() {
			self.HP++
			events = append(events, statsChange(own, self, 1, 0))
		}
	case card.AbilitySweetScent:
		// not yet implemented
	case card.AbilityToxicSpores:
		events = append(events, instantKill(opp, target)...)
	case card.AbilitySporocarp:
		// not yet implemented
	case card.AbilityRoots:
		// not yet implemented
	case card.AbilityGigantism:
		self.Atk++
		events = append(events, statsChange(own, self, 0, 1))

	// Merchants
	case card.AbilitySadism:
		// not yet implemented
	case card.AbilityExplodingArmour:
		events = append(events, explodeArmour(opp)...)
	case card.AbilityPillage, card.AbilityGoldMine:
		own.Gold += goldPerAbility
		events = append(events, GoldChangeEvent{PlayerID: own.PlayerID, Change: goldPerAbility})
	case card.AbilityAltruism:
		// not yet implemented
	case card.AbilityDexterity:
		// The bonus attack is granted by ResolveAttack's replay flag.

	// Spiders
	case card.AbilityCooperation:
		// not yet implemented
	case card.AbilityTrap:
		if target != nil && !target.dying() {
			halved := target.Atk / 2
			delta := halved - target.Atk
			target.Atk = halved
			events = append(events, statsChange(opp, target, 0, delta))
		}
	case card.AbilityMultiplication:
		// not yet implemented
	case card.AbilityPoisonous:
		events = append(events, instantKill(opp, target)...)
	case card.AbilitySpawn:
		// not yet implemented
	case card.AbilityCannibalism:
		// not yet implemented

	// Robots
	case card.AbilityReplication:
		// not yet implemented
	case card.AbilityScanner:
		// not yet implemented
	case card.AbilityUpgrade:
		// not yet implemented
	case card.AbilityGlitch:
		if target != nil && !target.dying() {
			events = append(events, glitch(opp, target, src)...)
		}
	case card.AbilityUpload:
		// not yet implemented
	case card.AbilityDownload:
		// not yet implemented

	default:
		panic(fmt.Sprintf("combat: unhandled ability %d", int(self.Def.Ability)))
	}
	return events
}

func statsChange(r *Roster, c *CardInstance, hp, atk int) StatsChangeEvent {
	return StatsChangeEvent{PlayerID: r.PlayerID, CardID: c.ID, CardIndex: r.indexOf(c), HP: hp, Atk: atk}
}

func death(r *Roster, c *CardInstance) DeathEvent {
	return DeathEvent{PlayerID: r.PlayerID, CardID: c.ID, CardIndex: r.indexOf(c)}
}

// instantKill sets target's hp to 0. A target already dying is left alone so
// no card reports two deaths.
func instantKill(opp *Roster, target *CardInstance) []Event {
	if target == nil || target.dying() {
		return nil
	}
	target.HP = 0
	return []Event{death(opp, target)}
}

// explodeArmour deals one damage to every living opposing card at once.
// Each card's fate is decided from its own hp before the blast, and cards
// this blast killed are swept immediately. Cards that were already dying are
// untouched and left for the caller to sweep.
func explodeArmour(opp *Roster) []Event {
	var events []Event
	killed := make(map[*CardInstance]bool)
	for _, c := range opp.Cards {
		if c.dying() {
			continue
		}
		if c.HP > 1 {
			c.HP--
			events = append(events, statsChange(opp, c, -1, 0))
			continue
		}
		events = append(events, death(opp, c))
		killed[c] = true
	}
	if len(killed) == 0 {
		return events
	}
	kept := opp.Cards[:0]
	for _, c := range opp.Cards {
		if killed[c] {
			c.HP = 0
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(opp.Cards); i++ {
		opp.Cards[i] = nil
	}
	opp.Cards = kept
	return events
}

// glitch draws one coin: heads strips attack, tails strips hp. Amounts are
// clamped so neither stat goes below 0.
//
// Precondition: target is not dying.
func glitch(opp *Roster, target *CardInstance, src Source) []Event {
	if src.Intn(2) == 0 {
		loss := min(glitchAmount, target.Atk)
		target.Atk -= loss
		return []Event{statsChange(opp, target, 0, -loss)}
	}
	loss := min(glitchAmount, target.HP)
	target.HP -= loss
	events := []Event{statsChange(opp, target, -loss, 0)}
	if target.dying() {
		events = append(events, death(opp, target))
	}
	return events
}
