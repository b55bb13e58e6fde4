package combat

import (
	"fmt"

	"github.com/cory-johannsen/autobattler/internal/game/card"
)

// ResolveAttack resolves one swing by own.Cards[attackerIndex] against a
// defender drawn uniformly from opp, including the counter-attack and every
// ability the exchange triggers.
//
// Precondition: attackerIndex must be a valid index into own.Cards; opp.Cards
// must be non-empty.
// Postcondition: Every card reduced to 0 hp has been removed from its roster.
// replay is true iff the attacker survived, carries the Survived-triggered
// Dexterity ability, and opp still has cards.
func ResolveAttack(attackerIndex int, own, opp *Roster, src Source) (events []Event, replay bool) {
	if attackerIndex < 0 || attackerIndex >= len(own.Cards) {
		panic(fmt.Sprintf("combat: ResolveAttack attacker index %d out of range [0,%d)", attackerIndex, len(own.Cards)))
	}
	if len(opp.Cards) == 0 {
		panic("combat: ResolveAttack against an empty roster")
	}

	att := own.Cards[attackerIndex]
	def := opp.Cards[src.Intn(len(opp.Cards))]

	defer func() {
		own.removeDead()
		opp.removeDead()
	}()

	events = append(events, swing(own, att, opp, def))
	if def.dying() {
		events = append(events, death(opp, def))
		events = append(events, fire(att, def, own, opp, src, card.TriggerKill, card.TriggerHit)...)
		events = append(events, fire(def, att, opp, own, src, card.TriggerDeath, card.TriggerHit)...)
		return events, false
	}

	events = append(events, swing(opp, def, own, att))
	if att.dying() {
		events = append(events, death(own, att))
		events = append(events, fire(def, att, opp, own, src, card.TriggerKill, card.TriggerHit)...)
		events = append(events, fire(att, def, own, opp, src, card.TriggerDeath, card.TriggerHit)...)
		return events, false
	}

	events = append(events, fire(att, def, own, opp, src, card.TriggerSurvived, card.TriggerHit)...)
	events = append(events, fire(def, att, opp, own, src, card.TriggerHit)...)

	replay = !att.dying() &&
		att.Def.Trigger == card.TriggerSurvived &&
		att.Def.Ability == card.AbilityDexterity &&
		hasLiving(opp)
	return events, replay
}

// swing applies hitter's attack to victim and persists the clamped hp.
func swing(hitterSide *Roster, hitter *CardInstance, victimSide *Roster, victim *CardInstance) AttackEvent {
	before := victim.HP
	after := max(before-hitter.Atk, 0)
	victim.HP = after
	return AttackEvent{
		PlayerID:         hitterSide.PlayerID,
		CardID:           hitter.ID,
		CardIndex:        hitterSide.indexOf(hitter),
		DefenderPlayerID: victimSide.PlayerID,
		DefenderCardID:   victim.ID,
		DefenderIndex:    victimSide.indexOf(victim),
		DefenderHPAfter:  after,
		HPChange:         after - before,
	}
}

// fire resolves self's ability when its trigger is one of accepted. A card
// already swept off its board by an earlier effect in the same step does not
// fire.
func fire(self, target *CardInstance, own, opp *Roster, src Source, accepted ...card.Trigger) []Event {
	if own.indexOf(self) < 0 {
		return nil
	}
	for _, t := range accepted {
		if self.Def.Trigger == t {
			return resolveAbility(self, target, own, opp, t, src)
		}
	}
	return nil
}

func hasLiving(r *Roster) bool {
	for _, c := range r.Cards {
		if !c.dying() {
			return true
		}
	}
	return false
}
