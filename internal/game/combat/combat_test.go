package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/autobattler/internal/game/card"
	"github.com/cory-johannsen/autobattler/internal/game/combat"
)

// scriptSrc replays a fixed sequence of draws, each reduced modulo n.
// Once the script is exhausted every draw returns 0.
type scriptSrc struct {
	vals []int
	pos  int
}

func (s *scriptSrc) Intn(n int) int {
	if s.pos >= len(s.vals) {
		return 0
	}
	v := s.vals[s.pos] % n
	s.pos++
	return v
}

func script(vals ...int) *scriptSrc { return &scriptSrc{vals: vals} }

func def(ability card.Ability, trigger card.Trigger, rank int) *card.Definition {
	return &card.Definition{Name: ability.String(), Ability: ability, Trigger: trigger, Rank: rank, HP: 1}
}

var plain = def(card.AbilityNone, card.TriggerNone, 1)

func inst(id uint32, d *card.Definition, atk, hp int) *combat.CardInstance {
	return &combat.CardInstance{ID: id, Def: d, Atk: atk, HP: hp, Played: int(id)}
}

func roster(player int64, cards ...*combat.CardInstance) *combat.Roster {
	return &combat.Roster{PlayerID: player, HP: 30, Cards: cards}
}

func kinds(events []combat.Event) []combat.EventKind {
	out := make([]combat.EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind()
	}
	return out
}

func TestResolveAttack_SimpleKill(t *testing.T) {
	own := roster(1, inst(1, plain, 8, 5))
	opp := roster(2, inst(2, plain, 3, 6))

	events, replay := combat.ResolveAttack(0, own, opp, script(0))

	require.Equal(t, []combat.EventKind{combat.KindAttack, combat.KindDeath}, kinds(events))
	att := events[0].(combat.AttackEvent)
	assert.Equal(t, 0, att.DefenderHPAfter)
	assert.Equal(t, -6, att.HPChange)
	assert.Equal(t, uint32(2), events[1].(combat.DeathEvent).CardID)
	assert.False(t, replay)
	assert.Empty(t, opp.Cards)
	assert.Equal(t, 5, own.Cards[0].HP, "a killed defender never counter-attacks")
}

func TestResolveAttack_MutualSurvive(t *testing.T) {
	own := roster(1, inst(1, plain, 2, 10))
	opp := roster(2, inst(2, plain, 2, 10))

	events, _ := combat.ResolveAttack(0, own, opp, script(0))

	require.Equal(t, []combat.EventKind{combat.KindAttack, combat.KindAttack}, kinds(events))
	first := events[0].(combat.AttackEvent)
	second := events[1].(combat.AttackEvent)
	assert.Equal(t, int64(1), first.PlayerID)
	assert.Equal(t, 8, first.DefenderHPAfter)
	assert.Equal(t, int64(2), second.PlayerID)
	assert.Equal(t, uint32(1), second.DefenderCardID)
	assert.Equal(t, 8, second.DefenderHPAfter)
	assert.Equal(t, 8, own.Cards[0].HP)
	assert.Equal(t, 8, opp.Cards[0].HP)
}

func TestResolveAttack_CounterKillsAttacker(t *testing.T) {
	own := roster(1, inst(1, plain, 1, 2), inst(3, plain, 1, 1))
	opp := roster(2, inst(2, plain, 5, 10))

	events, replay := combat.ResolveAttack(0, own, opp, script(0))

	require.Equal(t, []combat.EventKind{combat.KindAttack, combat.KindAttack, combat.KindDeath}, kinds(events))
	assert.Equal(t, combat.DeathEvent{PlayerID: 1, CardID: 1, CardIndex: 0}, events[2])
	assert.False(t, replay)
	require.Len(t, own.Cards, 1)
	assert.Equal(t, uint32(3), own.Cards[0].ID)
}

func TestResolveAttack_DefenderChosenBySource(t *testing.T) {
	own := roster(1, inst(1, plain, 9, 9))
	opp := roster(2, inst(2, plain, 1, 1), inst(3, plain, 1, 1), inst(4, plain, 1, 1))

	events, _ := combat.ResolveAttack(0, own, opp, script(2))

	att := events[0].(combat.AttackEvent)
	assert.Equal(t, uint32(4), att.DefenderCardID)
	assert.Equal(t, 2, att.DefenderIndex)
	assert.Len(t, opp.Cards, 2)
}

func TestResolveAttack_PanicsOnInvariantViolation(t *testing.T) {
	assert.Panics(t, func() {
		combat.ResolveAttack(3, roster(1, inst(1, plain, 1, 1)), roster(2, inst(2, plain, 1, 1)), script())
	})
	assert.Panics(t, func() {
		combat.ResolveAttack(0, roster(1, inst(1, plain, 1, 1)), roster(2), script())
	})
}

func TestResolveAttack_KillTriggersFireOnBothSides(t *testing.T) {
	pillager := def(card.AbilityPillage, card.TriggerKill, 3)
	spores := def(card.AbilityToxicSpores, card.TriggerDeath, 3)
	own := roster(1, inst(1, pillager, 4, 4))
	opp := roster(2, inst(2, spores, 0, 2), inst(3, plain, 1, 5))

	events, replay := combat.ResolveAttack(0, own, opp, script(0))

	require.Equal(t, []combat.EventKind{
		combat.KindAttack, combat.KindDeath,
		combat.KindAbilityApplied, combat.KindGoldChange,
		combat.KindAbilityApplied, combat.KindDeath,
	}, kinds(events))
	assert.Equal(t, combat.AbilityAppliedEvent{PlayerID: 2, CardID: 2, CardIndex: 0, Ability: card.AbilityToxicSpores, Trigger: card.TriggerDeath}, events[4])
	assert.Equal(t, combat.DeathEvent{PlayerID: 1, CardID: 1, CardIndex: 0}, events[5])
	assert.Equal(t, 1, own.Gold)
	assert.Empty(t, own.Cards)
	require.Len(t, opp.Cards, 1)
	assert.Equal(t, uint32(3), opp.Cards[0].ID)
	assert.False(t, replay)
}

func TestResolveAttack_SurvivedAndHitTriggers(t *testing.T) {
	sadist := def(card.AbilitySadism, card.TriggerSurvived, 2)
	trap := def(card.AbilityTrap, card.TriggerHit, 2)
	own := roster(1, inst(1, sadist, 1, 10))
	opp := roster(2, inst(2, trap, 3, 10))

	events, _ := combat.ResolveAttack(0, own, opp, script(0))

	require.Equal(t, []combat.EventKind{
		combat.KindAttack, combat.KindAttack,
		combat.KindAbilityApplied,
		combat.KindAbilityApplied, combat.KindStatsChange,
	}, kinds(events))
	assert.Equal(t, card.TriggerSurvived, events[2].(combat.AbilityAppliedEvent).Trigger)
	assert.Equal(t, card.TriggerHit, events[3].(combat.AbilityAppliedEvent).Trigger)
	assert.Equal(t, combat.StatsChangeEvent{PlayerID: 1, CardID: 1, CardIndex: 0, Atk: -1}, events[4])
	assert.Equal(t, 0, own.Cards[0].Atk)
}

func TestResolveAttack_DefenderSurvivedTriggerDoesNotFire(t *testing.T) {
	dex := def(card.AbilityDexterity, card.TriggerSurvived, 4)
	own := roster(1, inst(1, plain, 1, 10))
	opp := roster(2, inst(2, dex, 1, 10))

	events, replay := combat.ResolveAttack(0, own, opp, script(0))

	assert.Equal(t, []combat.EventKind{combat.KindAttack, combat.KindAttack}, kinds(events))
	assert.False(t, replay)
}

func TestResolveAttack_DexterityReplay(t *testing.T) {
	dex := def(card.AbilityDexterity, card.TriggerSurvived, 4)

	own := roster(1, inst(1, dex, 1, 10))
	opp := roster(2, inst(2, plain, 1, 10))
	events, replay := combat.ResolveAttack(0, own, opp, script(0))
	assert.True(t, replay)
	assert.Equal(t, combat.KindAbilityApplied, events[len(events)-1].Kind())

	// no replay once the opposing board is empty
	own = roster(1, inst(1, dex, 10, 10))
	opp = roster(2, inst(2, plain, 1, 10))
	_, replay = combat.ResolveAttack(0, own, opp, script(0))
	assert.False(t, replay)

	// no replay when the attacker dies to the counter
	own = roster(1, inst(1, dex, 1, 1))
	opp = roster(2, inst(2, plain, 5, 10))
	_, replay = combat.ResolveAttack(0, own, opp, script(0))
	assert.False(t, replay)
}

func TestResolveAttack_DeathTriggerOnAttackerKilledByCounter(t *testing.T) {
	armour := def(card.AbilityExplodingArmour, card.TriggerDeath, 2)
	own := roster(1, inst(1, armour, 1, 1))
	opp := roster(2, inst(2, plain, 2, 5), inst(3, plain, 1, 1))

	events, _ := combat.ResolveAttack(0, own, opp, script(0))

	require.Equal(t, []combat.EventKind{
		combat.KindAttack, combat.KindAttack, combat.KindDeath,
		combat.KindAbilityApplied, combat.KindStatsChange, combat.KindDeath,
	}, kinds(events))
	assert.Empty(t, own.Cards)
	require.Len(t, opp.Cards, 1)
	assert.Equal(t, 3, opp.Cards[0].HP)
}

func TestNewRoster_AndSurvivors(t *testing.T) {
	cat := card.DefaultCatalogue()
	cards := []card.Card{card.New(cat, card.Mush1, 1), card.New(cat, card.Rob8, 2)}

	r, err := combat.NewRoster(7, 25, cards, cat)
	require.NoError(t, err)
	assert.Equal(t, int64(7), r.PlayerID)
	require.Len(t, r.Cards, 2)
	assert.Same(t, cat.Get(card.Rob8), r.Cards[1].Def)
	assert.Equal(t, cat.Get(card.Mush1).Rank+cat.Get(card.Rob8).Rank, r.RankSum())
	assert.Equal(t, cards, r.Survivors())

	_, err = combat.NewRoster(7, 25, []card.Card{{ID: 9, Base: card.BaseCard(200), HP: 1}}, cat)
	assert.ErrorIs(t, err, combat.ErrUnknownCard)
}

func TestResolveAttack_NoStatsChangeAfterDeath(t *testing.T) {
	glitch := def(card.AbilityGlitch, card.TriggerHit, 2)
	own := roster(1, inst(1, glitch, 9, 5))
	opp := roster(2, inst(2, plain, 3, 4))

	events, _ := combat.ResolveAttack(0, own, opp, script(0, 1))

	require.Equal(t, []combat.EventKind{combat.KindAttack, combat.KindDeath, combat.KindAbilityApplied}, kinds(events))
	assert.Empty(t, opp.Cards)
}
