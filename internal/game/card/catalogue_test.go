package card_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/autobattler/internal/game/card"
)

func TestDefaultCatalogue_DefinesEveryBaseCard(t *testing.T) {
	cat := card.DefaultCatalogue()
	for _, b := range card.AllBaseCards() {
		def := cat.Get(b)
		require.NotNil(t, def, "base card %s", b)
		assert.Equal(t, b, def.Base)
		assert.NotEmpty(t, def.Name)
		assert.GreaterOrEqual(t, def.Rank, 1)
		assert.LessOrEqual(t, def.Rank, 4)
	}
}

func TestDefaultCatalogue_KnownEntries(t *testing.T) {
	cat := card.DefaultCatalogue()

	amanita := cat.Get(card.Mush5)
	assert.Equal(t, "Amanita", amanita.Name)
	assert.Equal(t, card.AbilityToxicSpores, amanita.Ability)
	assert.Equal(t, card.TriggerDeath, amanita.Trigger)
	assert.Equal(t, 3, amanita.Rank)
	assert.Equal(t, 0, amanita.Atk)
	assert.Equal(t, 2, amanita.HP)

	tujilus := cat.Get(card.Merch8)
	assert.Equal(t, card.AbilityDexterity, tujilus.Ability)
	assert.Equal(t, card.TriggerSurvived, tujilus.Trigger)
	assert.Equal(t, card.FamilyMerchants, tujilus.Family)

	proto := cat.Get(card.Rob5)
	assert.Equal(t, card.AbilityGlitch, proto.Ability)
	assert.Equal(t, card.TriggerHit, proto.Trigger)
}

func TestCatalogue_ByFamily(t *testing.T) {
	cat := card.DefaultCatalogue()
	for _, f := range []card.Family{card.FamilyMushrooms, card.FamilyMerchants, card.FamilySpiders, card.FamilyRobots} {
		defs := cat.ByFamily(f)
		assert.Len(t, defs, 8, "family %s", f)
		for _, d := range defs {
			assert.Equal(t, f, d.Family)
		}
	}
}

func TestCatalogue_GetPanicsOnInvalidBase(t *testing.T) {
	cat := card.DefaultCatalogue()
	assert.Panics(t, func() { cat.Get(card.BaseCard(-1)) })
	_, ok := cat.Lookup(card.BaseCard(999))
	assert.False(t, ok)
}

func TestLoadCatalogue_RejectsUnknownAbility(t *testing.T) {
	_, err := card.LoadCatalogue([]byte(`
cards:
  - key: mush_1
    name: Coprinus
    family: mushrooms
    ability: telekinesis
    trigger: hit
    rank: 1
    atk: 1
    hp: 3
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telekinesis")
}

func TestLoadCatalogue_RejectsMissingEntries(t *testing.T) {
	_, err := card.LoadCatalogue([]byte(`
cards:
  - key: mush_1
    name: Coprinus
    family: mushrooms
    ability: none
    trigger: none
    rank: 1
    atk: 1
    hp: 3
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing from catalogue")
}

func TestLoadCatalogue_RejectsBadRank(t *testing.T) {
	_, err := card.LoadCatalogue([]byte(`
cards:
  - key: mush_1
    name: Coprinus
    family: mushrooms
    ability: none
    trigger: none
    rank: 9
    atk: 1
    hp: 3
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank")
}

func TestLoadCatalogue_RejectsAbilityWithoutTrigger(t *testing.T) {
	_, err := card.LoadCatalogue([]byte(`
cards:
  - key: mush_1
    name: Coprinus
    family: mushrooms
    ability: slimy
    trigger: none
    rank: 1
    atk: 1
    hp: 3
`))
	require.Error(t, err)
}

func TestLoadCatalogue_RejectsDuplicates(t *testing.T) {
	entry := `
  - key: mush_1
    name: Coprinus
    family: mushrooms
    ability: none
    trigger: none
    rank: 1
    atk: 1
    hp: 3`
	_, err := card.LoadCatalogue([]byte("cards:" + strings.Repeat(entry, 2)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")
}

func TestBaseCard_TextRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := rapid.SampledFrom(card.AllBaseCards()).Draw(rt, "base")
		text, err := b.MarshalText()
		require.NoError(rt, err)
		var back card.BaseCard
		require.NoError(rt, back.UnmarshalText(text))
		assert.Equal(rt, b, back)
	})
}

func TestCard_JSONUsesCatalogueKey(t *testing.T) {
	c := card.New(card.DefaultCatalogue(), card.Spid3, 42)
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"base":"spid_3","hp":2,"atk":3,"played":0}`, string(data))
}

func TestCard_Validate(t *testing.T) {
	cat := card.DefaultCatalogue()
	c := card.New(cat, card.Rob6, 1)
	assert.NoError(t, c.Validate(cat))

	c.HP = 0
	assert.Error(t, c.Validate(cat))

	c = card.Card{ID: 2, Base: card.BaseCard(77), HP: 1}
	assert.Error(t, c.Validate(cat))
}

func TestParseKinds_UnknownNames(t *testing.T) {
	_, err := card.ParseFamily("dragons")
	assert.Error(t, err)
	_, err = card.ParseTrigger("sometimes")
	assert.Error(t, err)
	_, err = card.ParseAbility("flight")
	assert.Error(t, err)
	_, err = card.ParseBaseCard("mush_9")
	assert.Error(t, err)
}
