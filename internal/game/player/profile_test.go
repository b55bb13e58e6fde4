package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/autobattler/internal/game/card"
	"github.com/cory-johannsen/autobattler/internal/game/player"
)

func TestNew(t *testing.T) {
	p, err := player.New("Ada", player.DefaultStartingHP)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, 30, p.HP)
	assert.Equal(t, 1, p.Turn)
	assert.Empty(t, p.Board)
	assert.False(t, p.GameOver())

	_, err = player.New("", 30)
	assert.Error(t, err)
	_, err = player.New("Ada", 0)
	assert.Error(t, err)
}

func TestNextID_IsMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		start := rapid.Uint32Range(0, 1<<20).Draw(rt, "start")
		n := rapid.IntRange(1, 50).Draw(rt, "n")
		p := &player.Profile{NextCardID: start}
		for i := range n {
			assert.Equal(rt, start+uint32(i), p.NextID())
		}
		assert.Equal(rt, start+uint32(n), p.NextCardID)
	})
}

func TestValidate(t *testing.T) {
	cat := card.DefaultCatalogue()
	p, err := player.New("Ada", 30)
	require.NoError(t, err)
	p.Board = []card.Card{card.New(cat, card.Mush1, p.NextID()), card.New(cat, card.Spid3, p.NextID())}
	assert.NoError(t, p.Validate(cat))

	dup := *p
	dup.Board = append([]card.Card{}, p.Board...)
	dup.Board[1].ID = dup.Board[0].ID
	assert.ErrorContains(t, dup.Validate(cat), "more than once")

	stale := *p
	stale.NextCardID = 1
	assert.ErrorContains(t, stale.Validate(cat), "next card id")

	dead := *p
	dead.HP = -1
	assert.Error(t, dead.Validate(cat))
}

func TestGameOver(t *testing.T) {
	p := &player.Profile{HP: 0}
	assert.True(t, p.GameOver())
}
