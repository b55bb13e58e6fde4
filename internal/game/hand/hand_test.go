package hand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/autobattler/internal/game/card"
	"github.com/cory-johannsen/autobattler/internal/game/hand"
)

type counter struct{ next uint32 }

func (c *counter) NextID() uint32 {
	id := c.next
	c.next++
	return id
}

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int { return f.val % n }

func TestDefault_Names(t *testing.T) {
	assert.Equal(t, []string{"mush", "spiders"}, hand.Default().Names())
}

func TestHand_TurnBoards(t *testing.T) {
	mush, ok := hand.Default().Get("mush")
	require.True(t, ok)

	assert.Equal(t, []hand.Slot{{Base: card.Mush2, Atk: 1, HP: 1}}, mush.Board(1))
	assert.Len(t, mush.Board(4), 3)
	assert.Equal(t, hand.Slot{Base: card.Mush5, Atk: 0, HP: 2}, mush.Board(8)[2])

	// past the last listed turn the default board applies
	assert.Equal(t, mush.Board(10), mush.Board(42))
	assert.Equal(t, card.Mush8, mush.Board(42)[1].Base)

	spiders, ok := hand.Default().Get("spiders")
	require.True(t, ok)
	assert.Len(t, spiders.Board(10), 6)
	assert.Len(t, spiders.Board(11), 7)
}

func TestHand_CardsAllocateSequentialIDs(t *testing.T) {
	mush, _ := hand.Default().Get("mush")
	ids := &counter{next: 10}

	cards := mush.Cards(5, ids)

	require.Len(t, cards, 4)
	for i, c := range cards {
		assert.Equal(t, uint32(10+i), c.ID)
		assert.Zero(t, c.Played)
	}
	assert.Equal(t, card.Card{ID: 12, Base: card.Mush3, Atk: 2, HP: 5}, cards[2])
	assert.Equal(t, uint32(14), ids.next)
}

func TestSet_Random(t *testing.T) {
	s := hand.Default()
	assert.Equal(t, "mush", s.Random(fixedSrc{0}).Name)
	assert.Equal(t, "spiders", s.Random(fixedSrc{1}).Name)
}

func TestHand_EveryBoardIsValid(t *testing.T) {
	cat := card.DefaultCatalogue()
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.SampledFrom(hand.Default().Names()).Draw(rt, "hand")
		turn := rapid.IntRange(1, 30).Draw(rt, "turn")
		h, _ := hand.Default().Get(name)

		cards := h.Cards(turn, &counter{})
		require.NotEmpty(rt, cards)
		for _, c := range cards {
			assert.NoError(rt, c.Validate(cat))
		}
	})
}

func TestLoad_Rejections(t *testing.T) {
	cat := card.DefaultCatalogue()
	cases := map[string]string{
		"no hands": `hands: []`,
		"unknown base": `
hands:
  - name: x
    default:
      - { base: dragon_1, atk: 1, hp: 1 }`,
		"empty default": `
hands:
  - name: x
    turns:
      1:
        - { base: mush_1, atk: 1, hp: 1 }`,
		"zero hp": `
hands:
  - name: x
    default:
      - { base: mush_1, atk: 1, hp: 0 }`,
		"bad turn": `
hands:
  - name: x
    turns:
      0:
        - { base: mush_1, atk: 1, hp: 1 }
    default:
      - { base: mush_1, atk: 1, hp: 1 }`,
		"duplicate": `
hands:
  - name: x
    default:
      - { base: mush_1, atk: 1, hp: 1 }
  - name: x
    default:
      - { base: mush_1, atk: 1, hp: 1 }`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := hand.Load([]byte(data), cat)
			assert.Error(t, err)
		})
	}
}
