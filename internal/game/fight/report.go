package fight

import (
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/autobattler/internal/game/card"
	"github.com/cory-johannsen/autobattler/internal/game/combat"
	"github.com/cory-johannsen/autobattler/internal/game/player"
)

// Side summarises one player's part in a battle.
type Side struct {
	PlayerID  int64       `json:"player_id"`
	HPBefore  int         `json:"hp_before"`
	HPAfter   int         `json:"hp_after"`
	Gold      int         `json:"gold"`
	Survivors []card.Card `json:"survivors"`
	// Deaths lists the ids of cards that died, in board order.
	Deaths []uint32 `json:"deaths"`
}

// Report is the persistent record of one battle.
type Report struct {
	ID      uuid.UUID
	LeftID  int64
	RightID int64
	FirstID int64
	combat.Outcome
	Attacks int
	Events  []combat.Event
	Left    Side
	Right   Side

	StartedAt time.Time
	EndedAt   time.Time
}

// Side returns the summary for playerID and whether that player took part.
func (r *Report) Side(playerID int64) (Side, bool) {
	switch playerID {
	case r.LeftID:
		return r.Left, true
	case r.RightID:
		return r.Right, true
	}
	return Side{}, false
}

func sideOf(p *player.Profile, before, after combat.Roster) Side {
	alive := make(map[uint32]bool, len(after.Cards))
	for _, c := range after.Cards {
		alive[c.ID] = true
	}
	var deaths []uint32
	for _, c := range before.Cards {
		if !alive[c.ID] {
			deaths = append(deaths, c.ID)
		}
	}
	return Side{
		PlayerID:  p.ID,
		HPBefore:  before.HP,
		HPAfter:   after.HP,
		Gold:      after.Gold,
		Survivors: after.Survivors(),
		Deaths:    deaths,
	}
}
