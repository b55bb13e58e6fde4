package combat

import (
	"encoding/json"
	"fmt"

	"github.com/cory-johannsen/autobattler/internal/game/card"
)

// EventKind identifies an Event variant.
type EventKind string

const (
	KindAttack         EventKind = "attack"
	KindDeath          EventKind = "death"
	KindStatsChange    EventKind = "stats_change"
	KindAbilityApplied EventKind = "ability_applied"
	KindGoldChange     EventKind = "gold_change"
	KindPlayerDamage   EventKind = "player_damage"
)

// Event is one immutable entry of the battle log. Events are consumed in
// emission order; a Death always follows the Attack or ability that caused it.
type Event interface {
	Kind() EventKind
	String() string
}

// AttackEvent records one swing, including counter-attacks.
//
// Card indices are positions on the owning roster at emission time.
type AttackEvent struct {
	PlayerID         int64  `json:"player_id"`
	CardID           uint32 `json:"card_id"`
	CardIndex        int    `json:"card_index"`
	DefenderPlayerID int64  `json:"defender_player_id"`
	DefenderCardID   uint32 `json:"defender_card_id"`
	DefenderIndex    int    `json:"defender_index"`
	// DefenderHPAfter is clamped at 0.
	DefenderHPAfter int `json:"defender_hp_after"`
	// HPChange is DefenderHPAfter minus the defender's hp before the swing.
	HPChange int `json:"hp_change"`
}

// DeathEvent records a card leaving the board.
type DeathEvent struct {
	PlayerID  int64  `json:"player_id"`
	CardID    uint32 `json:"card_id"`
	CardIndex int    `json:"card_index"`
}

// StatsChangeEvent records a stat delta applied by an ability.
type StatsChangeEvent struct {
	PlayerID  int64  `json:"player_id"`
	CardID    uint32 `json:"card_id"`
	CardIndex int    `json:"card_index"`
	HP        int    `json:"hp"`
	Atk       int    `json:"atk"`
}

// AbilityAppliedEvent opens the events produced by one triggered ability.
type AbilityAppliedEvent struct {
	PlayerID  int64        `json:"player_id"`
	CardID    uint32       `json:"card_id"`
	CardIndex int          `json:"card_index"`
	Ability   card.Ability `json:"ability"`
	Trigger   card.Trigger `json:"trigger"`
}

// GoldChangeEvent records gold gained or lost by a player.
type GoldChangeEvent struct {
	PlayerID int64 `json:"player_id"`
	Change   int   `json:"change"`
}

// PlayerDamageEvent closes a decided battle: the winner's board hits the loser.
type PlayerDamageEvent struct {
	// PlayerID is the winner.
	PlayerID int64 `json:"player_id"`
	LoserID  int64 `json:"loser_id"`
	// Change is the signed hp delta applied to the loser; never positive.
	Change int `json:"change"`
}

func (AttackEvent) Kind() EventKind         { return KindAttack }
func (DeathEvent) Kind() EventKind          { return KindDeath }
func (StatsChangeEvent) Kind() EventKind    { return KindStatsChange }
func (AbilityAppliedEvent) Kind() EventKind { return KindAbilityApplied }
func (GoldChangeEvent) Kind() EventKind     { return KindGoldChange }
func (PlayerDamageEvent) Kind() EventKind   { return KindPlayerDamage }

func (e AttackEvent) String() string {
	return fmt.Sprintf("attack: p%d card %d [%d] -> p%d card %d [%d], hp %+d = %d",
		e.PlayerID, e.CardID, e.CardIndex, e.DefenderPlayerID, e.DefenderCardID, e.DefenderIndex,
		e.HPChange, e.DefenderHPAfter)
}

func (e DeathEvent) String() string {
	return fmt.Sprintf("death: p%d card %d [%d]", e.PlayerID, e.CardID, e.CardIndex)
}

func (e StatsChangeEvent) String() string {
	return fmt.Sprintf("stats: p%d card %d [%d] hp %+d atk %+d", e.PlayerID, e.CardID, e.CardIndex, e.HP, e.Atk)
}

func (e AbilityAppliedEvent) String() string {
	return fmt.Sprintf("ability: p%d card %d [%d] %s on %s", e.PlayerID, e.CardID, e.CardIndex, e.Ability, e.Trigger)
}

func (e GoldChangeEvent) String() string {
	return fmt.Sprintf("gold: p%d %+d", e.PlayerID, e.Change)
}

func (e PlayerDamageEvent) String() string {
	return fmt.Sprintf("player damage: p%d hits p%d for %+d", e.PlayerID, e.LoserID, e.Change)
}

type eventEnvelope struct {
	Kind EventKind       `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// EncodeEvents serialises events as a JSON array of {kind, data} objects.
//
// Postcondition: DecodeEvents(EncodeEvents(events)) reproduces events.
func EncodeEvents(events []Event) ([]byte, error) {
	out := make([]eventEnvelope, 0, len(events))
	for i, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("encoding event %d (%s): %w", i, e.Kind(), err)
		}
		out = append(out, eventEnvelope{Kind: e.Kind(), Data: data})
	}
	return json.Marshal(out)
}

// DecodeEvents parses the output of EncodeEvents.
//
// Postcondition: Returns events in their original order, or an error naming
// the first malformed entry.
func DecodeEvents(data []byte) ([]Event, error) {
	var raw []eventEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding event log: %w", err)
	}
	events := make([]Event, 0, len(raw))
	for i, env := range raw {
		e, err := decodeEvent(env)
		if err != nil {
			return nil, fmt.Errorf("decoding event %d: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func decodeEvent(env eventEnvelope) (Event, error) {
	switch env.Kind {
	case KindAttack:
		return decodeAs[AttackEvent](env.Data)
	case KindDeath:
		return decodeAs[DeathEvent](env.Data)
	case KindStatsChange:
		return decodeAs[StatsChangeEvent](env.Data)
	case KindAbilityApplied:
		return decodeAs[AbilityAppliedEvent](env.Data)
	case KindGoldChange:
		return decodeAs[GoldChangeEvent](env.Data)
	case KindPlayerDamage:
		return decodeAs[PlayerDamageEvent](env.Data)
	default:
		return nil, fmt.Errorf("unknown event kind %q", env.Kind)
	}
}

func decodeAs[E Event](data json.RawMessage) (Event, error) {
	var e E
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return e, nil
}
