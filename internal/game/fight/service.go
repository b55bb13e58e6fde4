// Package fight runs one battle between two player profiles and applies its
// result: player hp, gold earned during the battle, and a persistent report.
package fight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/autobattler/internal/game/card"
	"github.com/cory-johannsen/autobattler/internal/game/combat"
	"github.com/cory-johannsen/autobattler/internal/game/dice"
	"github.com/cory-johannsen/autobattler/internal/game/player"
)

var (
	// ErrEmptyRoster is returned when a profile has no cards on its board.
	ErrEmptyRoster = errors.New("board has no cards")
	// ErrSamePlayer is returned when both sides of a fight share a player id.
	ErrSamePlayer = errors.New("both sides have the same player id")
)

// ReportStore persists battle reports.
type ReportStore interface {
	Create(ctx context.Context, r *Report) error
}

// ProfileStore persists player profiles after a fight.
type ProfileStore interface {
	Save(ctx context.Context, p *player.Profile) error
}

// Service resolves fights.
//
// Service is safe for concurrent use only if its dice.Source is.
type Service struct {
	cat        *card.Catalogue
	src        dice.Source
	logger     *zap.Logger
	reports    ReportStore
	profiles   ProfileStore
	maxAttacks int
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithReportStore persists every report through rs.
func WithReportStore(rs ReportStore) Option {
	return func(s *Service) { s.reports = rs }
}

// WithProfileStore saves both profiles through ps after every fight.
func WithProfileStore(ps ProfileStore) Option {
	return func(s *Service) { s.profiles = ps }
}

// WithMaxAttacks overrides the engine's attack cap; n <= 0 keeps the default.
func WithMaxAttacks(n int) Option {
	return func(s *Service) { s.maxAttacks = n }
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service.
//
// Precondition: cat, src and logger must be non-nil.
// Postcondition: Returns a non-nil Service; stores are optional.
func NewService(cat *card.Catalogue, src dice.Source, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{cat: cat, src: src, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run fights me against foe and applies the result to both profiles.
//
// The boards are restored to their pre-fight state except for Gigantism
// attack gains, which stay on the card. hp and ExtraCoins are updated from
// the post-battle rosters.
//
// Precondition: me and foe must be non-nil.
// Postcondition: Returns the battle report, or an error and unchanged profiles
// when validation fails. Store errors are returned after the profiles were
// updated in memory.
func (s *Service) Run(ctx context.Context, me, foe *player.Profile) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if me.ID == foe.ID {
		return nil, fmt.Errorf("fight %q vs %q: %w (%d)", me.Name, foe.Name, ErrSamePlayer, me.ID)
	}
	left, err := s.roster(me)
	if err != nil {
		return nil, err
	}
	right, err := s.roster(foe)
	if err != nil {
		return nil, err
	}

	started := s.now()
	s.logger.Info("fight started",
		zap.Int64("left", me.ID),
		zap.Int64("right", foe.ID),
		zap.Int("left_cards", len(left.Cards)),
		zap.Int("right_cards", len(right.Cards)),
	)

	res := combat.Simulate(left, right, s.src, combat.WithMaxAttacks(s.maxAttacks))
	for i, e := range res.Events {
		s.logger.Debug("combat event", zap.Int("seq", i), zap.String("kind", string(e.Kind())), zap.Stringer("event", e))
	}

	apply(me, res.Left, res.Events)
	apply(foe, res.Right, res.Events)

	report := &Report{
		ID:        uuid.New(),
		LeftID:    me.ID,
		RightID:   foe.ID,
		FirstID:   res.First,
		Outcome:   res.Outcome,
		Attacks:   res.Attacks,
		Events:    res.Events,
		Left:      sideOf(me, left, res.Left),
		Right:     sideOf(foe, right, res.Right),
		StartedAt: started,
		EndedAt:   s.now(),
	}
	me.UpdatedAt, foe.UpdatedAt = report.EndedAt, report.EndedAt

	s.logger.Info("fight finished",
		zap.String("report", report.ID.String()),
		zap.Int64("winner", res.WinnerID),
		zap.Bool("draw", res.Draw),
		zap.Int("attacks", res.Attacks),
		zap.Int("events", len(res.Events)),
		zap.Int("left_hp", me.HP),
		zap.Int("right_hp", foe.HP),
	)

	if err := s.persist(ctx, report, me, foe); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Service) roster(p *player.Profile) (combat.Roster, error) {
	if err := p.Validate(s.cat); err != nil {
		return combat.Roster{}, err
	}
	if len(p.Board) == 0 {
		return combat.Roster{}, fmt.Errorf("player %q: %w", p.Name, ErrEmptyRoster)
	}
	r, err := combat.NewRoster(p.ID, p.HP, p.Board, s.cat)
	if err != nil {
		return combat.Roster{}, fmt.Errorf("player %q: %w", p.Name, err)
	}
	return r, nil
}

func (s *Service) persist(ctx context.Context, report *Report, profiles ...*player.Profile) error {
	if s.reports != nil {
		if err := s.reports.Create(ctx, report); err != nil {
			return fmt.Errorf("saving report %s: %w", report.ID, err)
		}
	}
	if s.profiles != nil {
		for _, p := range profiles {
			if err := s.profiles.Save(ctx, p); err != nil {
				return fmt.Errorf("saving player %d: %w", p.ID, err)
			}
		}
	}
	return nil
}

func apply(p *player.Profile, r combat.Roster, events []combat.Event) {
	p.HP = r.HP
	p.ExtraCoins += r.Gold
	keepGigantism(p, events)
}

// keepGigantism copies the attack delta of every Gigantism resolution owned by
// p onto the matching board card.
func keepGigantism(p *player.Profile, events []combat.Event) {
	for i, e := range events {
		applied, ok := e.(combat.AbilityAppliedEvent)
		if !ok || applied.PlayerID != p.ID || applied.Ability != card.AbilityGigantism || i+1 >= len(events) {
			continue
		}
		change, ok := events[i+1].(combat.StatsChangeEvent)
		if !ok || change.PlayerID != p.ID || change.CardID != applied.CardID {
			continue
		}
		for j := range p.Board {
			if p.Board[j].ID == change.CardID {
				p.Board[j].Atk += change.Atk
			}
		}
	}
}

// GameOver reports whether p has lost the game.
func GameOver(p *player.Profile) bool {
	return p.GameOver()
}
