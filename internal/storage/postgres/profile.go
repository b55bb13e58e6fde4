package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/autobattler/internal/game/card"
	"github.com/cory-johannsen/autobattler/internal/game/player"
)

// ErrProfileNotFound is returned when a profile lookup or update matches no row.
var ErrProfileNotFound = errors.New("profile not found")

// ErrProfileNameTaken is returned when creating a profile with a name already in use.
var ErrProfileNameTaken = errors.New("profile name already taken")

// ProfileRepository provides player profile persistence operations.
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a ProfileRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Save inserts p when p.ID is zero and updates the stored row otherwise.
// The board is stored as JSONB.
//
// Precondition: p must be non-nil with a non-empty Name.
// Postcondition: On insert p.ID, CreatedAt and UpdatedAt are set; on update
// UpdatedAt is refreshed. Returns ErrProfileNameTaken on a duplicate name and
// ErrProfileNotFound when updating a missing row.
func (r *ProfileRepository) Save(ctx context.Context, p *player.Profile) error {
	board := p.Board
	if board == nil {
		board = []card.Card{}
	}
	if p.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO profiles (name, hp, gold, extra_coins, turn, board, next_card_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at`,
			p.Name, p.HP, p.Gold, p.ExtraCoins, p.Turn, board, int64(p.NextCardID),
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			if isDuplicateKeyError(err) {
				return ErrProfileNameTaken
			}
			return fmt.Errorf("inserting profile: %w", err)
		}
		return nil
	}

	err := r.db.QueryRow(ctx, `
		UPDATE profiles
		SET name = $2, hp = $3, gold = $4, extra_coins = $5, turn = $6,
		    board = $7, next_card_id = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.Name, p.HP, p.Gold, p.ExtraCoins, p.Turn, board, int64(p.NextCardID),
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProfileNotFound
		}
		if isDuplicateKeyError(err) {
			return ErrProfileNameTaken
		}
		return fmt.Errorf("updating profile %d: %w", p.ID, err)
	}
	return nil
}

// Get retrieves a profile by its primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Profile or ErrProfileNotFound.
func (r *ProfileRepository) Get(ctx context.Context, id int64) (*player.Profile, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByName retrieves a profile by its unique name.
//
// Postcondition: Returns the Profile or ErrProfileNotFound.
func (r *ProfileRepository) GetByName(ctx context.Context, name string) (*player.Profile, error) {
	return r.getOne(ctx, `WHERE name = $1`, name)
}

func (r *ProfileRepository) getOne(ctx context.Context, where string, arg any) (*player.Profile, error) {
	var (
		p      player.Profile
		nextID int64
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, hp, gold, extra_coins, turn, board, next_card_id, created_at, updated_at
		FROM profiles `+where,
		arg,
	).Scan(
		&p.ID, &p.Name, &p.HP, &p.Gold, &p.ExtraCoins, &p.Turn,
		&p.Board, &nextID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	p.NextCardID = uint32(nextID)
	return &p, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// SQLSTATE 23505 is unique_violation
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
