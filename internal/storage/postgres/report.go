package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/autobattler/internal/game/combat"
	"github.com/cory-johannsen/autobattler/internal/game/fight"
)

// ErrReportNotFound is returned when a battle report lookup yields no results.
var ErrReportNotFound = errors.New("battle report not found")

// ErrReportExists is returned when creating a report whose id is already stored.
var ErrReportExists = errors.New("battle report already exists")

// ReportRepository provides battle report persistence operations.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a ReportRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, left_id, right_id, first_id, winner_id, loser_id, draw, attacks,
	events, left_side, right_side, started_at, ended_at`

// Create inserts rep. The event log is stored as JSONB in its tagged envelope
// encoding.
//
// Precondition: rep must be non-nil with a non-nil ID.
// Postcondition: Returns nil on success or ErrReportExists on a duplicate id.
func (r *ReportRepository) Create(ctx context.Context, rep *fight.Report) error {
	events, err := combat.EncodeEvents(rep.Events)
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}
	var winner, loser *int64
	if !rep.Draw {
		winner, loser = &rep.WinnerID, &rep.LoserID
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO battle_reports (`+reportColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rep.ID, rep.LeftID, rep.RightID, rep.FirstID, winner, loser, rep.Draw, rep.Attacks,
		events, rep.Left, rep.Right, rep.StartedAt, rep.EndedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrReportExists
		}
		return fmt.Errorf("inserting battle report: %w", err)
	}
	return nil
}

// GetByID retrieves a report by its id.
//
// Postcondition: Returns the Report with its decoded event log, or ErrReportNotFound.
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*fight.Report, error) {
	rep, err := scanReport(r.db.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM battle_reports WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("querying battle report %s: %w", id, err)
	}
	return rep, nil
}

// ListByPlayer returns up to limit reports the player took part in, newest first.
//
// Precondition: limit must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *ReportRepository) ListByPlayer(ctx context.Context, playerID int64, limit int) ([]*fight.Report, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+reportColumns+`
		FROM battle_reports
		WHERE left_id = $1 OR right_id = $1
		ORDER BY started_at DESC, id
		LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing battle reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*fight.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning battle report row: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func scanReport(row pgx.Row) (*fight.Report, error) {
	var (
		rep           fight.Report
		winner, loser *int64
		events        []byte
	)
	if err := row.Scan(
		&rep.ID, &rep.LeftID, &rep.RightID, &rep.FirstID, &winner, &loser, &rep.Draw, &rep.Attacks,
		&events, &rep.Left, &rep.Right, &rep.StartedAt, &rep.EndedAt,
	); err != nil {
		return nil, err
	}
	if winner != nil {
		rep.WinnerID = *winner
	}
	if loser != nil {
		rep.LoserID = *loser
	}
	decoded, err := combat.DecodeEvents(events)
	if err != nil {
		return nil, fmt.Errorf("decoding events of report %s: %w", rep.ID, err)
	}
	rep.Events = decoded
	return &rep, nil
}
