package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultArchiver persists final standings of finished rooms so they
// survive the in-memory room teardown.
type ResultArchiver struct {
	pool *pgxpool.Pool
}

func NewResultArchiver(pool *pgxpool.Pool) *ResultArchiver {
	return &ResultArchiver{pool: pool}
}

func (a *ResultArchiver) ArchiveResult(ctx context.Context, result domain.RoomResult) error {
	standings, err := json.Marshal(result.Standings)
	if err != nil {
		return fmt.Errorf("marshal standings: %w", err)
	}
	_, err = a.pool.Exec(ctx,
		`INSERT INTO room_results (room_id, code, quiz_id, standings, finished_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (room_id) DO NOTHING`,
		result.RoomID, result.Code, result.QuizID, standings, result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("archive result: %w", err)
	}
	return nil
}
