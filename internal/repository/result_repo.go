package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sainava/Wiz-Scholar/internal/domain"
)

// ResultRepository archives completed sortings. Archiving is best-effort:
// callers log failures but never surface them to the player.
type ResultRepository interface {
	Archive(ctx context.Context, result domain.SortingResult) error
	RecentBySession(ctx context.Context, sessionID string, limit int) ([]domain.SortingResult, error)
}

type PgResultRepository struct {
	pool *pgxpool.Pool
}

func NewPgResultRepository(pool *pgxpool.Pool) *PgResultRepository {
	return &PgResultRepository{pool: pool}
}

func (r *PgResultRepository) Archive(ctx context.Context, result domain.SortingResult) error {
	const query = `
		INSERT INTO sorting_results (id, session_id, house, confidence, traits, probabilities, questions_answered, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	traits, err := json.Marshal(result.Traits)
	if err != nil {
		return fmt.Errorf("encode traits: %w", err)
	}
	probs, err := json.Marshal(result.Probabilities)
	if err != nil {
		return fmt.Errorf("encode probabilities: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		result.ID,
		result.SessionID,
		result.House,
		result.Confidence,
		traits,
		probs,
		result.QuestionsAnswered,
		result.CreatedAt,
	)
	return err
}

func (r *PgResultRepository) RecentBySession(ctx context.Context, sessionID string, limit int) ([]domain.SortingResult, error) {
	const query = `
		SELECT id, session_id, house, confidence, traits, probabilities, questions_answered, created_at
		FROM sorting_results
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.SortingResult
	for rows.Next() {
		var (
			res    domain.SortingResult
			traits []byte
			probs  []byte
		)
		if err := rows.Scan(
			&res.ID,
			&res.SessionID,
			&res.House,
			&res.Confidence,
			&traits,
			&probs,
			&res.QuestionsAnswered,
			&res.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(traits, &res.Traits); err != nil {
			return nil, fmt.Errorf("decode traits: %w", err)
		}
		if err := json.Unmarshal(probs, &res.Probabilities); err != nil {
			return nil, fmt.Errorf("decode probabilities: %w", err)
		}
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
