// internal/adapter/storage/result_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trendxl/internal/domain/insight"
)

// ResultStore caches analysis results per owner. The engine itself never
// touches this; callers decide whether a cached result is fresh enough.
type ResultStore struct {
	db *pgxpool.Pool
}

// NewResultStore creates a new result store
func NewResultStore(db *pgxpool.Pool) *ResultStore {
	return &ResultStore{
		db: db,
	}
}

// SaveResult stores an analysis result, replacing any previous one for
// the owner
func (s *ResultStore) SaveResult(ctx context.Context, result insight.AnalysisResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("error marshaling analysis result: %w", err)
	}

	query := `
		INSERT INTO analysis_results (owner, run_id, result, generated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner) DO UPDATE
		SET
			run_id = $2,
			result = $3,
			generated_at = $4
	`

	_, err = s.db.Exec(ctx, query, result.Owner, result.RunID, resultJSON, result.GeneratedAt)
	if err != nil {
		return fmt.Errorf("error saving analysis result: %w", err)
	}

	return nil
}

// GetLatestResult returns the most recent analysis result for an owner
func (s *ResultStore) GetLatestResult(ctx context.Context, owner string) (*insight.AnalysisResult, error) {
	var resultJSON []byte

	err := s.db.QueryRow(
		ctx,
		`SELECT result FROM analysis_results WHERE owner = $1`,
		owner,
	).Scan(&resultJSON)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying analysis result: %w", err)
	}

	var result insight.AnalysisResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling analysis result: %w", err)
	}

	return &result, nil
}
