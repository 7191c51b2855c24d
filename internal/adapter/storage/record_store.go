// internal/adapter/storage/record_store.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"trendxl/internal/domain/content"
)

// RecordStore implements storage for content records
type RecordStore struct {
	db *pgxpool.Pool
}

// NewRecordStore creates a new record store
func NewRecordStore(db *pgxpool.Pool) *RecordStore {
	return &RecordStore{
		db: db,
	}
}

// SaveRecords upserts a batch of records for an owner, keyed by the
// provider's external id
func (s *RecordStore) SaveRecords(ctx context.Context, owner string, records []content.Record) error {
	query := `
		INSERT INTO content_records (
			id, owner, description, author_handle, author_nickname, author_followers,
			views, likes, comments, shares, downloads, favorites, duration,
			engagement_rate, hashtags, music_title, music_author,
			video_url, cover_url, labels,
			created_at, source_keyword, source_hashtag, ingested_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17,
			$18, $19, $20,
			$21, $22, $23, $24
		)
		ON CONFLICT (id) DO UPDATE
		SET
			views = $7,
			likes = $8,
			comments = $9,
			shares = $10,
			downloads = $11,
			favorites = $12,
			engagement_rate = $14,
			labels = $20,
			source_keyword = $22,
			source_hashtag = $23,
			ingested_at = $24
	`

	now := time.Now()
	for _, r := range records {
		labelsJSON, err := json.Marshal(r.Labels)
		if err != nil {
			return fmt.Errorf("error marshaling labels: %w", err)
		}

		_, err = s.db.Exec(
			ctx,
			query,
			r.ID,
			owner,
			r.Description,
			r.AuthorHandle,
			r.AuthorNickname,
			r.AuthorFollowers,
			r.Statistics.Views,
			r.Statistics.Likes,
			r.Statistics.Comments,
			r.Statistics.Shares,
			r.Statistics.Downloads,
			r.Statistics.Favorites,
			r.Statistics.Duration,
			r.EngagementRate,
			r.Hashtags,
			r.MusicTitle,
			r.MusicAuthor,
			r.VideoURL,
			r.CoverURL,
			labelsJSON,
			r.CreatedAt,
			r.SourceKeyword,
			r.SourceHashtag,
			now,
		)

		if err != nil {
			return fmt.Errorf("error saving record %s: %w", r.ID, err)
		}
	}

	return nil
}

// FindRecords finds records matching the filter, newest ingestion first
func (s *RecordStore) FindRecords(ctx context.Context, filter content.Filter) ([]content.Record, error) {
	query := `
		SELECT
			id, description, author_handle, author_nickname, author_followers,
			views, likes, comments, shares, downloads, favorites, duration,
			engagement_rate, hashtags, music_title, music_author,
			video_url, cover_url, labels,
			created_at, source_keyword, source_hashtag
		FROM content_records
		WHERE 1=1
	`

	args := []interface{}{}
	argIndex := 1

	if filter.Owner != "" {
		query += fmt.Sprintf(" AND owner = $%d", argIndex)
		args = append(args, filter.Owner)
		argIndex++
	}

	if filter.MinViews > 0 {
		query += fmt.Sprintf(" AND views >= $%d", argIndex)
		args = append(args, filter.MinViews)
		argIndex++
	}

	if filter.MinRelevance > 0 {
		query += fmt.Sprintf(" AND (labels->>'relevance_score')::float >= $%d", argIndex)
		args = append(args, filter.MinRelevance)
		argIndex++
	}

	if filter.Keyword != "" {
		query += fmt.Sprintf(" AND (description ILIKE $%d OR source_keyword = $%d OR source_hashtag = $%d)", argIndex, argIndex+1, argIndex+2)
		pattern := "%" + filter.Keyword + "%"
		args = append(args, pattern, filter.Keyword, filter.Keyword)
		argIndex += 3
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY ingested_at DESC, id LIMIT %d", limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var records []content.Record
	for rows.Next() {
		var r content.Record
		var labelsJSON []byte

		err := rows.Scan(
			&r.ID,
			&r.Description,
			&r.AuthorHandle,
			&r.AuthorNickname,
			&r.AuthorFollowers,
			&r.Statistics.Views,
			&r.Statistics.Likes,
			&r.Statistics.Comments,
			&r.Statistics.Shares,
			&r.Statistics.Downloads,
			&r.Statistics.Favorites,
			&r.Statistics.Duration,
			&r.EngagementRate,
			&r.Hashtags,
			&r.MusicTitle,
			&r.MusicAuthor,
			&r.VideoURL,
			&r.CoverURL,
			&labelsJSON,
			&r.CreatedAt,
			&r.SourceKeyword,
			&r.SourceHashtag,
		)

		if err != nil {
			return nil, fmt.Errorf("error scanning record: %w", err)
		}

		if len(labelsJSON) > 0 {
			if err := json.Unmarshal(labelsJSON, &r.Labels); err != nil {
				return nil, fmt.Errorf("error unmarshaling labels: %w", err)
			}
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}
