// internal/adapter/storage/profile_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trendxl/internal/domain/content"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// ProfileStore implements storage for creator profiles and their analyses
type ProfileStore struct {
	db *pgxpool.Pool
}

// NewProfileStore creates a new profile store
func NewProfileStore(db *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{
		db: db,
	}
}

// SaveProfile upserts a creator profile together with its analysis.
// A nil analysis preserves any previously stored one.
func (s *ProfileStore) SaveProfile(ctx context.Context, profile content.Profile, analysis *content.ProfileAnalysis) error {
	query := `
		INSERT INTO creator_profiles (
			username, display_name, follower_count, following_count,
			video_count, likes_count, bio, avatar_url, verified,
			sec_uid, region, language, analysis, last_updated
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14
		)
		ON CONFLICT (username) DO UPDATE
		SET
			display_name = $2,
			follower_count = $3,
			following_count = $4,
			video_count = $5,
			likes_count = $6,
			bio = $7,
			avatar_url = $8,
			verified = $9,
			sec_uid = $10,
			region = $11,
			language = $12,
			analysis = COALESCE($13, creator_profiles.analysis),
			last_updated = $14
	`

	var analysisJSON []byte
	if analysis != nil {
		var err error
		analysisJSON, err = json.Marshal(analysis)
		if err != nil {
			return fmt.Errorf("error marshaling profile analysis: %w", err)
		}
	}

	if profile.LastUpdated.IsZero() {
		profile.LastUpdated = time.Now()
	}

	_, err := s.db.Exec(
		ctx,
		query,
		profile.Username,
		profile.DisplayName,
		profile.FollowerCount,
		profile.FollowingCount,
		profile.VideoCount,
		profile.LikesCount,
		profile.Bio,
		profile.AvatarURL,
		profile.Verified,
		profile.SecUID,
		profile.Region,
		profile.Language,
		analysisJSON,
		profile.LastUpdated,
	)

	if err != nil {
		return fmt.Errorf("error saving profile: %w", err)
	}

	return nil
}

// GetProfile retrieves a profile and its analysis by username
func (s *ProfileStore) GetProfile(ctx context.Context, username string) (*content.Profile, *content.ProfileAnalysis, error) {
	query := `
		SELECT
			username, display_name, follower_count, following_count,
			video_count, likes_count, bio, avatar_url, verified,
			sec_uid, region, language, analysis, last_updated
		FROM creator_profiles
		WHERE username = $1
	`

	var p content.Profile
	var analysisJSON []byte

	err := s.db.QueryRow(ctx, query, username).Scan(
		&p.Username,
		&p.DisplayName,
		&p.FollowerCount,
		&p.FollowingCount,
		&p.VideoCount,
		&p.LikesCount,
		&p.Bio,
		&p.AvatarURL,
		&p.Verified,
		&p.SecUID,
		&p.Region,
		&p.Language,
		&analysisJSON,
		&p.LastUpdated,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("error querying profile: %w", err)
	}

	var analysis *content.ProfileAnalysis
	if len(analysisJSON) > 0 {
		analysis = &content.ProfileAnalysis{}
		if err := json.Unmarshal(analysisJSON, analysis); err != nil {
			return nil, nil, fmt.Errorf("error unmarshaling profile analysis: %w", err)
		}
	}

	return &p, analysis, nil
}

// ListProfiles returns the usernames of every tracked profile
func (s *ProfileStore) ListProfiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT username FROM creator_profiles ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("error scanning username: %w", err)
		}
		usernames = append(usernames, username)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return usernames, nil
}
