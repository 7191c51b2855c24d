// internal/adapter/provider/tiktok.go

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trendxl/internal/domain/content"
)

// TikTokClient fetches TikTok data from an EnsembleData-style REST API.
// It implements the content.Provider interface.
type TikTokClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// Config contains configuration for the TikTok data client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewTikTokClient creates a new TikTok data client
func NewTikTokClient(cfg Config) *TikTokClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://ensembledata.com/apis"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &TikTokClient{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		HTTPClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// userInfoResponse is the provider's profile payload
type userInfoResponse struct {
	Data struct {
		User struct {
			UniqueID       string `json:"unique_id"`
			Nickname       string `json:"nickname"`
			FollowerCount  int64  `json:"follower_count"`
			FollowingCount int64  `json:"following_count"`
			AwemeCount     int64  `json:"aweme_count"`
			TotalFavorited int64  `json:"total_favorited"`
			Signature      string `json:"signature"`
			AvatarURL      string `json:"avatar_url"`
			Verified       bool   `json:"verified"`
			SecUID         string `json:"sec_uid"`
			Region         string `json:"region"`
			Language       string `json:"language"`
		} `json:"user"`
	} `json:"data"`
}

// postPayload is one post in the provider's post/search payloads
type postPayload struct {
	AwemeID    string `json:"aweme_id"`
	Desc       string `json:"desc"`
	CreateTime int64  `json:"create_time"`
	Author     struct {
		UniqueID      string `json:"unique_id"`
		Nickname      string `json:"nickname"`
		FollowerCount int64  `json:"follower_count"`
	} `json:"author"`
	Statistics struct {
		PlayCount     int64 `json:"play_count"`
		DiggCount     int64 `json:"digg_count"`
		CommentCount  int64 `json:"comment_count"`
		ShareCount    int64 `json:"share_count"`
		DownloadCount int64 `json:"download_count"`
		CollectCount  int64 `json:"collect_count"`
	} `json:"statistics"`
	Video struct {
		Duration int    `json:"duration"`
		Cover    string `json:"cover"`
		PlayAddr string `json:"play_addr"`
	} `json:"video"`
	Music struct {
		Title  string `json:"title"`
		Author string `json:"author"`
	} `json:"music"`
	TextExtra []struct {
		HashtagName string `json:"hashtag_name"`
	} `json:"text_extra"`
}

type postsResponse struct {
	Data []postPayload `json:"data"`
}

// GetProfile fetches a creator profile by username
func (c *TikTokClient) GetProfile(ctx context.Context, username string) (*content.Profile, error) {
	params := url.Values{}
	params.Set("username", username)

	var resp userInfoResponse
	if err := c.get(ctx, "/tt/user/info", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching profile for @%s: %w", username, err)
	}

	u := resp.Data.User
	if u.UniqueID == "" {
		return nil, fmt.Errorf("provider returned no user data for @%s", username)
	}

	return &content.Profile{
		Username:       u.UniqueID,
		DisplayName:    u.Nickname,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
		VideoCount:     u.AwemeCount,
		LikesCount:     u.TotalFavorited,
		Bio:            u.Signature,
		AvatarURL:      u.AvatarURL,
		Verified:       u.Verified,
		SecUID:         u.SecUID,
		Region:         u.Region,
		Language:       u.Language,
		LastUpdated:    time.Now(),
	}, nil
}

// GetUserPosts fetches the creator's recent posts
func (c *TikTokClient) GetUserPosts(ctx context.Context, username string, depth int) ([]content.Record, error) {
	if depth <= 0 {
		depth = 5
	}

	params := url.Values{}
	params.Set("username", username)
	params.Set("depth", fmt.Sprintf("%d", depth))

	var resp postsResponse
	if err := c.get(ctx, "/tt/user/posts", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching posts for @%s: %w", username, err)
	}

	return c.toRecords(resp.Data, "", ""), nil
}

// SearchKeyword fetches trending content matching a keyword
func (c *TikTokClient) SearchKeyword(ctx context.Context, keyword string, maxResults int) ([]content.Record, error) {
	params := url.Values{}
	params.Set("name", keyword)
	params.Set("period", "30")

	var resp postsResponse
	if err := c.get(ctx, "/tt/keyword/search", params, &resp); err != nil {
		return nil, fmt.Errorf("searching keyword %q: %w", keyword, err)
	}

	records := c.toRecords(resp.Data, keyword, "")
	if maxResults > 0 && len(records) > maxResults {
		records = records[:maxResults]
	}
	return records, nil
}

// SearchHashtag fetches trending content tagged with a hashtag
func (c *TikTokClient) SearchHashtag(ctx context.Context, hashtag string, maxResults int) ([]content.Record, error) {
	params := url.Values{}
	params.Set("name", strings.TrimPrefix(hashtag, "#"))

	var resp postsResponse
	if err := c.get(ctx, "/tt/hashtag/posts", params, &resp); err != nil {
		return nil, fmt.Errorf("searching hashtag %q: %w", hashtag, err)
	}

	records := c.toRecords(resp.Data, "", hashtag)
	if maxResults > 0 && len(records) > maxResults {
		records = records[:maxResults]
	}
	return records, nil
}

// get performs an authenticated GET against the provider API
func (c *TikTokClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if c.APIKey == "" {
		return fmt.Errorf("provider API key not configured")
	}

	params.Set("token", c.APIKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.BaseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "trendxl/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach provider API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider API returned status code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}

	return nil
}

// toRecords converts provider payloads into content records, computing the
// engagement rate at ingestion
func (c *TikTokClient) toRecords(posts []postPayload, sourceKeyword, sourceHashtag string) []content.Record {
	records := make([]content.Record, 0, len(posts))

	for _, p := range posts {
		if p.AwemeID == "" {
			continue
		}

		stats := content.Statistics{
			Views:     p.Statistics.PlayCount,
			Likes:     p.Statistics.DiggCount,
			Comments:  p.Statistics.CommentCount,
			Shares:    p.Statistics.ShareCount,
			Downloads: p.Statistics.DownloadCount,
			Favorites: p.Statistics.CollectCount,
			Duration:  p.Video.Duration,
		}

		hashtags := make([]string, 0, len(p.TextExtra))
		for _, te := range p.TextExtra {
			if te.HashtagName != "" {
				hashtags = append(hashtags, te.HashtagName)
			}
		}

		records = append(records, content.Record{
			ID:              p.AwemeID,
			Description:     p.Desc,
			AuthorHandle:    p.Author.UniqueID,
			AuthorNickname:  p.Author.Nickname,
			AuthorFollowers: p.Author.FollowerCount,
			Statistics:      stats,
			EngagementRate:  content.ComputeEngagementRate(stats),
			Hashtags:        hashtags,
			MusicTitle:      p.Music.Title,
			MusicAuthor:     p.Music.Author,
			VideoURL:        p.Video.PlayAddr,
			CoverURL:        p.Video.Cover,
			CreatedAt:       time.Unix(p.CreateTime, 0).UTC(),
			SourceKeyword:   sourceKeyword,
			SourceHashtag:   sourceHashtag,
		})
	}

	return records
}
