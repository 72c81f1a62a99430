package xclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"tweetink/internal/metrics"
	"tweetink/internal/model"
)

const maxBodySize = 16 << 20 // photos included

// TimelineSource returns a user's own tweets, newest first, with replies and
// retweets excluded.
type TimelineSource interface {
	UserTimeline(ctx context.Context, username string, count int) ([]model.Tweet, error)
}

// HTTPClient is a bearer-token client for X API v2. It also performs the
// plain media downloads for photo tweets.
type HTTPClient struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

func NewHTTPClient(bearerToken string) *HTTPClient {
	return &HTTPClient{
		baseURL:     "https://api.twitter.com/2",
		bearerToken: bearerToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		limiter:     newDefaultLimiter(),
	}
}

func (c *HTTPClient) auth(req *http.Request) {
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
	req.Header.Set("Accept", "application/json")
}

// do sends req once and returns the body of a 2xx response. Anything else is
// an error wrapping ErrFetch; nothing is retried.
func (c *HTTPClient) do(ctx context.Context, endpoint string, req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, endpoint, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(endpoint, 0)
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, endpoint, err)
	}
	defer resp.Body.Close()
	metrics.ObserveAPIRequest(endpoint, resp.StatusCode)
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %w", ErrFetch, endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, buildAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// GetMedia downloads the bytes behind a media URL.
func (c *HTTPClient) GetMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: media request: %w", ErrFetch, err)
	}
	return c.do(ctx, "media", req)
}

// GetUserByUsername resolves a handle to the v2 user id.
func (c *HTTPClient) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var out model.User
	if username == "" {
		return out, errors.New("xclient: empty username")
	}
	u := fmt.Sprintf("%s/users/by/username/%s", c.baseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return out, err
	}
	c.auth(req)
	body, err := c.do(ctx, "users/by/username", req)
	if err != nil {
		return out, err
	}
	var raw struct {
		Data struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return out, fmt.Errorf("%w: decode user: %w", ErrFetch, err)
	}
	if raw.Data.ID == "" {
		return out, &APIError{StatusCode: http.StatusNotFound, Message: "user " + username + " not found", RawBody: body}
	}
	return model.User{ID: raw.Data.ID, Username: raw.Data.Username, Name: raw.Data.Name}, nil
}

// UserTimeline implements TimelineSource over v2 users/:id/tweets.
func (c *HTTPClient) UserTimeline(ctx context.Context, username string, count int) ([]model.Tweet, error) {
	me, err := c.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("max_results", strconv.Itoa(clamp(count, 5, 100)))
	q.Set("exclude", "retweets,replies")
	q.Set("tweet.fields", "created_at,public_metrics,attachments")
	q.Set("expansions", "attachments.media_keys")
	q.Set("media.fields", "type,url")
	u := fmt.Sprintf("%s/users/%s/tweets?%s", c.baseURL, url.PathEscape(me.ID), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.auth(req)
	body, err := c.do(ctx, "users/tweets", req)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Data []struct {
			ID            string    `json:"id"`
			Text          string    `json:"text"`
			CreatedAt     time.Time `json:"created_at"`
			PublicMetrics struct {
				LikeCount    int `json:"like_count"`
				RetweetCount int `json:"retweet_count"`
			} `json:"public_metrics"`
			Attachments struct {
				MediaKeys []string `json:"media_keys"`
			} `json:"attachments"`
		} `json:"data"`
		Includes struct {
			Media []struct {
				MediaKey string `json:"media_key"`
				Type     string `json:"type"`
				URL      string `json:"url"`
			} `json:"media"`
		} `json:"includes"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode timeline: %w", ErrFetch, err)
	}
	media := make(map[string]model.Media, len(raw.Includes.Media))
	for _, m := range raw.Includes.Media {
		media[m.MediaKey] = model.Media{Kind: model.MediaType(m.Type), URL: m.URL}
	}
	out := make([]model.Tweet, 0, len(raw.Data))
	for _, d := range raw.Data {
		t := model.Tweet{
			ID:           d.ID,
			AuthorID:     me.ID,
			Text:         d.Text,
			CreatedAt:    d.CreatedAt,
			LikeCount:    d.PublicMetrics.LikeCount,
			RetweetCount: d.PublicMetrics.RetweetCount,
		}
		for _, k := range d.Attachments.MediaKeys {
			if m, ok := media[k]; ok {
				t.Media = append(t.Media, m)
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
