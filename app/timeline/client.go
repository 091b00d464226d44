package timeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/antarv/tweetfeed/app/database"
)

// RateLimitError is returned when the upstream rejects a fetch with 429.
// Reset is the time at which the limit window ends, when the upstream
// reported one.
type RateLimitError struct {
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return "timeline rate limit exceeded"
	}
	return fmt.Sprintf("timeline rate limit exceeded, resets at %s", e.Reset.Format(time.RFC3339))
}

// Client fetches the upstream home timeline. It owns authentication and
// rate-limit signalling; persistence stays with the caller.
type Client struct {
	httpClient *http.Client
	source     *SourceConfig
	userAgent  string
}

// NewClient creates a timeline client for the given source.
func NewClient(source *SourceConfig, httpClient *http.Client, userAgent string) *Client {
	return &Client{
		httpClient: httpClient,
		source:     source,
		userAgent:  userAgent,
	}
}

// HomeTimeline fetches timeline statuses newer than sinceID (0 = no lower
// bound). Each status keeps its raw payload byte-for-byte so the ledger
// stores exactly what the upstream sent.
func (c *Client) HomeTimeline(ctx context.Context, sinceID int64) ([]database.Status, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(c.source.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", c.source.APIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("count", strconv.Itoa(c.source.PageSize))
	q.Set("tweet_mode", "extended")
	if sinceID > 0 {
		q.Set("since_id", strconv.FormatInt(sinceID, 10))
	}
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Authorization", "Bearer "+c.source.BearerToken)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{Reset: parseRateLimitReset(resp.Header)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var payloads []json.RawMessage
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("failed to parse timeline response: %w", err)
	}

	statuses := make([]database.Status, 0, len(payloads))
	for _, payload := range payloads {
		tweet, err := ParseTweet(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timeline status: %w", err)
		}
		statuses = append(statuses, database.Status{ID: tweet.ID, Payload: payload})
	}

	return statuses, nil
}

func parseRateLimitReset(header http.Header) time.Time {
	raw := header.Get("x-rate-limit-reset")
	if raw == "" {
		return time.Time{}
	}
	epoch, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(epoch, 0).UTC()
}
