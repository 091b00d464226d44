package timeline

import (
	"cmp"
	"encoding/json"
	"fmt"
	"time"
)

// CreatedAtLayout is the fixed timestamp format used in upstream payloads,
// like "Wed Oct 10 20:19:24 +0000 2018".
const CreatedAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Tweet is one post as embedded in the stored payload. Retweeted, quoted and
// reply references arrive fully embedded by the upstream protocol; the
// payload is acyclic by construction, so recursive expansion over it is
// bounded by the embedded depth.
type Tweet struct {
	ID                  int64         `json:"id"`
	FullText            string        `json:"full_text,omitempty"`
	Text                string        `json:"text,omitempty"`
	CreatedAt           string        `json:"created_at"`
	User                User          `json:"user"`
	RetweetedStatus     *Tweet        `json:"retweeted_status,omitempty"`
	QuotedStatus        *Tweet        `json:"quoted_status,omitempty"`
	InReplyToStatusID   int64         `json:"in_reply_to_status_id,omitempty"`
	InReplyToScreenName string        `json:"in_reply_to_screen_name,omitempty"`
	InReplyToUserID     int64         `json:"in_reply_to_user_id,omitempty"`
	URLs                []URLEntity   `json:"urls,omitempty"`
	Media               []MediaEntity `json:"media,omitempty"`
	UserMentions        []Mention     `json:"user_mentions,omitempty"`
}

// User is the owning author of a tweet.
type User struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	ScreenName      string `json:"screen_name"`
	ProfileImageURL string `json:"profile_image_url_https,omitempty"`
}

// URLEntity is one embedded short-link and its expansion.
type URLEntity struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
}

// MediaEntity is one attached media element.
type MediaEntity struct {
	URL         string     `json:"url,omitempty"`
	ExpandedURL string     `json:"expanded_url,omitempty"`
	MediaURL    string     `json:"media_url_https,omitempty"`
	Type        string     `json:"type"`
	AltText     string     `json:"ext_alt_text,omitempty"`
	VideoInfo   *VideoInfo `json:"video_info,omitempty"`
}

// VideoInfo carries the playable variants of a video or animated element.
type VideoInfo struct {
	Variants []VideoVariant `json:"variants,omitempty"`
}

// VideoVariant is one encoding of a video element.
type VideoVariant struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Bitrate     int    `json:"bitrate,omitempty"`
}

// Mention is one @-mention token in the tweet body.
type Mention struct {
	ScreenName string `json:"screen_name"`
}

// ParseTweet decodes a stored payload.
func ParseTweet(payload []byte) (*Tweet, error) {
	var tweet Tweet
	if err := json.Unmarshal(payload, &tweet); err != nil {
		return nil, fmt.Errorf("failed to parse tweet payload: %w", err)
	}
	return &tweet, nil
}

// Body returns the tweet text, preferring the extended form.
func (t *Tweet) Body() string {
	return cmp.Or(t.FullText, t.Text)
}

// IsRetweet reports whether the tweet is a retweet of another tweet.
func (t *Tweet) IsRetweet() bool {
	return t.RetweetedStatus != nil
}

// IsReply reports whether the tweet replies to another tweet.
func (t *Tweet) IsReply() bool {
	return t.InReplyToStatusID != 0 && t.InReplyToScreenName != ""
}

// HasQuoted reports whether the tweet quotes another tweet.
func (t *Tweet) HasQuoted() bool {
	return t.QuotedStatus != nil
}

// CreatedTime parses the fixed-format creation timestamp. The zero time is
// returned for a missing or malformed timestamp.
func (t *Tweet) CreatedTime() time.Time {
	created, err := time.Parse(CreatedAtLayout, t.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return created.UTC()
}
