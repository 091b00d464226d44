package feed

import (
	"strings"
	"testing"

	"github.com/antarv/tweetfeed/app/timeline"
)

func plainTweet() *timeline.Tweet {
	return &timeline.Tweet{
		ID:        1048600000000000001,
		FullText:  "Just a plain tweet",
		CreatedAt: "Wed Oct 10 20:19:24 +0000 2018",
		User: timeline.User{
			ID:              1,
			Name:            "Alice Example",
			ScreenName:      "alice",
			ProfileImageURL: "https://images.example.com/alice.jpg",
		},
	}
}

func TestExpandPlainTweet(t *testing.T) {
	expander := NewExpander()

	content, err := expander.Run(plainTweet())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Exactly one body paragraph plus the signature line, nothing else
	if got := strings.Count(content, "<p>"); got != 2 {
		t.Errorf("Expected 2 paragraphs (body + signature), got %d:\n%s", got, content)
	}
	if !strings.Contains(content, "<p>Just a plain tweet</p>") {
		t.Errorf("Expected body paragraph, got:\n%s", content)
	}
	if !strings.Contains(content, "-- Alice Example (@alice)") {
		t.Errorf("Expected signature line, got:\n%s", content)
	}
	if !strings.Contains(content, "https://twitter.com/alice/status/1048600000000000001") {
		t.Errorf("Expected permalink in signature, got:\n%s", content)
	}
	if strings.Contains(content, "Retweeted") || strings.Contains(content, "Replying to") {
		t.Errorf("Plain tweet should have no attribution lines:\n%s", content)
	}
}

func TestExpandEscapesBody(t *testing.T) {
	expander := NewExpander()

	tweet := plainTweet()
	tweet.FullText = "1 < 2 & <script>alert(1)</script>\nsecond line"

	content, err := expander.Run(tweet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if strings.Contains(content, "<script>") {
		t.Errorf("Body markup should be escaped:\n%s", content)
	}
	if !strings.Contains(content, "1 &lt; 2 &amp;") {
		t.Errorf("Expected escaped characters, got:\n%s", content)
	}
	if !strings.Contains(content, "<br/>") {
		t.Errorf("Expected newline converted to line break, got:\n%s", content)
	}
}

func TestExpandRetweet(t *testing.T) {
	expander := NewExpander()

	inner := plainTweet()
	retweet := &timeline.Tweet{
		ID:              1048600000000000002,
		FullText:        "RT @alice: Just a plain tweet",
		CreatedAt:       "Wed Oct 10 21:00:00 +0000 2018",
		User:            timeline.User{ID: 2, Name: "Bob Builder", ScreenName: "bob"},
		RetweetedStatus: inner,
	}

	content, err := expander.Run(retweet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.HasPrefix(content, "<p>Bob Builder Retweeted</p>\n") {
		t.Errorf("Expected retweet attribution first, got:\n%s", content)
	}
	if !strings.Contains(content, "<p>Just a plain tweet</p>") {
		t.Errorf("Expected retweeted body, got:\n%s", content)
	}
	// The retweeting tweet contributes no body of its own
	if strings.Contains(content, "RT @alice") {
		t.Errorf("Retweet should carry no independent body:\n%s", content)
	}
	if strings.Contains(content, "(@bob)") {
		t.Errorf("Retweet should carry no signature of its own:\n%s", content)
	}
}

func TestExpandReplyAttribution(t *testing.T) {
	expander := NewExpander()

	tweet := plainTweet()
	tweet.InReplyToStatusID = 1048500000000000000
	tweet.InReplyToScreenName = "alice"
	tweet.InReplyToUserID = 1

	content, err := expander.Run(tweet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(content, `Replying to <a href="https://twitter.com/alice/status/1048500000000000000">@alice</a>`) {
		t.Errorf("Expected reply attribution with deep link, got:\n%s", content)
	}
}

func TestExpandRewritesLinks(t *testing.T) {
	expander := NewExpander()

	tweet := plainTweet()
	tweet.FullText = "Read this https://t.co/abc and look https://t.co/pic"
	tweet.URLs = []timeline.URLEntity{
		{URL: "https://t.co/abc", ExpandedURL: "https://example.com/article"},
	}
	tweet.Media = []timeline.MediaEntity{
		{URL: "https://t.co/pic", MediaURL: "https://images.example.com/pic.jpg", Type: "photo"},
	}

	content, err := expander.Run(tweet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(content, `<a href="https://example.com/article">https://example.com/article</a>`) {
		t.Errorf("Expected expanded anchor, got:\n%s", content)
	}
	if strings.Contains(content, "https://t.co/abc") {
		t.Errorf("Short link should be rewritten, got:\n%s", content)
	}
	if strings.Contains(content, "https://t.co/pic") {
		t.Errorf("Media placeholder link should be removed, got:\n%s", content)
	}
	if !strings.Contains(content, `<img src="https://images.example.com/pic.jpg"`) {
		t.Errorf("Expected photo element, got:\n%s", content)
	}
}

func TestExpandQuotedTweet(t *testing.T) {
	expander := NewExpander()

	quoted := plainTweet()
	tweet := &timeline.Tweet{
		ID:           1048600000000000003,
		FullText:     "Look at this https://t.co/quote",
		CreatedAt:    "Wed Oct 10 22:00:00 +0000 2018",
		User:         timeline.User{ID: 2, Name: "Bob Builder", ScreenName: "bob"},
		QuotedStatus: quoted,
		URLs: []timeline.URLEntity{
			{URL: "https://t.co/quote", ExpandedURL: "https://twitter.com/Alice/status/1048600000000000001"},
		},
	}

	content, err := expander.Run(tweet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// The short-link matching the quoted tweet's canonical URL is removed,
	// the quoted tweet is expanded inline instead
	if strings.Contains(content, "t.co/quote") || strings.Contains(content, "https://twitter.com/Alice/status") {
		t.Errorf("Quoted-tweet link should be removed from the body, got:\n%s", content)
	}
	if !strings.Contains(content, "Bob Builder tweeted this while quoting the below tweet.") {
		t.Errorf("Expected quote attribution, got:\n%s", content)
	}
	if !strings.Contains(content, "<p>Just a plain tweet</p>") {
		t.Errorf("Expected quoted body expanded, got:\n%s", content)
	}
}

func TestExpandMentions(t *testing.T) {
	expander := NewExpander()

	tweet := plainTweet()
	tweet.FullText = "Thanks @BobBuilder for the tip"
	tweet.UserMentions = []timeline.Mention{{ScreenName: "bobbuilder"}}

	content, err := expander.Run(tweet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Mention rewriting is case-insensitive
	if !strings.Contains(content, `<a href="https://twitter.com/bobbuilder">@bobbuilder</a>`) {
		t.Errorf("Expected mention rewritten to profile link, got:\n%s", content)
	}
	if strings.Contains(content, "@BobBuilder") {
		t.Errorf("Original mention token should be rewritten, got:\n%s", content)
	}
}

func TestExpandVideoMedia(t *testing.T) {
	expander := NewExpander()

	tweet := plainTweet()
	tweet.Media = []timeline.MediaEntity{
		{
			Type: "video",
			VideoInfo: &timeline.VideoInfo{
				Variants: []timeline.VideoVariant{
					{URL: "https://video.example.com/low.mp4", ContentType: "video/mp4", Bitrate: 320000},
					{URL: "https://video.example.com/high.mp4", ContentType: "video/mp4", Bitrate: 2176000},
					{URL: "https://video.example.com/playlist.m3u8", ContentType: "application/x-mpegURL"},
				},
			},
		},
	}

	content, err := expander.Run(tweet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(content, `<source src="https://video.example.com/high.mp4" type="video/mp4">`) {
		t.Errorf("Expected highest-bitrate variant, got:\n%s", content)
	}
}

func TestExpandVideoWithoutVariants(t *testing.T) {
	expander := NewExpander()

	tweet := plainTweet()
	tweet.Media = []timeline.MediaEntity{
		{
			Type:        "animated_gif",
			ExpandedURL: "https://twitter.com/alice/status/1/photo/1",
		},
	}

	content, err := expander.Run(tweet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(content, `<img src="https://twitter.com/alice/status/1/photo/1"`) {
		t.Errorf("Expected plain link fallback for unplayable video, got:\n%s", content)
	}
}

func TestExpandUnknownMedia(t *testing.T) {
	expander := NewExpander()

	tweet := plainTweet()
	tweet.Media = []timeline.MediaEntity{{Type: "hologram"}}

	content, err := expander.Run(tweet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(content, "cannot be rendered") {
		t.Errorf("Expected generic notice for unknown media kind, got:\n%s", content)
	}
}

func TestExpandNestedQuoteOfQuote(t *testing.T) {
	expander := NewExpander()

	innermost := plainTweet()
	middle := &timeline.Tweet{
		ID:           2,
		FullText:     "quoting once",
		CreatedAt:    "Wed Oct 10 21:00:00 +0000 2018",
		User:         timeline.User{ID: 2, Name: "Bob Builder", ScreenName: "bob"},
		QuotedStatus: innermost,
	}
	outer := &timeline.Tweet{
		ID:           3,
		FullText:     "quoting twice",
		CreatedAt:    "Wed Oct 10 22:00:00 +0000 2018",
		User:         timeline.User{ID: 3, Name: "Carol", ScreenName: "carol"},
		QuotedStatus: middle,
	}

	content, err := expander.Run(outer)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	for _, want := range []string{"quoting twice", "quoting once", "Just a plain tweet"} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected nested expansion to contain '%s', got:\n%s", want, content)
		}
	}
}
