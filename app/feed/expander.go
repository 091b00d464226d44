package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/antarv/tweetfeed/app/timeline"
)

const mediaURLMarker = "\x00media\x00"

// Expander turns one status into renderable HTML, recursively expanding the
// embedded retweet/quote/reply references. Expansion is a pure function over
// the already-embedded payload; it never performs ledger or network lookups,
// so recursion depth equals the embedded depth supplied by the upstream.
type Expander struct{}

func NewExpander() *Expander {
	return &Expander{}
}

// Run renders the status body. A panic from an unexpected payload shape is
// recovered and returned as an error so one malformed status never blocks
// the rest of the batch; the caller substitutes a fallback notice.
func (e *Expander) Run(tweet *timeline.Tweet) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("expansion failed for status %d: %v", tweet.ID, r)
		}
	}()

	var buf bytes.Buffer
	e.expand(&buf, tweet)
	return buf.String(), nil
}

func (e *Expander) expand(buf *bytes.Buffer, tweet *timeline.Tweet) {
	displayName := html.EscapeString(tweet.User.Name)

	// A retweet contributes no body of its own, only an attribution line
	// ahead of the retweeted status.
	if tweet.IsRetweet() {
		fmt.Fprintf(buf, "<p>%s Retweeted</p>\n", displayName)
		e.expand(buf, tweet.RetweetedStatus)
		return
	}

	if tweet.IsReply() {
		replyURL := TweetURL(tweet.InReplyToScreenName, tweet.InReplyToStatusID)
		fmt.Fprintf(buf, "<p>Replying to <a href=\"%s\">@%s</a></p>\n",
			replyURL, html.EscapeString(tweet.InReplyToScreenName))
	}

	buf.WriteString("<blockquote>\n")
	e.writeSanitizedText(buf, tweet)
	e.writeMedia(buf, tweet)
	buf.WriteString("</blockquote>\n")

	fmt.Fprintf(buf, "<p><img src=\"%s\" width=\"32\" height=\"32\" class=\"alignleft\" /> -- %s (@%s) <a href=\"%s\">%s</a></p>\n",
		html.EscapeString(tweet.User.ProfileImageURL),
		displayName,
		html.EscapeString(tweet.User.ScreenName),
		TweetURL(tweet.User.ScreenName, tweet.ID),
		html.EscapeString(tweet.CreatedAt))

	if tweet.HasQuoted() {
		fmt.Fprintf(buf, "<p>%s tweeted this while quoting the below tweet.</p>\n", displayName)
		e.expand(buf, tweet.QuotedStatus)
	}
}

// writeSanitizedText emits the escaped body with every known short-link
// rewritten: media links and the quoted status link are removed, other
// links become anchors to their expansion, and mention tokens become
// profile links.
func (e *Expander) writeSanitizedText(buf *bytes.Buffer, tweet *timeline.Tweet) {
	text := html.EscapeString(tweet.Body())
	text = strings.ReplaceAll(text, "\n", "<br/>")

	var quotedURL string
	if tweet.HasQuoted() {
		quoted := tweet.QuotedStatus
		quotedURL = strings.ToLower(TweetURL(quoted.User.ScreenName, quoted.ID))
	}

	expansions := make(map[string]string, len(tweet.URLs)+len(tweet.Media))
	for _, u := range tweet.URLs {
		expansions[u.URL] = u.ExpandedURL
	}
	for _, m := range tweet.Media {
		expansions[m.URL] = mediaURLMarker
	}

	for shortURL, expandedURL := range expansions {
		if expandedURL == mediaURLMarker || (quotedURL != "" && quotedURL == strings.ToLower(expandedURL)) {
			text = strings.ReplaceAll(text, shortURL, "")
		} else {
			anchor := fmt.Sprintf("<a href=\"%s\">%s</a>",
				html.EscapeString(expandedURL), html.EscapeString(expandedURL))
			text = strings.ReplaceAll(text, shortURL, anchor)
		}
	}

	for _, mention := range tweet.UserMentions {
		username := mention.ScreenName
		if username == "" {
			continue
		}
		pattern, err := regexp.Compile(`(?i)@` + regexp.QuoteMeta(username) + `\b`)
		if err != nil {
			continue
		}
		link := fmt.Sprintf("<a href=\"%s\">@%s</a>", UserURL(username), username)
		text = pattern.ReplaceAllLiteralString(text, link)
	}

	if text = strings.TrimSpace(text); text != "" {
		fmt.Fprintf(buf, "<p>%s</p>\n", text)
	}
}

func (e *Expander) writeMedia(buf *bytes.Buffer, tweet *timeline.Tweet) {
	for _, media := range tweet.Media {
		switch media.Type {
		case "photo":
			e.writePhoto(buf, media.MediaURL, media.AltText)
		case "animated_gif", "video":
			if variant := bestVariant(media.VideoInfo); variant != nil {
				fmt.Fprintf(buf, `
<p><a href="%s"><video width="640" height="480" controls>
    <source src="%s" type="%s">
    This browser or application does not appear to support the video tag.
</video></a></p>
`, html.EscapeString(variant.URL), html.EscapeString(variant.URL), html.EscapeString(variant.ContentType))
			} else {
				e.writePhoto(buf, cmp.Or(media.ExpandedURL, media.URL, media.MediaURL), "")
			}
		default:
			buf.WriteString("<p>This tweet has media elements that cannot be rendered in this feed.</p>\n")
		}
	}
}

func (e *Expander) writePhoto(buf *bytes.Buffer, mediaURL, altText string) {
	if mediaURL == "" {
		return
	}
	fmt.Fprintf(buf, "<p><a href=\"%s\"><img src=\"%s\" alt=\"%s\" width=\"640\" height=\"480\" "+
		"class=\"aligncenter size-large\" sizes=\"(max-width: 640px) 100vw, 640px\" /></a></p>\n",
		html.EscapeString(mediaURL), html.EscapeString(mediaURL), html.EscapeString(altText))
}

// bestVariant picks the highest-bitrate playable variant, or nil when the
// element carries none.
func bestVariant(info *timeline.VideoInfo) *timeline.VideoVariant {
	if info == nil {
		return nil
	}
	var best *timeline.VideoVariant
	for i := range info.Variants {
		variant := &info.Variants[i]
		if variant.URL == "" {
			continue
		}
		if best == nil || variant.Bitrate > best.Bitrate {
			best = variant
		}
	}
	return best
}
