package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/antarv/tweetfeed/app/timeline"
)

const defaultChannelIcon = "https://abs.twimg.com/favicons/win8-tile-144.png"

// Generator writes the RSS channel header and per-status items. Items wrap
// the Expander's output; a failed expansion degrades to a minimal item that
// keeps title, link and date and points the reader at the original.
type Generator struct {
	baseURL  string
	version  string
	expander *Expander
}

func NewGenerator(baseURL, version string) *Generator {
	return &Generator{
		baseURL:  baseURL,
		version:  version,
		expander: NewExpander(),
	}
}

// Header renders the opening of an author's feed document, up to and
// excluding the first item.
func (g *Generator) Header(user timeline.User, lastBuild time.Time) string {
	var buf bytes.Buffer

	username := user.ScreenName
	icon := user.ProfileImageURL
	if icon == "" {
		icon = defaultChannelIcon
	}

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", fmt.Sprintf("@%s / Twitter", username), 4)
	g.writeElement(&buf, "link", UserURL(username), 4)
	g.writeElement(&buf, "description", fmt.Sprintf("Tweets by @%s", username), 4)
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(FeedURL(g.baseURL, username))))
	g.writeElement(&buf, "lastBuildDate", lastBuild.UTC().Format(RSSTimeFormat), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("TweetFeed/%s", g.version), 4)

	buf.WriteString("    <image>\n")
	g.writeElement(&buf, "url", icon, 6)
	g.writeElement(&buf, "title", fmt.Sprintf("@%s / Twitter", username), 6)
	g.writeElement(&buf, "link", UserURL(username), 6)
	buf.WriteString("    </image>\n")

	return buf.String()
}

// BuildItem renders one status as a complete RSS item.
func (g *Generator) BuildItem(tweet *timeline.Tweet) string {
	var buf bytes.Buffer

	url := TweetURL(tweet.User.ScreenName, tweet.ID)

	content, err := g.expander.Run(tweet)
	if err != nil {
		slog.Error("Status expansion failed, emitting fallback item", "status_id", tweet.ID, "error", err)
		content = fmt.Sprintf("Please read <a href=\"%s\">%s</a> directly.", url, url)
	}

	buf.WriteString("    <item>\n")
	g.writeElement(&buf, "title", fmt.Sprintf("%s tweeted %d", tweet.User.Name, tweet.ID), 6)
	g.writeElement(&buf, "link", url, 6)
	g.writeElement(&buf, "pubDate", tweet.CreatedTime().Format(RSSTimeFormat), 6)
	g.writeElement(&buf, "dc:creator", tweet.User.Name, 6)
	g.writeElement(&buf, "category", "Tweets", 6)
	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(&buf, []byte(url))
	buf.WriteString("</guid>\n")
	buf.WriteString("      <description />\n")
	buf.WriteString("      <content:encoded><![CDATA[")
	buf.WriteString(content)
	buf.WriteString("]]></content:encoded>\n")
	buf.WriteString("    </item>\n")

	return buf.String()
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
