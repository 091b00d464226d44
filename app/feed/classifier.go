package feed

import (
	"github.com/antarv/tweetfeed/app/timeline"
)

// Classifier decides whether a status belongs in its author's feed document.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// IsEligible reports whether the status is content of the author's own
// outgoing stream. A reply to someone else's tweet that is not itself a
// retweet only surfaced because the home timeline shows conversations
// between followed accounts; those are excluded. Classification is total
// and never errors; ineligible statuses are still consumed and marked
// published by the caller so they are never retried.
func (c *Classifier) IsEligible(tweet *timeline.Tweet) bool {
	if tweet.InReplyToStatusID != 0 && !tweet.IsRetweet() && tweet.InReplyToUserID != tweet.User.ID {
		return false
	}
	return true
}
