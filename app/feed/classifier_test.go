package feed

import (
	"testing"

	"github.com/antarv/tweetfeed/app/timeline"
)

func TestClassifierCrossAuthorReply(t *testing.T) {
	classifier := NewClassifier()

	// A reply to someone else that only surfaced through the home timeline
	tweet := &timeline.Tweet{
		ID:                  10,
		User:                timeline.User{ID: 1, ScreenName: "alice"},
		InReplyToStatusID:   9,
		InReplyToScreenName: "bob",
		InReplyToUserID:     2,
	}

	if classifier.IsEligible(tweet) {
		t.Error("Cross-author reply should be ineligible")
	}
}

func TestClassifierSelfReply(t *testing.T) {
	classifier := NewClassifier()

	// A thread continuation replies to the author's own tweet
	tweet := &timeline.Tweet{
		ID:                  10,
		User:                timeline.User{ID: 1, ScreenName: "alice"},
		InReplyToStatusID:   9,
		InReplyToScreenName: "alice",
		InReplyToUserID:     1,
	}

	if !classifier.IsEligible(tweet) {
		t.Error("Self-reply should be eligible")
	}
}

func TestClassifierRetweetOfReply(t *testing.T) {
	classifier := NewClassifier()

	tweet := &timeline.Tweet{
		ID:   10,
		User: timeline.User{ID: 1, ScreenName: "alice"},
		RetweetedStatus: &timeline.Tweet{
			ID:   8,
			User: timeline.User{ID: 3, ScreenName: "carol"},
		},
		InReplyToStatusID: 9,
		InReplyToUserID:   2,
	}

	if !classifier.IsEligible(tweet) {
		t.Error("Retweet should be eligible even when the retweeted tweet is a reply")
	}
}

func TestClassifierPlainTweet(t *testing.T) {
	classifier := NewClassifier()

	tweet := &timeline.Tweet{
		ID:   10,
		User: timeline.User{ID: 1, ScreenName: "alice"},
	}

	if !classifier.IsEligible(tweet) {
		t.Error("Plain tweet should be eligible")
	}
}
