// Package content selects the tweet to render and decides how its body is drawn.
package content

import (
	"errors"
	"fmt"

	"tweetink/internal/model"
)

// ErrIndexOutOfRange is returned when the requested tweet is not in the timeline.
var ErrIndexOutOfRange = errors.New("tweet index out of range")

// Pick returns the nth (1-based) tweet of a timeline.
func Pick(tweets []model.Tweet, nth int) (model.Tweet, error) {
	i := nth - 1
	if i < 0 || i >= len(tweets) {
		return model.Tweet{}, fmt.Errorf("%w: want #%d, timeline has %d", ErrIndexOutOfRange, nth, len(tweets))
	}
	return tweets[i], nil
}

// Classify reduces a tweet to render content. Only the first attachment is
// considered: a photo becomes the body, anything else is discarded and the
// tweet is drawn as text.
func Classify(t model.Tweet) model.Content {
	c := model.Content{
		Text:         t.Text,
		RetweetCount: t.RetweetCount,
		LikeCount:    t.LikeCount,
	}
	if len(t.Media) == 0 {
		return c
	}
	if first := t.Media[0]; first.Kind == model.MediaPhoto {
		c.Photo = &model.Media{Kind: first.Kind, URL: first.URL}
	}
	return c
}
