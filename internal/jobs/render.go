package jobs

import (
	"context"
	"fmt"
	"time"

	"tweetink/internal/content"
	"tweetink/internal/logging"
	"tweetink/internal/metrics"
	"tweetink/internal/output"
	"tweetink/internal/render"
	"tweetink/internal/xclient"
)

// minTimelineCount keeps small nth values from re-fetching when the
// timeline is short after replies and retweets are filtered out.
const minTimelineCount = 20

// Deps are the collaborators of a render run.
type Deps struct {
	Timeline xclient.TimelineSource
	Media    render.ImageFetcher
	Sink     output.Sink
}

// RenderOptions select the tweet and how it is drawn.
type RenderOptions struct {
	Username string
	Nth      int // 1 is the latest
	Count    int // tweets requested; raised to Nth when smaller
	Layout   render.Options
}

// RenderOnce fetches the timeline, picks the nth tweet, composes it onto a
// canvas sized by the sink and hands the canvas over. Each stage runs once
// and the first failure ends the run.
func RenderOnce(ctx context.Context, d Deps, o RenderOptions) (err error) {
	start := time.Now()
	metrics.RenderRuns.Inc()
	defer metrics.ObserveRenderDuration(start)

	stage := "fetch"
	defer func() {
		if err != nil {
			metrics.IncRenderError(stage)
			logging.Error("render_failed", map[string]any{"stage": stage, "username": o.Username, "nth": o.Nth, "error": err.Error()})
		}
	}()

	count := max(o.Count, minTimelineCount, o.Nth)
	tweets, err := d.Timeline.UserTimeline(ctx, o.Username, count)
	if err != nil {
		return fmt.Errorf("timeline @%s: %w", o.Username, err)
	}
	logging.Info("timeline_fetched", map[string]any{"username": o.Username, "count": len(tweets)})

	stage = "pick"
	t, err := content.Pick(tweets, o.Nth)
	if err != nil {
		return err
	}
	c := content.Classify(t)
	logging.Info("tweet_selected", map[string]any{"id": t.ID, "nth": o.Nth, "variant": c.Variant(), "retweets": c.RetweetCount, "likes": c.LikeCount})

	stage = "layout"
	l, err := render.NewLayout(o.Layout, d.Sink.Size())
	if err != nil {
		return err
	}

	stage = "compose"
	canvas, err := render.NewCompositor(l, d.Media).Compose(ctx, c, o.Username)
	if err != nil {
		return fmt.Errorf("compose tweet %s: %w", t.ID, err)
	}
	metrics.IncVariant(c.Variant())

	stage = "output"
	if err := d.Sink.Write(ctx, canvas); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	logging.Info("render_done", map[string]any{"id": t.ID, "variant": c.Variant(), "elapsed_ms": time.Since(start).Milliseconds()})
	return nil
}
