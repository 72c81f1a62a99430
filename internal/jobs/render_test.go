package jobs

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"tweetink/internal/content"
	"tweetink/internal/logging"
	"tweetink/internal/metrics"
	"tweetink/internal/model"
	"tweetink/internal/render"
	"tweetink/internal/xclient"
)

type fakeTimeline struct {
	tweets []model.Tweet
	err    error
	gotN   int
}

func (f *fakeTimeline) UserTimeline(ctx context.Context, username string, count int) ([]model.Tweet, error) {
	f.gotN = count
	return f.tweets, f.err
}

type fakeMedia struct{ data []byte }

func (f fakeMedia) GetMedia(context.Context, string) ([]byte, error) { return f.data, nil }

type memSink struct {
	size image.Point
	got  *image.Paletted
}

func (s *memSink) Size() image.Point { return s.size }
func (s *memSink) Write(_ context.Context, img *image.Paletted) error {
	s.got = img
	return nil
}

func quiet(t *testing.T) {
	t.Helper()
	prev := logging.SetOutput(io.Discard)
	t.Cleanup(func() { logging.SetOutput(prev) })
}

func TestRenderOnceTextTweet(t *testing.T) {
	quiet(t)
	tl := &fakeTimeline{tweets: []model.Tweet{
		{ID: "1", Text: "hello world", RetweetCount: 12500, LikeCount: 3},
	}}
	sink := &memSink{size: image.Pt(400, 300)}
	before := testutil.ToFloat64(metrics.RenderVariants.WithLabelValues("text"))

	err := RenderOnce(context.Background(), Deps{Timeline: tl, Sink: sink}, RenderOptions{Username: "unsplash", Nth: 1, Layout: render.DefaultOptions()})
	if err != nil {
		t.Fatal(err)
	}
	if tl.gotN != minTimelineCount {
		t.Fatalf("requested %d tweets", tl.gotN)
	}
	if sink.got == nil || sink.got.Bounds() != image.Rect(0, 0, 400, 300) {
		t.Fatalf("sink got %v", sink.got)
	}
	// body text is black on white, banner divider spans the width
	black := 0
	for x := 0; x < 400; x++ {
		if sink.got.ColorIndexAt(x, 260) == render.IndexBlack {
			black++
		}
	}
	if black != 400 {
		t.Fatalf("divider has %d black pixels", black)
	}
	// the sink gets exactly what the compositor draws for the picked tweet
	l, err := render.NewLayout(render.DefaultOptions(), sink.size)
	if err != nil {
		t.Fatal(err)
	}
	want, err := render.NewCompositor(l, nil).Compose(context.Background(), model.Content{Text: "hello world", RetweetCount: 12500, LikeCount: 3}, "unsplash")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(sink.got.Pix, want.Pix) {
		t.Fatal("canvas differs from the composed tweet")
	}
	if got := testutil.ToFloat64(metrics.RenderVariants.WithLabelValues("text")) - before; got != 1 {
		t.Fatalf("text variant counted %v times", got)
	}
}

func TestRenderOncePhotoTweet(t *testing.T) {
	quiet(t)
	src := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	tl := &fakeTimeline{tweets: []model.Tweet{
		{ID: "1", Text: "skip"},
		{ID: "2", Text: "pic", Media: []model.Media{{Kind: model.MediaPhoto, URL: "https://pbs.example/a.png"}}},
	}}
	sink := &memSink{size: image.Pt(400, 300)}
	err := RenderOnce(context.Background(), Deps{Timeline: tl, Media: fakeMedia{data: buf.Bytes()}, Sink: sink}, RenderOptions{Username: "nasa", Nth: 2})
	if err != nil {
		t.Fatal(err)
	}
	if idx := sink.got.ColorIndexAt(200, 100); idx != render.IndexWhite {
		t.Fatalf("photo body pixel index %d", idx)
	}
}

func TestRenderOnceRaisesCountToNth(t *testing.T) {
	quiet(t)
	tl := &fakeTimeline{}
	err := RenderOnce(context.Background(), Deps{Timeline: tl, Sink: &memSink{size: image.Pt(400, 300)}}, RenderOptions{Username: "u", Nth: 50})
	if !errors.Is(err, content.ErrIndexOutOfRange) {
		t.Fatalf("want out of range, got %v", err)
	}
	if tl.gotN != 50 {
		t.Fatalf("requested %d tweets", tl.gotN)
	}
}

func TestRenderOnceStopsOnFetchError(t *testing.T) {
	quiet(t)
	tl := &fakeTimeline{err: &xclient.APIError{StatusCode: 401, Message: "Unauthorized"}}
	sink := &memSink{size: image.Pt(400, 300)}
	before := testutil.ToFloat64(metrics.RenderErrors.WithLabelValues("fetch"))
	err := RenderOnce(context.Background(), Deps{Timeline: tl, Sink: sink}, RenderOptions{Username: "u", Nth: 1})
	if !errors.Is(err, xclient.ErrFetch) || !strings.Contains(err.Error(), "@u") {
		t.Fatalf("got %v", err)
	}
	if sink.got != nil {
		t.Fatal("sink must not be written after a failed fetch")
	}
	if got := testutil.ToFloat64(metrics.RenderErrors.WithLabelValues("fetch")) - before; got != 1 {
		t.Fatalf("fetch errors counted %v", got)
	}
}
