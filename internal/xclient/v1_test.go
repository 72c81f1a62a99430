package xclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tweetink/internal/model"
)

func TestUserTimelineV1SignsAndFilters(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "OAuth ") || !strings.Contains(auth, "oauth_signature=") {
			t.Errorf("missing OAuth header: %q", auth)
		}
		if r.URL.Path != "/statuses/user_timeline.json" {
			t.Errorf("path=%s", r.URL.Path)
		}
		q := r.URL.Query()
		for k, want := range map[string]string{
			"screen_name":     "unsplash",
			"exclude_replies": "true",
			"include_rts":     "false",
			"tweet_mode":      "extended",
			"count":           "20",
		} {
			if q.Get(k) != want {
				t.Errorf("%s=%q want %q", k, q.Get(k), want)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id_str":"1","created_at":"Mon Jan 02 15:04:05 +0000 2006","full_text":"a video","retweet_count":5,"favorite_count":7,
			 "entities":{"media":[{"type":"photo","media_url_https":"https://pbs.example/thumb.jpg"}]},
			 "extended_entities":{"media":[{"type":"video","media_url_https":"https://pbs.example/thumb.jpg"}]}},
			{"id_str":"2","created_at":"Mon Jan 02 15:04:05 +0000 2006","full_text":"a photo","retweet_count":0,"favorite_count":0,
			 "entities":{"media":[{"type":"photo","media_url":"http://pbs.example/p.jpg","media_url_https":"https://pbs.example/p.jpg"}]}},
			{"id_str":"3","created_at":"Mon Jan 02 15:04:05 +0000 2006","text":"legacy text"}
		]`))
	}))
	defer ts.Close()

	v1 := NewV1Client(newTestClient(ts), "ck", "cs", "at", "as")
	v1.BaseURL = ts.URL
	tweets, err := v1.UserTimeline(context.Background(), "unsplash", 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(tweets) != 3 {
		t.Fatalf("got %d tweets", len(tweets))
	}
	if tweets[0].Media[0].Kind != model.MediaVideo {
		t.Fatalf("extended entities should win: %+v", tweets[0].Media)
	}
	if tweets[0].RetweetCount != 5 || tweets[0].LikeCount != 7 {
		t.Fatalf("counts: %+v", tweets[0])
	}
	if tweets[1].Media[0].URL != "https://pbs.example/p.jpg" {
		t.Fatalf("https url expected: %+v", tweets[1].Media)
	}
	if tweets[2].Text != "legacy text" || len(tweets[2].Media) != 0 {
		t.Fatalf("fallback text: %+v", tweets[2])
	}
	if tweets[0].CreatedAt.Year() != 2006 {
		t.Fatalf("created_at not parsed: %v", tweets[0].CreatedAt)
	}
}

// Reference request from the X developer docs, "Creating a signature".
func TestSignatureKnownVector(t *testing.T) {
	c := &V1Client{
		ConsumerSecret: "kAcSOqF21Fu85e7zjz7ZN2U4ZRhfV3WpwPAoE3Z7kBw",
		AccessSecret:   "LswwdoUaIvS8ltyTt5jkRh4J50vUPVVHtR2YPi5kE",
	}
	oauth := map[string]string{
		"oauth_consumer_key":     "xvz1evFS4wEEPTGEFPHBog",
		"oauth_nonce":            "kYjzVBB8Y0ZFabxSWbWovY3uYSQ2pTgmZeNu2VS4cg",
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        "1318622958",
		"oauth_token":            "370773112-GmHxMAgYyLbNEtIKZeRNFsMKPR9EyMZeS9weJAEb",
		"oauth_version":          "1.0",
	}
	query := map[string]string{
		"include_entities": "true",
		"status":           "Hello Ladies + Gentlemen, a signed OAuth request!",
	}
	got := c.signature("POST", "https://api.twitter.com/1.1/statuses/update.json", oauth, query)
	if got != "hCtSmYh+iHYCEqBWrE7C7hYmtUk=" {
		t.Fatalf("signature %q", got)
	}
}

func TestOAuthHeaderIsDeterministic(t *testing.T) {
	v1 := NewV1Client(NewHTTPClient(""), "ck", "cs", "at", "as")
	v1.nowFn = func() time.Time { return time.Unix(1318622958, 0) }
	v1.nonceFn = func() string { return "nonce" }
	sign := func() string {
		req, _ := http.NewRequest(http.MethodGet, "https://api.twitter.com/1.1/statuses/user_timeline.json?screen_name=a", nil)
		v1.oauth1Sign(req, map[string]string{"screen_name": "a"})
		return req.Header.Get("Authorization")
	}
	a, b := sign(), sign()
	if a != b {
		t.Fatalf("headers differ:\n%s\n%s", a, b)
	}
	if !strings.Contains(a, `oauth_timestamp="1318622958"`) || !strings.Contains(a, `oauth_nonce="nonce"`) {
		t.Fatalf("header %s", a)
	}
}
