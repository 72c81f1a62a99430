package xclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"tweetink/internal/model"
)

const defaultV1BaseURL = "https://api.twitter.com/1.1"

// V1Client reads X API v1.1 user timelines via OAuth 1.0a.
type V1Client struct {
	Base           *HTTPClient
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
	nowFn          func() time.Time
	nonceFn        func() string
}

func NewV1Client(base *HTTPClient, ck, cs, at, as string) *V1Client {
	return &V1Client{
		Base:           base,
		BaseURL:        defaultV1BaseURL,
		ConsumerKey:    ck,
		ConsumerSecret: cs,
		AccessToken:    at,
		AccessSecret:   as,
		nowFn:          time.Now,
		nonceFn:        func() string { return strconv.FormatInt(rand.Int63(), 36) },
	}
}

type v1Media struct {
	Type          string `json:"type"`
	MediaURL      string `json:"media_url"`
	MediaURLHTTPS string `json:"media_url_https"`
}

// UserTimeline implements TimelineSource over statuses/user_timeline.json.
// count is the number of statuses requested before the API drops replies
// and retweets, so fewer may come back.
func (c *V1Client) UserTimeline(ctx context.Context, username string, count int) ([]model.Tweet, error) {
	if username == "" {
		return nil, fmt.Errorf("xclient: empty username")
	}
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/statuses/user_timeline.json"
	params := map[string]string{
		"screen_name":     username,
		"count":           strconv.Itoa(clamp(count, 1, 200)),
		"exclude_replies": "true",
		"include_rts":     "false",
		"tweet_mode":      "extended",
	}
	reqURL := endpoint + "?" + encodeQuery(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	c.oauth1Sign(req, params)
	body, err := c.Base.do(ctx, "statuses/user_timeline", req)
	if err != nil {
		return nil, err
	}
	var raw []struct {
		IDStr         string `json:"id_str"`
		CreatedAt     string `json:"created_at"`
		FullText      string `json:"full_text"`
		Text          string `json:"text"`
		FavoriteCount int    `json:"favorite_count"`
		RetweetCount  int    `json:"retweet_count"`
		User          struct {
			IDStr string `json:"id_str"`
		} `json:"user"`
		Entities struct {
			Media []v1Media `json:"media"`
		} `json:"entities"`
		ExtendedEntities struct {
			Media []v1Media `json:"media"`
		} `json:"extended_entities"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode timeline: %w", ErrFetch, err)
	}
	out := make([]model.Tweet, 0, len(raw))
	for _, t := range raw {
		// Parse example: Mon Jan 02 15:04:05 -0700 2006
		ts, _ := time.Parse(time.RubyDate, t.CreatedAt)
		text := t.FullText
		if text == "" {
			text = t.Text
		}
		tw := model.Tweet{
			ID:           t.IDStr,
			AuthorID:     t.User.IDStr,
			Text:         text,
			CreatedAt:    ts,
			LikeCount:    t.FavoriteCount,
			RetweetCount: t.RetweetCount,
		}
		// extended_entities lists every attachment with its real type;
		// entities only ever shows the first one as a photo.
		media := t.ExtendedEntities.Media
		if len(media) == 0 {
			media = t.Entities.Media
		}
		for _, m := range media {
			u := m.MediaURLHTTPS
			if u == "" {
				u = m.MediaURL
			}
			tw.Media = append(tw.Media, model.Media{Kind: model.MediaType(m.Type), URL: u})
		}
		out = append(out, tw)
	}
	return out, nil
}

func (c *V1Client) oauth1Sign(req *http.Request, queryParams map[string]string) {
	oauth := map[string]string{
		"oauth_consumer_key":     c.ConsumerKey,
		"oauth_nonce":            c.nonceFn(),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(c.nowFn().Unix(), 10),
		"oauth_token":            c.AccessToken,
		"oauth_version":          "1.0",
	}
	oauth["oauth_signature"] = c.signature(req.Method, req.URL.Scheme+"://"+req.URL.Host+req.URL.Path, oauth, queryParams)
	hdrKeys := make([]string, 0, len(oauth))
	for k := range oauth {
		hdrKeys = append(hdrKeys, k)
	}
	sort.Strings(hdrKeys)
	authParts := make([]string, 0, len(hdrKeys))
	for _, k := range hdrKeys {
		authParts = append(authParts, fmt.Sprintf("%s=\"%s\"", rfc3986(k), rfc3986(oauth[k])))
	}
	req.Header.Set("Authorization", "OAuth "+strings.Join(authParts, ", "))
	req.Header.Set("Accept", "application/json")
}

// signature computes the HMAC-SHA1 OAuth 1.0a signature over the request
// method, base URL and the merged oauth and query parameters.
func (c *V1Client) signature(method, baseURL string, oauth, query map[string]string) string {
	all := make(map[string]string, len(oauth)+len(query))
	for k, v := range oauth {
		all[k] = v
	}
	for k, v := range query {
		all[k] = v
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	paramParts := make([]string, 0, len(keys))
	for _, k := range keys {
		paramParts = append(paramParts, rfc3986(k)+"="+rfc3986(all[k]))
	}
	base := strings.ToUpper(method) + "&" + rfc3986(baseURL) + "&" + rfc3986(strings.Join(paramParts, "&"))
	signingKey := rfc3986(c.ConsumerSecret) + "&" + rfc3986(c.AccessSecret)
	mac := hmac.New(sha1.New, []byte(signingKey))
	_, _ = mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func encodeQuery(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, rfc3986(k)+"="+rfc3986(m[k]))
	}
	return strings.Join(parts, "&")
}

// RFC 3986 percent-encoding for OAuth
func rfc3986(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(url.QueryEscape(s), "+", "%20"), "*", "%2A")
}
