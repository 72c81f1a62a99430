package output

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tweetink/internal/xclient"
)

const (
	// DefaultQuote0URL is the Quote/0 open API host.
	DefaultQuote0URL = "https://dot.mindreset.tech"

	quote0ImageEndpoint = "/api/open/image"
	quote0MaxBody       = 4 << 20
)

// Quote0Size is the Quote/0 panel resolution.
var Quote0Size = image.Pt(296, 152)

var (
	ErrQuote0Token  = errors.New("quote0: API token is required")
	ErrQuote0Device = errors.New("quote0: deviceId is required")
)

// APIError captures non-2xx responses. The body may be JSON or plain text.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RawBody    []byte
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("quote0: API error (status=")
	b.WriteString(strconv.Itoa(e.StatusCode))
	if e.Code != "" {
		b.WriteString(", code=")
		b.WriteString(e.Code)
	}
	b.WriteString(")")
	if m := strings.TrimSpace(e.Message); m != "" {
		b.WriteString(": ")
		b.WriteString(m)
	}
	return b.String()
}

func buildAPIError(status int, body []byte) error {
	trimmed := strings.TrimSpace(string(body))
	qe := &APIError{StatusCode: status, RawBody: body, Message: trimmed}
	if !strings.HasPrefix(trimmed, "{") {
		return qe
	}
	var obj map[string]any
	if json.Unmarshal(body, &obj) != nil {
		return qe
	}
	if v, ok := obj["message"].(string); ok && v != "" {
		qe.Message = v
	} else if v, ok := obj["error"].(string); ok && v != "" {
		qe.Message = v
	}
	switch v := obj["code"].(type) {
	case string:
		qe.Code = strings.TrimSpace(v)
	case float64:
		qe.Code = strconv.Itoa(int(v))
	}
	return qe
}

type quote0Request struct {
	RefreshNow bool   `json:"refreshNow"`
	DeviceID   string `json:"deviceId"`
	Image      string `json:"image"`
	Border     int    `json:"border,omitempty"`
	DitherType string `json:"ditherType,omitempty"`
}

// Quote0 uploads canvases to a MindReset Quote/0 through its image API.
// The panel edge is white unless Border is dark.
type Quote0 struct {
	Border color.Color

	baseURL string
	token   string
	device  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewQuote0 builds a sink. Uploads are limited to 1 per second, tunable with
// QUOTE0_RPS and QUOTE0_BURST.
func NewQuote0(token, device, baseURL string, hc *http.Client) (*Quote0, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrQuote0Token
	}
	device = strings.TrimSpace(device)
	if device == "" {
		return nil, ErrQuote0Device
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultQuote0URL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Quote0{
		baseURL: baseURL,
		token:   token,
		device:  device,
		http:    hc,
		limiter: xclient.NewLimiter("QUOTE0", 1, 1),
	}, nil
}

func (q *Quote0) Size() image.Point { return Quote0Size }

// quote0Border is 1 (black) for dark colours, else 0 (white).
func quote0Border(c color.Color) int {
	if c == nil {
		return 0
	}
	y := color.GrayModel.Convert(c).(color.Gray).Y
	if y < 0x80 {
		return 1
	}
	return 0
}

// Write encodes img as PNG and asks the device to refresh now. The canvas is
// already quantized, so server side dithering is disabled.
func (q *Quote0) Write(ctx context.Context, img *image.Paletted) error {
	if !img.Bounds().Size().Eq(Quote0Size) {
		return fmt.Errorf("quote0: image %v, want %v", img.Bounds().Size(), Quote0Size)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("quote0: encode: %w", err)
	}
	body, err := json.Marshal(quote0Request{
		RefreshNow: true,
		DeviceID:   q.device,
		Image:      base64.StdEncoding.EncodeToString(buf.Bytes()),
		Border:     quote0Border(q.Border),
		DitherType: "NONE",
	})
	if err != nil {
		return fmt.Errorf("quote0: encode request: %w", err)
	}
	if err := q.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.baseURL+quote0ImageEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("quote0: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+q.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "tweetink")
	resp, err := q.http.Do(req)
	if err != nil {
		return fmt.Errorf("quote0: execute request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, quote0MaxBody))
	if err != nil {
		return fmt.Errorf("quote0: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return buildAPIError(resp.StatusCode, raw)
	}
	return nil
}
