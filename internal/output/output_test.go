package output

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

var testPalette = color.Palette{color.White, color.Black, color.RGBA{255, 0, 0, 255}}

func canvas(w, h int) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, w, h), testPalette)
	img.SetColorIndex(1, 1, 2)
	return img
}

func TestFileSinkWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "debug.png")
	s := FileSink{Path: path, Width: 400, Height: 300}
	if s.Size() != image.Pt(400, 300) {
		t.Fatalf("size %v", s.Size())
	}
	if err := s.Write(context.Background(), canvas(400, 300)); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Fatalf("bounds %v", img.Bounds())
	}
	if r, g, b, _ := img.At(1, 1).RGBA(); r != 0xffff || g != 0 || b != 0 {
		t.Fatalf("pixel (1,1) lost its colour: %v", img.At(1, 1))
	}
}

type fakeDisplay struct {
	calls  []string
	img    image.Image
	border color.Color
}

func (f *fakeDisplay) Bounds() image.Rectangle { return image.Rect(0, 0, 400, 300) }
func (f *fakeDisplay) SetImage(img image.Image) error {
	f.calls = append(f.calls, "image")
	f.img = img
	return nil
}
func (f *fakeDisplay) SetBorder(c color.Color) {
	f.calls = append(f.calls, "border")
	f.border = c
}
func (f *fakeDisplay) Show(context.Context) error {
	f.calls = append(f.calls, "show")
	return nil
}

func TestDisplaySinkOrder(t *testing.T) {
	d := &fakeDisplay{}
	s := DisplaySink{Display: d}
	if s.Size() != image.Pt(400, 300) {
		t.Fatalf("size %v", s.Size())
	}
	img := canvas(400, 300)
	if err := s.Write(context.Background(), img); err != nil {
		t.Fatal(err)
	}
	if len(d.calls) != 3 || d.calls[0] != "image" || d.calls[1] != "border" || d.calls[2] != "show" {
		t.Fatalf("calls %v", d.calls)
	}
	if d.img != img || d.border != color.White {
		t.Fatalf("unexpected image or border %v", d.border)
	}
}

func TestDisplaySinkConfiguredBorder(t *testing.T) {
	border, err := ParseBorder("Black")
	if err != nil {
		t.Fatal(err)
	}
	d := &fakeDisplay{}
	if err := (DisplaySink{Display: d, Border: border}).Write(context.Background(), canvas(400, 300)); err != nil {
		t.Fatal(err)
	}
	if d.border != color.Black {
		t.Fatalf("border %v", d.border)
	}
	if _, err := ParseBorder("green"); err == nil {
		t.Fatal("expected error")
	}
}

func TestQuote0Border(t *testing.T) {
	red, _ := ParseBorder("red")
	for _, c := range []struct {
		in   color.Color
		want int
	}{
		{nil, 0},
		{color.White, 0},
		{color.Black, 1},
		{red, 1},
	} {
		if got := quote0Border(c.in); got != c.want {
			t.Errorf("quote0Border(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestQuote0Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != quote0ImageEndpoint || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer dot_app_x" {
			t.Errorf("auth header %q", got)
		}
		var req quote0Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.DeviceID != "ABC123" || !req.RefreshNow || req.DitherType != "NONE" || req.Border != 1 {
			t.Errorf("request %+v", req)
		}
		raw, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			t.Errorf("image not base64: %v", err)
		}
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			t.Errorf("image not png: %v", err)
		} else if img.Bounds().Size() != Quote0Size {
			t.Errorf("image size %v", img.Bounds().Size())
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"code":0,"message":"ok"}`)
	}))
	defer srv.Close()

	q, err := NewQuote0("dot_app_x", "ABC123", srv.URL+"/", nil)
	if err != nil {
		t.Fatal(err)
	}
	q.Border = color.Black
	if err := q.Write(context.Background(), canvas(296, 152)); err != nil {
		t.Fatal(err)
	}
}

func TestAPIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"code":403,"message":"device not bound"}`)
	}))
	defer srv.Close()

	q, err := NewQuote0("dot_app_x", "ABC123", srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = q.Write(context.Background(), canvas(296, 152))
	var qe *APIError
	if !errors.As(err, &qe) {
		t.Fatalf("want APIError, got %T %v", err, err)
	}
	if qe.StatusCode != 403 || qe.Code != "403" || qe.Message != "device not bound" {
		t.Fatalf("error %+v", qe)
	}
}

func TestQuote0RejectsWrongSizeAndMissingCredentials(t *testing.T) {
	if _, err := NewQuote0("", "dev", "", nil); !errors.Is(err, ErrQuote0Token) {
		t.Fatalf("got %v", err)
	}
	if _, err := NewQuote0("tok", " ", "", nil); !errors.Is(err, ErrQuote0Device) {
		t.Fatalf("got %v", err)
	}
	q, err := NewQuote0("tok", "dev", "http://127.0.0.1:1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := q.Write(context.Background(), canvas(400, 300)); err == nil {
		t.Fatal("expected size error")
	}
}
