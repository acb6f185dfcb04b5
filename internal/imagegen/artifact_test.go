package imagegen

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"imagegenie/internal/domain"
)

var fixtureColor = color.NRGBA{R: 200, G: 100, B: 50, A: 255}

func solidPNGBase64(t *testing.T, w, h int) string {
	t.Helper()
	return encodePNGBase64(t, w, h, fixtureColor)
}

func encodePNGBase64(t *testing.T, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestNewGeneratedImageDecodesBitmap(t *testing.T) {
	b64 := solidPNGBase64(t, 8, 6)
	img, err := NewGeneratedImage(ImageReply{Created: 123, B64JSON: b64, RevisedPrompt: "owl"})
	if err != nil {
		t.Fatalf("NewGeneratedImage error: %v", err)
	}
	if img.Width() != 8 || img.Height() != 6 {
		t.Fatalf("size = %dx%d, want 8x6", img.Width(), img.Height())
	}
	if img.SourceFormat != "png" {
		t.Fatalf("SourceFormat = %q", img.SourceFormat)
	}
	if img.Filename() != "123.jpg" {
		t.Fatalf("Filename = %q", img.Filename())
	}
	raw, _ := base64.StdEncoding.DecodeString(b64)
	if !bytes.Equal(img.Bitmap, raw) {
		t.Fatal("Bitmap does not hold the decoded payload")
	}
	got := img.Image.RGBAAt(3, 2)
	want := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	if got != want {
		t.Fatalf("pixel = %v, want %v", got, want)
	}
}

func TestNewGeneratedImageDropsAlpha(t *testing.T) {
	b64 := encodePNGBase64(t, 2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 64})
	img, err := NewGeneratedImage(ImageReply{Created: 1, B64JSON: b64})
	if err != nil {
		t.Fatalf("NewGeneratedImage error: %v", err)
	}
	got := img.Image.RGBAAt(0, 0)
	if got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("pixel = %v, want opaque straight colour", got)
	}
}

func TestNewGeneratedImageRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"bad base64": "%%%not-base64",
		"not image":  base64.StdEncoding.EncodeToString([]byte("hello world")),
	}
	for name, payload := range cases {
		if _, err := NewGeneratedImage(ImageReply{Created: 1, B64JSON: payload}); !errors.Is(err, domain.ErrMalformedResponse) {
			t.Fatalf("%s: expected ErrMalformedResponse, got %v", name, err)
		}
	}
}

func TestGeneratedImageSaveRoundTrip(t *testing.T) {
	img, err := NewGeneratedImage(ImageReply{Created: 123, B64JSON: solidPNGBase64(t, 16, 16)})
	if err != nil {
		t.Fatalf("NewGeneratedImage error: %v", err)
	}
	path := filepath.Join(t.TempDir(), img.Filename())
	if err := img.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	// overwrite is unconditional
	if err := img.Save(path); err != nil {
		t.Fatalf("second Save error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open saved file: %v", err)
	}
	defer f.Close()
	reloaded, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("decode saved jpeg: %v", err)
	}
	if reloaded.Bounds().Dx() != 16 || reloaded.Bounds().Dy() != 16 {
		t.Fatalf("reloaded bounds = %v", reloaded.Bounds())
	}
	r, g, b, _ := reloaded.At(8, 8).RGBA()
	assertNear(t, "red", r>>8, 200)
	assertNear(t, "green", g>>8, 100)
	assertNear(t, "blue", b>>8, 50)
}

func TestGeneratedImageSaveMissingDirectory(t *testing.T) {
	img, err := NewGeneratedImage(ImageReply{Created: 5, B64JSON: solidPNGBase64(t, 2, 2)})
	if err != nil {
		t.Fatalf("NewGeneratedImage error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "missing", "5.jpg")
	if err := img.Save(path); !errors.Is(err, domain.ErrIOFailure) {
		t.Fatalf("expected ErrIOFailure, got %v", err)
	}
}

func assertNear(t *testing.T, channel string, got uint32, want uint32) {
	t.Helper()
	diff := int(got) - int(want)
	if diff < -8 || diff > 8 {
		t.Fatalf("%s = %d, want about %d", channel, got, want)
	}
}
