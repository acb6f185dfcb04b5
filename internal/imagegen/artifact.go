package imagegen

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"strconv"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"imagegenie/internal/domain"
)

// JPEGQuality is fixed; Save exposes no encoder options.
const JPEGQuality = 75

// GeneratedImage is a decoded provider reply. Created is its identity.
type GeneratedImage struct {
	Created       int64
	B64JSON       string
	Bitmap        []byte
	Image         *image.RGBA
	RevisedPrompt string
	SourceFormat  string
	// Path is set once the pipeline has written the file.
	Path string
}

// NewGeneratedImage decodes a validated reply into an opaque RGB bitmap.
func NewGeneratedImage(reply ImageReply) (*GeneratedImage, error) {
	bitmap, err := base64.StdEncoding.DecodeString(reply.B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: decode b64_json: %w", domain.ErrMalformedResponse, err)
	}
	src, format, err := image.Decode(bytes.NewReader(bitmap))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", domain.ErrMalformedResponse, err)
	}
	return &GeneratedImage{
		Created:       reply.Created,
		B64JSON:       reply.B64JSON,
		Bitmap:        bitmap,
		Image:         toRGB(src),
		RevisedPrompt: reply.RevisedPrompt,
		SourceFormat:  format,
	}, nil
}

// toRGB copies the straight (non-premultiplied) colour channels and forces
// alpha to opaque, so transparency is dropped rather than blended.
func toRGB(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}

func (g *GeneratedImage) Width() int { return g.Image.Bounds().Dx() }

func (g *GeneratedImage) Height() int { return g.Image.Bounds().Dy() }

// Filename is the on-disk name for this image.
func (g *GeneratedImage) Filename() string {
	return strconv.FormatInt(g.Created, 10) + ".jpg"
}

// Save writes the normalised bitmap as JPEG, replacing any existing file.
// The parent directory must already exist.
func (g *GeneratedImage) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIOFailure, err)
	}
	if err := jpeg.Encode(f, g.Image, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: encode jpeg: %w", domain.ErrIOFailure, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIOFailure, err)
	}
	return nil
}
