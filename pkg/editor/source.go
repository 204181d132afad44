package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/dixieflatline76/Recrop/pkg/blob"
	_ "golang.org/x/image/bmp" // Register BMP, TIFF and WebP decoders
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode is returned when a selected file cannot be decoded as an image.
var ErrDecode = errors.New("decode failed")

// Source is a decoded image ready to be drawn.
type Source struct {
	Image   image.Image
	Width   int
	Height  int
	DataURL string
}

// NewSource wraps an already decoded image.
func NewSource(img image.Image) *Source {
	b := img.Bounds()
	return &Source{Image: img, Width: b.Dx(), Height: b.Dy()}
}

// DecodeFile reads f as a data URL and decodes the payload, applying EXIF orientation.
func DecodeFile(ctx context.Context, f blob.File) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u := blob.ReadAsDataURL(f)
	_, data, err := blob.ParseDataURL(u)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, f.Name, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, f.Name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s: empty image", ErrDecode, f.Name)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := NewSource(img)
	src.DataURL = u
	return src, nil
}

// Decoder decodes selected files into drawable sources.
type Decoder interface {
	Decode(ctx context.Context, f blob.File) (*Source, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx context.Context, f blob.File) (*Source, error)

// Decode calls fn(ctx, f).
func (fn DecoderFunc) Decode(ctx context.Context, f blob.File) (*Source, error) {
	return fn(ctx, f)
}

// FileDecoder is the default Decoder.
var FileDecoder Decoder = DecoderFunc(DecodeFile)
