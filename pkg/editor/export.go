package editor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/dixieflatline76/Recrop/pkg/blob"
)

// Export is the rasterized result of a confirmed session.
type Export struct {
	File    blob.File
	DataURL string
}

// encodeViewport encodes the viewport pixels in the given media type.
func encodeViewport(img image.Image, contentType string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch contentType {
	case "image/png":
		err = png.Encode(&buf, img)
	case "image/jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	default:
		return nil, fmt.Errorf("unsupported format: %s", contentType)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

// Export rasterizes the viewport exactly as last rendered and wraps it as a named file.
// The source image is not read again.
func (s *Session) Export() (Export, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Export{}, ErrClosed
	}
	data, err := encodeViewport(s.viewport, s.opts.ExportType)
	s.mu.Unlock()
	if err != nil {
		return Export{}, err
	}

	u := blob.ToDataURL(s.opts.ExportType, data)
	f, err := blob.FromDataURL(u, s.opts.ExportName)
	if err != nil {
		return Export{}, fmt.Errorf("wrapping export: %w", err)
	}
	return Export{File: f, DataURL: u}, nil
}
