package editor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
)

// resizer implements the smartcrop resizer on top of imaging.
type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}

// FindFrame returns the most interesting region of img with the aspect ratio of a
// w×h viewport.
func FindFrame(img image.Image, w, h int) (image.Rectangle, error) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid viewport %dx%d", w, h)
	}
	analyzer := smartcrop.NewAnalyzer(&resizer{resampler: imaging.Lanczos})
	crop, err := analyzer.FindBestCrop(img, w, h)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("finding best crop: %w", err)
	}
	return crop, nil
}
