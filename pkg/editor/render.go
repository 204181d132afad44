package editor

import (
	"image"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// interpolators maps configuration names to x/image/draw interpolators.
var interpolators = map[string]xdraw.Interpolator{
	"nearest":    xdraw.NearestNeighbor,
	"approx":     xdraw.ApproxBiLinear,
	"bilinear":   xdraw.BiLinear,
	"catmullrom": xdraw.CatmullRom,
}

// InterpolatorNames lists the accepted interpolation names.
func InterpolatorNames() []string {
	return []string{"nearest", "approx", "bilinear", "catmullrom"}
}

// LookupInterpolator returns the interpolator for name, falling back to bilinear.
func LookupInterpolator(name string) xdraw.Interpolator {
	if in, ok := interpolators[strings.ToLower(name)]; ok {
		return in
	}
	return xdraw.BiLinear
}

// Render clears dst and draws src at (t.OffsetX, t.OffsetY) scaled by t.Scale.
// The result depends only on src and t.
func Render(dst *image.RGBA, src image.Image, t Transform, interp xdraw.Transformer) {
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
	if src == nil || t.Scale <= 0 {
		return
	}
	if interp == nil {
		interp = xdraw.BiLinear
	}

	sb := src.Bounds()
	s2d := f64.Aff3{
		t.Scale, 0, t.OffsetX - float64(sb.Min.X)*t.Scale,
		0, t.Scale, t.OffsetY - float64(sb.Min.Y)*t.Scale,
	}
	interp.Transform(dst, s2d, src, sb, xdraw.Over, nil)
}
