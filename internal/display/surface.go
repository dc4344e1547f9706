package display

import (
	"image"
	"image/color"
	stddraw "image/draw"

	"golang.org/x/image/draw"
)

// Surface is the off-screen frame the UI composes into before presenting
type Surface struct {
	img *image.RGBA
}

// NewSurface creates a black surface of the given size
func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// RGBA exposes the backing image for presentation
func (s *Surface) RGBA() *image.RGBA {
	return s.img
}

// Bounds returns the surface rectangle
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Fill paints the whole surface with a solid color
func (s *Surface) Fill(c color.Color) {
	stddraw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, stddraw.Src)
}

// FillRect paints a rectangle with a solid color
func (s *Surface) FillRect(r image.Rectangle, c color.Color) {
	stddraw.Draw(s.img, r.Intersect(s.img.Bounds()), image.NewUniform(c), image.Point{}, stddraw.Src)
}

// scaler returns the interpolator for the smoothing flag. Smoothing only
// affects interpolation quality, never geometry.
func scaler(smooth bool) draw.Scaler {
	if smooth {
		return draw.CatmullRom
	}
	return draw.NearestNeighbor
}

// BlitContain scales src by the larger of the two axis ratios so it is
// fully visible inside r, centered and letterboxed.
func (s *Surface) BlitContain(r image.Rectangle, src image.Image, smooth bool) {
	if src == nil {
		return
	}
	s.blitCentered(r, src, smooth, true)
}

// BlitCover scales src by the smaller of the two axis ratios so it fills r
// completely, centered and cropped to r.
func (s *Surface) BlitCover(r image.Rectangle, src image.Image, smooth bool) {
	if src == nil {
		return
	}
	s.blitCentered(r, src, smooth, false)
}

func (s *Surface) blitCentered(r image.Rectangle, src image.Image, smooth, contain bool) {
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 || r.Dx() == 0 || r.Dy() == 0 {
		return
	}
	rw := float64(sb.Dx()) / float64(r.Dx())
	rh := float64(sb.Dy()) / float64(r.Dy())
	factor := rw
	if contain {
		if rh > factor {
			factor = rh
		}
	} else {
		if rh < factor {
			factor = rh
		}
	}
	w := int(float64(sb.Dx()) / factor)
	h := int(float64(sb.Dy()) / factor)
	dst := image.Rect(0, 0, w, h).Add(image.Point{
		X: r.Min.X + (r.Dx()-w)/2,
		Y: r.Min.Y + (r.Dy()-h)/2,
	})
	// Clip through a sub-image so a covering blit cannot paint outside r
	clip, ok := s.img.SubImage(r.Intersect(s.img.Bounds())).(*image.RGBA)
	if !ok {
		return
	}
	scaler(smooth).Scale(clip, dst, src, sb, draw.Over, nil)
}

// Rotate returns src rotated counterclockwise by the given multiple of 90
// degrees (0, 90, 180, 270). Other angles return src unchanged.
func Rotate(src image.Image, degrees int) image.Image {
	degrees = ((degrees % 360) + 360) % 360
	if degrees == 0 || src == nil {
		return src
	}
	sb := src.Bounds()
	var out *image.RGBA
	switch degrees {
	case 90, 270:
		out = image.NewRGBA(image.Rect(0, 0, sb.Dy(), sb.Dx()))
	case 180:
		out = image.NewRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()))
	default:
		return src
	}
	for y := sb.Min.Y; y < sb.Max.Y; y++ {
		for x := sb.Min.X; x < sb.Max.X; x++ {
			px := src.At(x, y)
			dx := x - sb.Min.X
			dy := y - sb.Min.Y
			switch degrees {
			case 90:
				out.Set(dy, sb.Dx()-1-dx, px)
			case 180:
				out.Set(sb.Dx()-1-dx, sb.Dy()-1-dy, px)
			case 270:
				out.Set(sb.Dy()-1-dy, dx, px)
			}
		}
	}
	return out
}
