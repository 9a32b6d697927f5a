package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/textwarden/anchor/internal/geometry"
	"github.com/textwarden/anchor/internal/resolve"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// AnnotateOptions maps result geometry onto screenshot pixels.
type AnnotateOptions struct {
	// DisplayHeight converts the result's render coordinates (Y-up) back
	// into image coordinates (Y-down).
	DisplayHeight float64

	// Scale converts screen points to image pixels (2.0 on Retina captures).
	// Zero means 1.0.
	Scale float64

	// UnderlineThickness in points. Zero means the engine default.
	UnderlineThickness float64
}

// AnnotateResult draws a resolution result onto a screenshot: one underline
// bar per line rectangle, an outline around the primary anchor, the hit-test
// region, and the strategy/confidence label. Used to eyeball what the
// engine resolved against a real capture.
func AnnotateResult(img image.Image, res resolve.GeometryResult, opts AnnotateOptions) (image.Image, error) {
	if res.Unavailable {
		return nil, fmt.Errorf("cannot annotate an unavailable result (reason: %s)", res.Reason)
	}
	if opts.DisplayHeight <= 0 {
		return nil, fmt.Errorf("display height required to map render coordinates")
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1.0
	}
	thickness := opts.UnderlineThickness
	if thickness <= 0 {
		thickness = resolve.DefaultUnderlineThickness
	}

	rgba := imageToRGBA(img)

	underline := color.RGBA{R: 220, G: 50, B: 47, A: 255}
	anchor := color.RGBA{R: 38, G: 139, B: 210, A: 255}
	hit := color.RGBA{R: 133, G: 153, B: 0, A: 120}
	textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor := color.RGBA{R: 0, G: 0, B: 0, A: 200}

	for _, line := range res.AllLineBounds {
		r := toImageRect(line, opts.DisplayHeight, scale)
		// Underline bar along the bottom edge of the line.
		fillRect(rgba, r.Min.X, r.Max.Y-int(thickness*scale), r.Max.X, r.Max.Y, underline)
	}

	primary := toImageRect(res.BoundsPrimary, opts.DisplayHeight, scale)
	strokeRect(rgba, primary, anchor)

	hitRect := toImageRect(res.HitTest, opts.DisplayHeight, scale)
	strokeRect(rgba, hitRect, hit)

	label := fmt.Sprintf("%s %.2f", res.Strategy, res.Confidence)
	drawLabel(rgba, label, primary.Min.X, primary.Min.Y-4, textColor, outlineColor)

	return rgba, nil
}

// toImageRect flips a render-space rect back to top-left-origin image space
// and scales points to pixels.
func toImageRect(r geometry.Rect, displayHeight, scale float64) image.Rectangle {
	q := geometry.ToQueryCoordinates(r, displayHeight)
	return image.Rect(
		int(q.X*scale),
		int(q.Y*scale),
		int(q.MaxX()*scale),
		int(q.MaxY()*scale),
	)
}

func imageToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// fillRect fills the clamped rectangle with c.
func fillRect(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	r := image.Rect(x1, y1, x2, y2).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// strokeRect draws a one-pixel rectangle outline, clamped to the image.
func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawLabel draws text with a dark outline for visibility on any background.
func drawLabel(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(img, text, x+dx, y+dy, outlineColor)
		}
	}
	drawString(img, text, x, y, textColor)
}

func drawString(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(text)
}
