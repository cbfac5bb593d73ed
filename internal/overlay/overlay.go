// Package overlay renders detection results onto an image. The CLI uses it
// to produce annotated copies of the input showing what the service found.
package overlay

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	moondream "github.com/moondream-ai/moondream-go"
)

var (
	boxColor   = color.NRGBA{0, 255, 0, 255}
	pointColor = color.NRGBA{255, 0, 0, 255}
)

// DrawBoxes returns a copy of img with each bounding box outlined.
func DrawBoxes(img image.Image, boxes []moondream.BoundingBox) image.Image {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()
	stroke := strokeWidth(w, h)

	for _, box := range boxes {
		drawBox(nrgba, box, w, h, boxColor, stroke)
	}
	return nrgba
}

// DrawPoints returns a copy of img with a crosshair at each point.
func DrawPoints(img image.Image, points []moondream.Point) image.Image {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()
	cross := int(math.Max(4, 0.01*float64(minInt(w, h)))) // ~1% of min side

	for _, pt := range points {
		px := int(clamp(pt.X, 0, 1)*float64(w) + 0.5)
		py := int(clamp(pt.Y, 0, 1)*float64(h) + 0.5)
		drawHLine(nrgba, py, px-cross, px+cross, pointColor)
		drawVLine(nrgba, px, py-cross, py+cross, pointColor)
	}
	return nrgba
}

// strokeWidth picks a line width of ~0.4% of the min side, at least 2px.
func strokeWidth(w, h int) int {
	return int(math.Max(2, 0.004*float64(minInt(w, h))))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func boxToPixels(box moondream.BoundingBox, w, h int) (int, int, int, int) {
	x0 := int(clamp(box.XMin, 0, 1)*float64(w) + 0.5)
	y0 := int(clamp(box.YMin, 0, 1)*float64(h) + 0.5)
	x1 := int(clamp(box.XMax, 0, 1)*float64(w) + 0.5)
	y1 := int(clamp(box.YMax, 0, 1)*float64(h) + 0.5)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}

func drawBox(img *image.NRGBA, box moondream.BoundingBox, w, h int, c color.NRGBA, stroke int) {
	x0, y0, x1, y1 := boxToPixels(box, w, h)
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1, c)
		drawHLine(img, y1-1-s, x0, x1, c)
		drawVLine(img, x0+s, y0, y1, c)
		drawVLine(img, x1-1-s, y0, y1, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
