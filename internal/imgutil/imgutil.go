// Package imgutil prepares local images for the Moondream API and handles
// the image output of the bundled CLI. The client itself only accepts URLs
// and data URIs; this package builds those data URIs from files on disk.
package imgutil

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	moondream "github.com/moondream-ai/moondream-go"
)

// LoadImage loads an image from a file path with WebP support.
func LoadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if img, err := webp.Decode(f); err == nil {
		return img, nil
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// DataURI encodes an image as a base64 data URI suitable for the image_url
// request field. When maxDim > 0 the image is downscaled so its long side
// does not exceed maxDim. Supported formats are jpg, png and webp.
func DataURI(img image.Image, format string, maxDim, quality int) (string, error) {
	if maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > maxDim || h > maxDim {
			if w >= h {
				img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
			}
		}
	}

	var buf bytes.Buffer
	var mime string
	switch strings.ToLower(format) {
	case "png":
		mime = "image/png"
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return "", err
		}
	case "webp":
		mime = "image/webp"
		if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return "", err
		}
	default: // jpg
		mime = "image/jpeg"
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return "", err
		}
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// FileDataURI loads a file and encodes it as a data URI in one step.
func FileDataURI(path, format string, maxDim, quality int) (string, error) {
	img, err := LoadImage(path)
	if err != nil {
		return "", err
	}
	return DataURI(img, format, maxDim, quality)
}

// CropToBox crops an image to the given normalized bounding box. When
// targetWidth and targetHeight are positive the crop is additionally resized
// to exactly those dimensions.
func CropToBox(img image.Image, box moondream.BoundingBox, targetWidth, targetHeight int) (image.Image, error) {
	bounds := img.Bounds()
	fw, fh := float64(bounds.Dx()), float64(bounds.Dy())

	x0 := int(clamp(box.XMin, 0, 1)*fw + 0.5)
	y0 := int(clamp(box.YMin, 0, 1)*fh + 0.5)
	x1 := int(clamp(box.XMax, 0, 1)*fw + 0.5)
	y1 := int(clamp(box.YMax, 0, 1)*fh + 0.5)

	rect := image.Rect(x0, y0, x1, y1).Intersect(bounds)
	if rect.Empty() {
		return nil, fmt.Errorf("empty crop rectangle")
	}

	cropped := imaging.Crop(img, rect)

	if targetWidth > 0 && targetHeight > 0 {
		cropped = imaging.Fill(cropped, targetWidth, targetHeight, imaging.Center, imaging.Lanczos)
	}

	return cropped, nil
}

// SaveImage saves an image to a file with the specified format and quality.
func SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		return webp.Encode(f, img, opts)
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
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
