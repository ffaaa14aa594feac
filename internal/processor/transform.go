package processor

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	contrastFactor   = 1.2
	sharpnessFactor  = 1.1
	brightnessFactor = 1.05
	jpegQuality      = 90
)

// smoothKernel is the 3x3 smoothing filter used as the sharpness baseline.
var smoothKernel = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// EnhanceImage flattens img to opaque RGB and applies the contrast, sharpness
// and brightness adjustments in that order.
func EnhanceImage(img image.Image) *image.NRGBA {
	out := flatten(img)
	out = adjustContrast(out, contrastFactor)
	out = adjustSharpness(out, sharpnessFactor)
	out = adjustBrightness(out, brightnessFactor)
	return out
}

// EnhanceFile decodes the image at srcPath, enhances it and writes it to dst
// as a JPEG.
func EnhanceFile(srcPath string, dst io.Writer) error {
	img, err := decodeFile(srcPath)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	if err := imaging.Encode(dst, EnhanceImage(img), imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("encode image: %w", err)
	}
	return nil
}

// decodeFile converts decoder panics on malformed input into errors.
func decodeFile(path string) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("decoder panic: %v", r)
		}
	}()
	return imaging.Open(path)
}

func flatten(img image.Image) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.A = 255
		return c
	})
}

// adjustContrast blends against a uniform grey at the image's mean luminance.
func adjustContrast(img *image.NRGBA, factor float64) *image.NRGBA {
	hist := imaging.Histogram(img)
	var mean float64
	for i, p := range hist {
		mean += float64(i) * p
	}
	grey := clamp(mean + 0.5)

	b := img.Bounds()
	degenerate := imaging.New(b.Dx(), b.Dy(), color.NRGBA{R: grey, G: grey, B: grey, A: 255})
	return blend(degenerate, img, factor)
}

// adjustSharpness blends against a smoothed copy of the image. Border pixels
// are not smoothed, so they pass through unchanged.
func adjustSharpness(img *image.NRGBA, factor float64) *image.NRGBA {
	degenerate := imaging.Convolve3x3(img, smoothKernel, &imaging.ConvolveOptions{Normalize: true})
	copyBorder(degenerate, img)
	return blend(degenerate, img, factor)
}

// copyBorder overwrites the outermost rows and columns of dst with src. Both
// images must have the same size.
func copyBorder(dst, src *image.NRGBA) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	copyPixel := func(x, y int) {
		si := src.PixOffset(b.Min.X+x, b.Min.Y+y)
		di := dst.PixOffset(dst.Rect.Min.X+x, dst.Rect.Min.Y+y)
		copy(dst.Pix[di:di+4], src.Pix[si:si+4])
	}
	for x := 0; x < w; x++ {
		copyPixel(x, 0)
		copyPixel(x, h-1)
	}
	for y := 0; y < h; y++ {
		copyPixel(0, y)
		copyPixel(w-1, y)
	}
}

// adjustBrightness blends against black.
func adjustBrightness(img *image.NRGBA, factor float64) *image.NRGBA {
	b := img.Bounds()
	degenerate := imaging.New(b.Dx(), b.Dy(), color.NRGBA{A: 255})
	return blend(degenerate, img, factor)
}

// blend computes degenerate + factor*(img - degenerate) per color channel.
// Both images must share bounds; the result is opaque.
func blend(degenerate, img *image.NRGBA, factor float64) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := img.PixOffset(b.Min.X, b.Min.Y+y)
		di := degenerate.PixOffset(degenerate.Rect.Min.X, degenerate.Rect.Min.Y+y)
		oi := dst.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			for c := 0; c < 3; c++ {
				d := float64(degenerate.Pix[di+c])
				v := float64(img.Pix[si+c])
				dst.Pix[oi+c] = clamp(d + factor*(v-d))
			}
			dst.Pix[oi+3] = 255
			si += 4
			di += 4
			oi += 4
		}
	}
	return dst
}

// clamp truncates toward zero after clipping to [0, 255].
func clamp(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
