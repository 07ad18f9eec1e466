package artwork

import (
	"image"
	"image/draw"
	"io"

	"github.com/disintegration/imaging"
)

// ColorSpace tags the pixel layout of a normalized image
type ColorSpace int

const (
	RGB ColorSpace = iota
	Greyscale
)

func (c ColorSpace) String() string {
	if c == Greyscale {
		return "greyscale"
	}
	return "rgb"
}

// Image is an opaque 8-bit bitmap ready for embedding.
// Pixels is an *image.RGBA with every alpha at 255, or an *image.Gray.
type Image struct {
	Pixels     image.Image
	ColorSpace ColorSpace
}

// Bounds returns the pixel bounds of the image
func (i *Image) Bounds() image.Rectangle {
	return i.Pixels.Bounds()
}

// EncodePNG writes the image as a PNG without an alpha channel
func (i *Image) EncodePNG(w io.Writer) error {
	return imaging.Encode(w, i.Pixels, imaging.PNG)
}

// Normalize removes any alpha channel by blending each pixel onto white:
//
//	c' = (1 - a)*255 + a*c, a = alpha/255
//
// Opaque input passes through, so Normalize is idempotent.
// Grey images with alpha come out as greyscale.
func Normalize(src image.Image) *Image {
	switch img := src.(type) {
	case *image.Gray:
		return &Image{Pixels: img, ColorSpace: Greyscale}
	case *image.Gray16:
		return &Image{Pixels: toGray(img), ColorSpace: Greyscale}
	case *image.RGBA:
		if img.Opaque() {
			return &Image{Pixels: img, ColorSpace: RGB}
		}
	}

	if isOpaque(src) {
		return &Image{Pixels: toRGBA(src), ColorSpace: RGB}
	}

	nrgba := toNRGBA(src)
	if isGrey(nrgba) {
		return &Image{Pixels: flattenGrey(nrgba), ColorSpace: Greyscale}
	}
	return &Image{Pixels: flattenRGB(nrgba), ColorSpace: RGB}
}

func blend(c, a uint8) uint8 {
	alpha := float64(a) / 255.0
	return uint8((1.0-alpha)*255.0 + alpha*float64(c))
}

func flattenRGB(src *image.NRGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		s := src.Pix[(y-b.Min.Y)*src.Stride:]
		d := dst.Pix[(y-b.Min.Y)*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := s[x*4], s[x*4+1], s[x*4+2], s[x*4+3]
			d[x*4] = blend(r, a)
			d[x*4+1] = blend(g, a)
			d[x*4+2] = blend(bl, a)
			d[x*4+3] = 0xff
		}
	}
	return dst
}

func flattenGrey(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		s := src.Pix[(y-b.Min.Y)*src.Stride:]
		d := dst.Pix[(y-b.Min.Y)*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			d[x] = blend(s[x*4], s[x*4+3])
		}
	}
	return dst
}

// isGrey reports whether every pixel has equal red, green and blue.
// The PNG decoder widens grey+alpha images to NRGBA, this recovers them.
func isGrey(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			if row[x] != row[x+1] || row[x] != row[x+2] {
				return false
			}
		}
	}
	return true
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

func toNRGBA(src image.Image) *image.NRGBA {
	if img, ok := src.(*image.NRGBA); ok {
		return img
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

func toRGBA(src image.Image) *image.RGBA {
	if img, ok := src.(*image.RGBA); ok {
		return img
	}
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}
