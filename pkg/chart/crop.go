package chart

import (
	"image"
	"image/color"
	"image/draw"
)

// Crop returns the smallest part of img holding every pixel that differs
// from bg, grown by pad pixels on each side and clamped to img's bounds.
// An image with no content is returned unchanged.
func Crop(img image.Image, bg color.Color, pad int) image.Image {
	b := img.Bounds()
	box, found := contentBounds(img, bg)
	if !found {
		return img
	}

	box = image.Rect(box.Min.X-pad, box.Min.Y-pad, box.Max.X+pad, box.Max.Y+pad).Intersect(b)
	out := image.NewRGBA(image.Rect(0, 0, box.Dx(), box.Dy()))
	draw.Draw(out, out.Bounds(), img, box.Min, draw.Src)
	return out
}

// contentBounds finds the bounding box of pixels that differ from bg.
func contentBounds(img image.Image, bg color.Color) (image.Rectangle, bool) {
	if rgba, ok := img.(*image.RGBA); ok {
		bg8 := color.RGBAModel.Convert(bg).(color.RGBA)
		if sameColor(bg8, bg) {
			return rgbaBounds(rgba, bg8)
		}
	}

	b := img.Bounds()
	box := bbox{minX: b.Max.X, minY: b.Max.Y, maxX: b.Min.X - 1, maxY: b.Min.Y - 1}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !sameColor(img.At(x, y), bg) {
				box.add(x, y)
			}
		}
	}
	return box.rect()
}

// rgbaBounds scans Pix directly; vgimg canvases are always *image.RGBA.
func rgbaBounds(img *image.RGBA, bg color.RGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	box := bbox{minX: b.Max.X, minY: b.Max.Y, maxX: b.Min.X - 1, maxY: b.Min.Y - 1}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			if row[i] != bg.R || row[i+1] != bg.G || row[i+2] != bg.B || row[i+3] != bg.A {
				box.add(b.Min.X+i/4, y)
			}
		}
	}
	return box.rect()
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

type bbox struct {
	minX, minY, maxX, maxY int
}

func (b *bbox) add(x, y int) {
	b.minX = min(b.minX, x)
	b.minY = min(b.minY, y)
	b.maxX = max(b.maxX, x)
	b.maxY = max(b.maxY, y)
}

func (b bbox) rect() (image.Rectangle, bool) {
	if b.maxX < b.minX {
		return image.Rectangle{}, false
	}
	return image.Rect(b.minX, b.minY, b.maxX+1, b.maxY+1), true
}
