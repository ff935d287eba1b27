package chart

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/matzehuels/turnout/pkg/dataset"
	"github.com/matzehuels/turnout/pkg/errors"
)

// captionOffset places the caption below the y range by this share of it.
const captionOffset = 0.15

// cropPad is the whitespace kept around the drawing after cropping.
const cropPad = 0.1 * vg.Inch

var background = color.White

// Render draws spec from t and writes it to w as PNG.
func Render(w io.Writer, t *dataset.Table, spec Spec, opts Options) error {
	p, err := Build(t, spec, opts)
	if err != nil {
		return err
	}
	img := Draw(p, opts)
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "%s: encode png", spec.Output)
	}
	return nil
}

// Draw draws p with the attribution caption onto a new canvas of the
// configured size and returns it cropped to its content.
func Draw(p *plot.Plot, opts Options) image.Image {
	width := vg.Length(opts.Width) * vg.Inch
	height := vg.Length(opts.Height) * vg.Inch

	c := vgimg.NewWith(
		vgimg.UseWH(width, height),
		vgimg.UseDPI(opts.DPI),
		vgimg.UseBackgroundColor(background),
	)
	dc := draw.New(c)

	style := captionStyle(p)

	// Keep a strip at the bottom for the caption. The data area is shorter
	// than the canvas, so this always fits the offset plus the caption.
	reserve := vg.Length(captionOffset)*height + style.Height(Caption) + cropPad
	area := draw.Crop(dc, 0, 0, reserve, 0)
	p.Draw(area)

	da := p.DataCanvas(area)
	trX, trY := p.Transforms(&da)
	span := p.Y.Max - p.Y.Min
	at := vg.Point{
		X: trX(p.X.Max),
		Y: trY(p.Y.Min - captionOffset*span),
	}
	dc.FillText(style, at, Caption)

	pad := int(float64(cropPad) / float64(vg.Inch) * float64(opts.DPI))
	return Crop(c.Image(), background, pad)
}

func captionStyle(p *plot.Plot) text.Style {
	f := font.From(plot.DefaultFont, captionFontSize)
	f.Variant = "Sans"
	return text.Style{
		Color:   color.Black,
		Font:    f,
		XAlign:  text.XRight,
		YAlign:  text.YTop,
		Handler: p.TextHandler,
	}
}
