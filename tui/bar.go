package tui

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget"
	"gioui.org/widget/material"
)

// BarStyle is a clickable timeline bar. It takes exactly the minimum
// constraints it is given.
type BarStyle struct {
	Click      *widget.Clickable
	Background color.NRGBA
	Selected   bool
	Label      material.LabelStyle
}

func Bar(th *material.Theme, click *widget.Clickable, bg color.NRGBA, label string) BarStyle {
	l := material.Caption(th, label)
	l.Color = TextColor
	l.MaxLines = 1
	return BarStyle{
		Click:      click,
		Background: bg,
		Label:      l,
	}
}

func (bar BarStyle) Layout(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Min
	gtx.Constraints.Max = size

	return material.Clickable(gtx, bar.Click, func(gtx layout.Context) layout.Dimensions {
		defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()

		bg := bar.Background
		if bar.Selected {
			bg = highlight(bg)
		}
		paint.FillShape(gtx.Ops, bg, clip.Rect{Max: size}.Op())

		if size.X > gtx.Dp(Large) {
			gtx.Constraints.Min = image.Point{}
			layout.Inset{Left: Tiny}.Layout(gtx, bar.Label.Layout)
		}
		return layout.Dimensions{Size: size}
	})
}

func highlight(c color.NRGBA) color.NRGBA {
	lift := func(v byte) byte { return v + (0xFF-v)/2 }
	return color.NRGBA{R: lift(c.R), G: lift(c.G), B: lift(c.B), A: c.A}
}
