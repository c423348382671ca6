package tui

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
)

// BoxStyle fills the area behind a widget and pads it.
type BoxStyle struct {
	Background color.NRGBA
	Padding    Gap
	// Fill makes the box take the full height it is given.
	Fill bool
}

func Box(bg color.NRGBA) BoxStyle {
	return BoxStyle{
		Background: bg,
		Padding:    Small,
	}
}

func (box BoxStyle) Layout(gtx layout.Context, w layout.Widget) layout.Dimensions {
	if box.Fill {
		gtx.Constraints.Min.Y = gtx.Constraints.Max.Y
	}
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			size := gtx.Constraints.Min
			paint.FillShape(gtx.Ops, box.Background, clip.Rect{Max: size}.Op())
			return layout.Dimensions{Size: size}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(box.Padding).Layout(gtx, w)
		}),
	)
}

// RoundBoxStyle is a box with rounded corners sized to its content.
type RoundBoxStyle struct {
	Background   color.NRGBA
	CornerRadius unit.Dp
	Padding      Gap
}

func RoundBox(bg color.NRGBA) RoundBoxStyle {
	return RoundBoxStyle{
		Background:   bg,
		CornerRadius: Small,
		Padding:      Small,
	}
}

func (box RoundBoxStyle) Layout(gtx layout.Context, w layout.Widget) layout.Dimensions {
	padding := gtx.Dp(box.Padding)
	inner := image.Point{X: 2 * padding, Y: 2 * padding}

	gtx.Constraints.Min = positive(gtx.Constraints.Min.Sub(inner))
	gtx.Constraints.Max = positive(gtx.Constraints.Max.Sub(inner))

	macro := op.Record(gtx.Ops)
	offset := op.Offset(image.Point{X: padding, Y: padding}).Push(gtx.Ops)
	dims := w(gtx)
	offset.Pop()
	content := macro.Stop()

	dims.Size = dims.Size.Add(inner)
	paint.FillShape(gtx.Ops, box.Background,
		clip.UniformRRect(image.Rectangle{Max: dims.Size}, gtx.Dp(box.CornerRadius)).Op(gtx.Ops))
	content.Add(gtx.Ops)

	return dims
}

func positive(v image.Point) image.Point {
	if v.X < 0 {
		v.X = 0
	}
	if v.Y < 0 {
		v.Y = 0
	}
	return v
}
