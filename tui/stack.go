package tui

import (
	"image"

	"gioui.org/layout"
	"gioui.org/op"
)

// StackStyle lays widgets out top to bottom with a fixed gap.
type StackStyle struct {
	Gap Gap
}

func Stack(gap Gap) StackStyle {
	return StackStyle{Gap: gap}
}

func (stack StackStyle) Layout(gtx layout.Context, ws ...layout.Widget) layout.Dimensions {
	gap := gtx.Dp(stack.Gap)
	dims := layout.Dimensions{
		Size: image.Point{X: gtx.Constraints.Min.X},
	}

	gtx.Constraints.Min.Y = 0
	for i, w := range ws {
		offset := op.Offset(image.Point{Y: dims.Size.Y}).Push(gtx.Ops)
		wdims := w(gtx)
		offset.Pop()

		dims.Size.Y += wdims.Size.Y
		if wdims.Size.X > dims.Size.X {
			dims.Size.X = wdims.Size.X
		}
		if i+1 < len(ws) {
			dims.Size.Y += gap
		}
	}

	return dims
}
