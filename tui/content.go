package tui

import (
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

// ContentWidthStyle limits the width given to a widget.
type ContentWidthStyle struct {
	MinWidth unit.Dp
	MaxWidth unit.Dp
}

func ContentWidth(th *material.Theme) ContentWidthStyle {
	return ContentWidthStyle{
		MinWidth: unit.Dp(th.TextSize * 12),
		MaxWidth: unit.Dp(th.TextSize * 24),
	}
}

func (content ContentWidthStyle) Layout(gtx layout.Context, w layout.Widget) layout.Dimensions {
	max := gtx.Dp(content.MaxWidth)
	min := gtx.Dp(content.MinWidth)
	if min > max {
		min = max
	}

	if gtx.Constraints.Max.X > max {
		gtx.Constraints.Max.X = max
	}
	if gtx.Constraints.Min.X < min {
		gtx.Constraints.Min.X = min
	}
	if gtx.Constraints.Min.X > gtx.Constraints.Max.X {
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
	}
	return w(gtx)
}
