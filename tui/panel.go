package tui

import (
	"gioui.org/layout"
	"gioui.org/text"
	"gioui.org/widget/material"
)

// PanelStyle is a captioned group of widgets.
type PanelStyle struct {
	Caption material.LabelStyle
}

func Panel(th *material.Theme, caption string) PanelStyle {
	cap := material.Body2(th, caption)
	cap.Color = CaptionColor
	return PanelStyle{Caption: cap}
}

func (p PanelStyle) Layout(gtx layout.Context, ws ...layout.Widget) layout.Dimensions {
	return Stack(Small).Layout(gtx,
		p.Caption.Layout,
		func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min.X = gtx.Constraints.Max.X
			return RoundBox(FieldBackground).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return Stack(Tiny).Layout(gtx, ws...)
			})
		},
	)
}

// SidePanelStyle is the details column next to the timeline.
type SidePanelStyle struct {
	ContentWidth ContentWidthStyle
}

func SidePanel(th *material.Theme) SidePanelStyle {
	return SidePanelStyle{ContentWidth: ContentWidth(th)}
}

func (p SidePanelStyle) Layout(gtx layout.Context, ws ...layout.Widget) layout.Dimensions {
	return p.ContentWidth.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		box := Box(PanelBackground)
		box.Padding = Medium
		box.Fill = true
		return box.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return Stack(Medium).Layout(gtx, ws...)
		})
	})
}

// FieldStyle shows a single named value.
type FieldStyle struct {
	Name  material.LabelStyle
	Value material.LabelStyle
}

func Field(th *material.Theme, name, value string) FieldStyle {
	n := material.Caption(th, name)
	n.Color = CaptionColor
	n.Alignment = text.End

	v := material.Caption(th, value)
	v.Color = TextColor
	v.MaxLines = 2

	return FieldStyle{Name: n, Value: v}
}

func (field FieldStyle) Layout(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Alignment: layout.Baseline}.Layout(gtx,
		layout.Flexed(1, field.Name.Layout),
		layout.Rigid(layout.Spacer{Width: Small}.Layout),
		layout.Flexed(3, field.Value.Layout),
	)
}
