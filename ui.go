package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"loov.dev/recordview/host"
	"loov.dev/recordview/render"
	"loov.dev/recordview/timeline"
	"loov.dev/recordview/trace"
	"loov.dev/recordview/tui"
)

type UI struct {
	Theme    *material.Theme
	Result   *render.Result
	Notifier host.Notifier

	// SkipSpans hides bars shorter than its value in seconds.
	SkipSpans widget.Float

	rows     map[int]*Row
	Selected *trace.Node
}

// Row is the clickable state of one timeline item.
type Row struct {
	Item  timeline.Item
	Click widget.Clickable
}

func NewUI(result *render.Result, notifier host.Notifier) *UI {
	ui := &UI{
		Theme:    material.NewTheme(gofont.Collection()),
		Result:   result,
		Notifier: notifier,
		rows:     map[int]*Row{},
	}
	for _, item := range result.Timeline.Items {
		ui.rows[item.Node.Index] = &Row{Item: item}
	}
	return ui
}

func (ui *UI) Run(w *app.Window) error {
	var ops op.Ops

	for e := range w.Events() {
		switch e := e.(type) {
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)
			ui.Layout(gtx)
			e.Frame(gtx.Ops)

		case key.Event:
			if e.Name == key.NameEscape {
				return nil
			}

		case system.DestroyEvent:
			return e.Err
		}
	}

	return nil
}

func (ui *UI) Layout(gtx layout.Context) layout.Dimensions {
	for _, row := range ui.rows {
		for row.Click.Clicked() {
			ui.Selected = row.Item.Node
			host.Select(row.Item.Node, ui.Notifier)
		}
	}

	skip := time.Duration(float64(ui.SkipSpans.Value) * float64(time.Second))
	view := &TimelineView{
		UI:      ui,
		Visible: ui.Result.Timeline.Visible(skip),

		RowHeight: ui.Theme.FingerSize * 0.6,
		RowGap:    tui.Tiny,
	}

	paint.Fill(gtx.Ops, tui.Background)
	return layout.Flex{}.Layout(gtx,
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(tui.Large).Layout(gtx,
						DurationSlider(ui.Theme, &ui.SkipSpans, "Skip", 0, ui.Result.Timeline.Duration()).Layout)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(unit.Dp(8)).Layout(gtx, view.Minimap)
				}),
				layout.Flexed(1, view.Spans),
			)
		}),
		layout.Rigid(ui.Details),
	)
}

// Details shows the selected node.
func (ui *UI) Details(gtx layout.Context) layout.Dimensions {
	th := ui.Theme
	result := ui.Result

	summary := tui.Panel(th, "Record")
	selection := tui.Panel(th, "Selection")

	return tui.SidePanel(th).Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			return summary.Layout(gtx,
				tui.Field(th, "App", result.Tree.Root.Class).Layout,
				tui.Field(th, "Duration", time.Duration(result.Timeline.Duration()).String()).Layout,
				tui.Field(th, "Calls", fmt.Sprint(result.Invocations())).Layout,
				tui.Field(th, "Hidden", fmt.Sprint(result.Pruned())).Layout,
			)
		},
		func(gtx layout.Context) layout.Dimensions {
			node := ui.Selected
			if node == nil {
				return selection.Layout(gtx, tui.Field(th, "", "click a bar").Layout)
			}

			fields := []layout.Widget{
				tui.Field(th, "Class", node.Class).Layout,
				tui.Field(th, "Method", node.Method).Layout,
				tui.Field(th, "Path", node.Path).Layout,
				tui.Field(th, "Owner", node.Owner).Layout,
				tui.Field(th, "Start", node.Start.ISO()).Layout,
				tui.Field(th, "End", node.Finish.ISO()).Layout,
				tui.Field(th, "Selector", trace.Selector(node)).Layout,
				tui.Field(th, "ID", string(node.ID)).Layout,
			}
			if !node.Finalized() {
				fields = append(fields, tui.Field(th, "", "no call recorded for this frame").Layout)
			}
			return selection.Layout(gtx, fields...)
		},
	)
}

type DurationSliderStyle struct {
	Theme *material.Theme
	Value *widget.Float
	Text  string
	Min   time.Duration
	Max   time.Duration
}

func DurationSlider(theme *material.Theme, value *widget.Float, text string, min, max trace.Time) DurationSliderStyle {
	return DurationSliderStyle{
		Theme: theme,
		Value: value,
		Text:  text,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
	}
}

func (slider DurationSliderStyle) Layout(gtx layout.Context) layout.Dimensions {
	caption := material.Body1(slider.Theme, fmt.Sprintf("%s %v", slider.Text,
		time.Duration(float64(slider.Value.Value)*float64(time.Second)).Round(time.Microsecond)))
	caption.Color = tui.TextColor

	return layout.Flex{
		Alignment: layout.Middle,
	}.Layout(gtx,
		layout.Rigid(caption.Layout),
		layout.Rigid(layout.Spacer{Width: unit.Dp(16)}.Layout),
		layout.Flexed(1,
			material.Slider(slider.Theme,
				slider.Value,
				float32(slider.Min.Seconds()),
				float32(slider.Max.Seconds())).Layout,
		),
	)
}

type TimelineView struct {
	*UI
	Visible []timeline.Item

	RowHeight unit.Dp
	RowGap    unit.Dp
}

func (view *TimelineView) Minimap(gtx layout.Context) layout.Dimensions {
	height := gtx.Dp(unit.Dp(1)) * len(view.Visible)
	if smallest := gtx.Dp(view.Theme.FingerSize); height < smallest {
		height = smallest
	}
	size := image.Point{X: gtx.Constraints.Max.X, Y: height}
	if len(view.Visible) == 0 {
		return layout.Dimensions{Size: size}
	}

	rowHeight := size.Y / len(view.Visible)
	if rowHeight < 1 {
		rowHeight = 1
	}

	top := 0
	for _, item := range view.Visible {
		x0, x1 := span(item, size.X)
		paint.FillShape(gtx.Ops, ItemColor(item), clip.Rect{
			Min: image.Pt(x0, top),
			Max: image.Pt(x1, top+rowHeight),
		}.Op())
		top += rowHeight
	}

	return layout.Dimensions{Size: size}
}

func (view *TimelineView) Spans(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()

	rowHeight := gtx.Dp(view.RowHeight)
	rowAdvance := rowHeight + gtx.Dp(view.RowGap)

	top := 0
	for _, item := range view.Visible {
		if top > size.Y {
			break
		}
		row, ok := view.rows[item.Node.Index]
		if !ok {
			continue
		}

		x0, x1 := span(item, size.X)
		offset := op.Offset(image.Pt(x0, top)).Push(gtx.Ops)
		bgtx := gtx
		bgtx.Constraints = layout.Exact(image.Pt(x1-x0, rowHeight))

		bar := tui.Bar(view.Theme, &row.Click, ItemColor(item), Label(item.Node))
		bar.Selected = item.Node == view.Selected
		bar.Layout(bgtx)
		offset.Pop()

		top += rowAdvance
	}

	return layout.Dimensions{Size: size}
}

// span converts an item to pixel columns, keeping at least one pixel.
func span(item timeline.Item, width int) (x0, x1 int) {
	x0 = int(item.Offset * float64(width))
	x1 = int(math.Ceil((item.Offset + item.Width) * float64(width)))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	return x0, x1
}

func Label(node *trace.Node) string {
	if node.Method == "" {
		return node.Class
	}
	return node.Class + "." + node.Method
}

var depthColors = []color.NRGBA{
	{R: 0x2E, G: 0x86, B: 0xC1, A: 0xFF},
	{R: 0x28, G: 0xB4, B: 0x63, A: 0xFF},
	{R: 0xD6, G: 0x89, B: 0x10, A: 0xFF},
	{R: 0x88, G: 0x4E, B: 0xA0, A: 0xFF},
	{R: 0xC0, G: 0x39, B: 0x2B, A: 0xFF},
	{R: 0x17, G: 0xA5, B: 0x89, A: 0xFF},
}

// ItemColor picks a color by depth; frames without a recorded call are gray.
func ItemColor(item timeline.Item) color.NRGBA {
	if !item.Node.Finalized() {
		return color.NRGBA{R: 0x55, G: 0x55, B: 0x5A, A: 0xFF}
	}
	return depthColors[item.Depth%len(depthColors)]
}
