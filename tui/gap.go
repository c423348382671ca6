package tui

import (
	"image/color"

	"gioui.org/unit"
)

type Gap = unit.Dp

var (
	Tiny   = unit.Dp(2)
	Small  = unit.Dp(4)
	Medium = unit.Dp(6)
	Large  = unit.Dp(10)
)

var (
	Background      = color.NRGBA{R: 0x18, G: 0x18, B: 0x20, A: 0xFF}
	PanelBackground = color.NRGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xFF}
	FieldBackground = color.NRGBA{R: 0x30, G: 0x30, B: 0x38, A: 0xFF}
	CaptionColor    = color.NRGBA{R: 0xB0, G: 0xB0, B: 0xB4, A: 0xFF}
	TextColor       = color.NRGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF}
)
