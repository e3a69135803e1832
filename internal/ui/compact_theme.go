package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CompactTheme tightens padding so long file lists fit, and uses the Hub's amber as primary
type CompactTheme struct {
	base fyne.Theme
}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{base: theme.DefaultTheme()}
}

var (
	hubAmber    = color.NRGBA{R: 255, G: 157, B: 0, A: 255}
	finishGreen = color.NRGBA{R: 46, G: 160, B: 67, A: 255}
	failRed     = color.NRGBA{R: 200, G: 40, B: 40, A: 255}
	pauseYellow = color.NRGBA{R: 240, G: 190, B: 20, A: 255}
)

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return hubAmber
	case theme.ColorNameSuccess:
		return finishGreen
	case theme.ColorNameError:
		return failRed
	case theme.ColorNameWarning:
		return pauseYellow
	case theme.ColorNameSelection:
		return color.NRGBA{R: hubAmber.R, G: hubAmber.G, B: hubAmber.B, A: 64}
	}
	return t.base.Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 16
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 3
	}
	return t.base.Size(name)
}
