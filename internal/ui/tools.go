package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// penColors are offered in the palette, black first.
var penColors = []color.Color{
	color.Black,
	color.NRGBA{R: 255, A: 255},
	color.NRGBA{G: 160, A: 255},
	color.NRGBA{B: 255, A: 255},
	color.NRGBA{R: 255, G: 200, A: 255},
}

type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// NewToolbar builds the Load and Clear buttons followed by the pen palette.
func NewToolbar(ink *InkCanvas, onLoad, onClear func()) fyne.CanvasObject {
	loadBtn := widget.NewButtonWithIcon("Load", theme.FolderOpenIcon(), onLoad)
	clearBtn := widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), onClear)

	swatches := make([]fyne.CanvasObject, 0, len(penColors))
	for _, c := range penColors {
		swatches = append(swatches, newColorSwatch(c, ink.SetColor))
	}

	size := widget.NewSlider(1, 24)
	size.SetValue(ink.Attributes().Size.Width)
	size.OnChanged = ink.SetPenSize
	sizeBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), size)

	return container.NewHBox(
		loadBtn,
		clearBtn,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		container.NewHBox(swatches...),
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sizeBox,
		layout.NewSpacer(),
	)
}
