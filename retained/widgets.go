package retained

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// Widgets is the ebitenui tree shown by the retained front end.
type Widgets struct {
	UI     *ebitenui.UI
	Column *widget.Container
	Info   *widget.Text
	Button *widget.Button
	Input  *ButtonInput
}

// NewWidgets builds a column with the info text above a Recreate button.
func NewWidgets() *Widgets {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	textColor := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	input := &ButtonInput{}

	info := widget.NewText(
		widget.TextOpts.Text(NewInfoText(nil).String(), &face, textColor),
	)

	button := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:    imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}),
			Hover:   imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}),
			Pressed: imageui.NewNineSliceColor(color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}),
		}),
		widget.ButtonOpts.Text("Recreate", &face, &widget.ButtonTextColor{Idle: textColor}),
		widget.ButtonOpts.PressedHandler(func(*widget.ButtonPressedEventArgs) { input.Press() }),
		widget.ButtonOpts.ReleasedHandler(func(*widget.ButtonReleasedEventArgs) { input.Release() }),
		widget.ButtonOpts.CursorEnteredHandler(func(*widget.ButtonHoverEventArgs) { input.Enter() }),
		widget.ButtonOpts.CursorExitedHandler(func(*widget.ButtonHoverEventArgs) { input.Exit() }),
	)

	column := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Left: 20}),
		)),
	)
	column.AddChild(info)
	column.AddChild(button)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(column)

	return &Widgets{
		UI:     &ebitenui.UI{Container: root},
		Column: column,
		Info:   info,
		Button: button,
		Input:  input,
	}
}
