package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/seethrough/common"
	"github.com/milk9111/seethrough/occlusion"
	"golang.org/x/image/font/basicfont"
)

const traceScaleStep = 0.25

// NewSettingsUI builds the occlusion settings panel shown with Tab. Every
// button writes a new config straight to the tracker.
func NewSettingsUI(g *Game) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	centered := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	status := widget.NewText(
		widget.TextOpts.Text("", &face, white),
		widget.TextOpts.WidgetOpts(centered),
	)
	refresh := func() {
		cfg := g.config()
		status.Label = fmt.Sprintf("occlusion: %v   debug traces: %v   trace scale: %.2f", cfg.Enabled, cfg.DebugTraces, cfg.TraceScale)
	}

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(centered),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
				refresh()
			}),
		)
	}

	title := widget.NewText(
		widget.TextOpts.Text("Occlusion", &face, white),
		widget.TextOpts.WidgetOpts(centered),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/3, common.BaseHeight/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(status)
	panel.AddChild(button("Toggle occlusion", func() {
		cfg := g.config()
		cfg.Enabled = !cfg.Enabled
		g.setConfig(cfg)
	}))
	panel.AddChild(button("Toggle debug traces", func() {
		cfg := g.config()
		cfg.DebugTraces = !cfg.DebugTraces
		g.setConfig(cfg)
	}))
	panel.AddChild(button("Trace scale -", func() {
		cfg := g.config()
		cfg.TraceScale = math.Max(occlusion.MinTraceScale, cfg.TraceScale-traceScaleStep)
		g.setConfig(cfg)
	}))
	panel.AddChild(button("Trace scale +", func() {
		cfg := g.config()
		cfg.TraceScale += traceScaleStep
		g.setConfig(cfg)
	}))
	refresh()

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}
