package main

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/seethrough/common"
	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/entity"
	"github.com/milk9111/seethrough/ecs/system"
	"github.com/milk9111/seethrough/occlusion"
	"github.com/milk9111/seethrough/prefabs"
	"golang.org/x/image/font/basicfont"
)

const hudLines = 6

type GameOptions struct {
	Scene      string
	Debug      bool
	TraceScale float64
	Watch      bool
}

type Game struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	physics   *system.PhysicsSystem
	occlusion *system.OcclusionSystem
	render    *system.RenderSystem

	watcher      *prefabs.Watcher
	ignoreScript string
	scaleFlag    float64

	settings     *ebitenui.UI
	showSettings bool
	debug        bool

	face ebtext.Face
	hud  []string
}

func NewGame(opts GameOptions) (*Game, error) {
	sceneSpec, err := prefabs.LoadSceneSpec(opts.Scene)
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	if _, err := entity.BuildScene(world, sceneSpec); err != nil {
		return nil, fmt.Errorf("build scene %s: %w", sceneSpec.Name, err)
	}

	g := &Game{
		world:     world,
		physics:   system.NewPhysicsSystem(),
		render:    system.NewRenderSystem(),
		scaleFlag: opts.TraceScale,
		debug:     opts.Debug,
		face:      ebtext.NewGoXFace(basicfont.Face7x13),
	}

	spec, err := prefabs.LoadOcclusionSpec()
	if err != nil {
		log.Printf("occlusion config: %v, using defaults", err)
		spec = &prefabs.OcclusionSpec{}
	}
	g.ignoreScript = spec.IgnoreScript

	g.occlusion = system.NewOcclusionSystem(g.occlusionConfig(spec), g.physics, g.loadIgnoreFilter())
	g.scheduler = ecs.NewScheduler(
		system.NewInputSystem(),
		system.NewMovementSystem(),
		g.physics,
		system.NewCameraSystem(g.physics),
		g.occlusion,
		system.NewTTLSystem(),
	)
	g.settings = NewSettingsUI(g)

	if opts.Watch {
		watcher, err := prefabs.NewWatcher(prefabs.Dirs()...)
		if err != nil {
			log.Printf("watch prefabs: %v", err)
		} else {
			g.watcher = watcher
		}
	}

	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) occlusionConfig(spec *prefabs.OcclusionSpec) occlusion.Config {
	cfg := spec.Config()
	if g.scaleFlag > 0 {
		cfg.TraceScale = occlusion.ClampTraceScale(g.scaleFlag)
	}
	return cfg
}

func (g *Game) loadIgnoreFilter() *system.ScriptIgnoreFilter {
	if g.ignoreScript == "" {
		return nil
	}
	filter, err := system.LoadScriptIgnoreFilter(g.ignoreScript)
	if err != nil {
		log.Printf("occlusion ignore script: %v", err)
		return nil
	}
	return filter
}

func (g *Game) reload(path string) {
	if prefabs.IsScript(path) {
		if filepath.Base(path) != filepath.Base(g.ignoreScript) {
			return
		}
		if filter := g.loadIgnoreFilter(); filter != nil {
			g.occlusion.SetIgnoreFilter(filter)
			log.Printf("reloaded %s", g.ignoreScript)
		}
		return
	}
	if filepath.Base(path) != prefabs.OcclusionFile {
		return
	}
	spec, err := prefabs.LoadOcclusionSpec()
	if err != nil {
		log.Printf("reload %s: %v", prefabs.OcclusionFile, err)
		return
	}
	if spec.IgnoreScript != g.ignoreScript {
		g.ignoreScript = spec.IgnoreScript
		g.occlusion.SetIgnoreFilter(g.loadIgnoreFilter())
	}
	g.occlusion.SetConfig(g.occlusionConfig(spec))
	log.Printf("reloaded %s", prefabs.OcclusionFile)
}

func (g *Game) config() occlusion.Config {
	return g.occlusion.Tracker().Config()
}

func (g *Game) setConfig(cfg occlusion.Config) {
	g.occlusion.SetConfig(cfg)
}

func (g *Game) Update() error {
	for {
		path, ok := g.watcher.Poll()
		if !ok {
			break
		}
		g.reload(path)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.showSettings = !g.showSettings
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if g.showSettings {
		g.settings.Update()
	}

	g.scheduler.Update(g.world)
	g.collectEvents()
	return nil
}

// collectEvents turns occlusion events into HUD lines.
func (g *Game) collectEvents() {
	for _, evt := range g.world.Events().Drain() {
		oe, ok := evt.Data.(ecs.OcclusionEvent)
		if evt.Type != ecs.OcclusionEventType || !ok {
			continue
		}
		name := g.occlusion.Name(oe.Entity)
		if name == "" {
			name = oe.Entity.String()
		}
		g.hud = append(g.hud, fmt.Sprintf("%s %s", name, oe.Kind))
		if len(g.hud) > hudLines {
			g.hud = g.hud[len(g.hud)-hudLines:]
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x1c, G: 0x1f, B: 0x26, A: 0xff})

	g.render.Draw(g.world, screen)
	if g.config().DebugTraces {
		system.DrawTraceDebug(g.world, screen)
	}
	if g.debug {
		system.DrawPhysicsDebug(g.physics.Space(), g.world, screen)
		system.DrawOcclusionDebug(g.occlusion, screen)
	}

	for i, line := range g.hud {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(10, float64(common.BaseHeight-20-(len(g.hud)-i)*16))
		op.ColorScale.ScaleWithColor(color.White)
		ebtext.Draw(screen, line, g.face, op)
	}

	if g.showSettings {
		g.settings.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}
