// Command occlusiondump walks the avatar across a scene without opening a
// window and prints every object the camera sweep fades or restores.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"github.com/milk9111/seethrough/ecs/entity"
	"github.com/milk9111/seethrough/ecs/system"
	"github.com/milk9111/seethrough/occlusion"
	"github.com/milk9111/seethrough/prefabs"
)

type options struct {
	Scene   string
	Ticks   int
	StepX   float64
	Scale   float64
	Verbose bool
}

func main() {
	var opts options
	flag.StringVar(&opts.Scene, "scene", "", "scene file in prefabs/ (defaults to scene.yaml)")
	flag.IntVar(&opts.Ticks, "ticks", 120, "number of ticks to simulate")
	flag.Float64Var(&opts.StepX, "dx", 0, "avatar x movement per tick (defaults to the scene move speed)")
	flag.Float64Var(&opts.Scale, "scale", 0, "override the occlusion trace scale")
	flag.BoolVar(&opts.Verbose, "v", false, "enable tracker diagnostic logging")
	flag.Parse()

	if err := run(os.Stdout, opts); err != nil {
		log.Fatal(err)
	}
}

// run simulates opts.Ticks ticks and writes one line per occlusion event to
// out, followed by a summary line.
func run(out io.Writer, opts options) error {
	sceneSpec, err := prefabs.LoadSceneSpec(opts.Scene)
	if err != nil {
		return err
	}
	occSpec, err := prefabs.LoadOcclusionSpec()
	if err != nil {
		return err
	}

	cfg := occSpec.Config()
	cfg.DebugTraces = false
	cfg.DebugLog = cfg.DebugLog || opts.Verbose
	if opts.Scale > 0 {
		cfg.TraceScale = occlusion.ClampTraceScale(opts.Scale)
	}

	w := ecs.NewWorld()
	scene, err := entity.BuildScene(w, sceneSpec)
	if err != nil {
		return err
	}

	var ignore *system.ScriptIgnoreFilter
	if occSpec.IgnoreScript != "" {
		if ignore, err = system.LoadScriptIgnoreFilter(occSpec.IgnoreScript); err != nil {
			return err
		}
	}

	physics := system.NewPhysicsSystem()
	occ := system.NewOcclusionSystem(cfg, physics, ignore)
	scheduler := ecs.NewScheduler(physics, system.NewCameraSystem(physics), occ)

	stepX := opts.StepX
	if stepX == 0 {
		stepX = sceneSpec.Avatar.MoveSpeed
	}
	for tick := 0; tick < opts.Ticks; tick++ {
		if tr, ok := ecs.Get(w, scene.Player, component.TransformComponent.Kind()); ok && tick > 0 {
			tr.X += stepX
		}
		scheduler.Update(w)
		for _, evt := range w.Events().Drain() {
			oe, ok := evt.Data.(ecs.OcclusionEvent)
			if !ok {
				continue
			}
			fmt.Fprintf(out, "tick %4d  %-8s %s\n", tick, oe.Kind, occ.Name(oe.Entity))
		}
	}
	fmt.Fprintf(out, "%d objects tracked, %d occluded\n", len(occ.Tracker().Tracked()), occ.Tracker().OccludedCount())
	return nil
}
