// terrainstat streams the configured scene without a window and reports what the
// terrain generated.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/config"
	"github.com/memmaker/sdfterrain/engine/util"
	"github.com/memmaker/sdfterrain/engine/voxel"
)

func main() {
	configPath := flag.String("config", "", "path to a terrain yaml file, defaults are used when empty")
	threads := flag.Int("threads", 0, "override the worker count, -1 generates inline")
	frames := flag.Int("frames", 0, "override the frame cap")
	raycast := flag.Bool("raycast", true, "cast a ray down the view column after streaming")
	flag.Parse()

	if err := run(*configPath, *threads, *frames, *raycast); err != nil {
		fmt.Fprintln(os.Stderr, "terrainstat:", err)
		os.Exit(1)
	}
}

func run(configPath string, threads, frames int, raycast bool) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if threads != 0 {
		cfg.Threads = threads
	}
	if frames > 0 {
		cfg.MaxFrames = frames
	}

	logger, err := cfg.NewLogger(os.Stdout)
	if err != nil {
		return err
	}
	util.SetDefaultLogger(logger)

	ctx := voxel.NewContext(logger)
	terrain := voxel.NewTerrain(ctx, cfg.TerrainOptions())
	if err := cfg.BuildScene(terrain.Volume()); err != nil {
		return err
	}
	terrain.Initialize(cfg.WorkerCount(), false)
	defer terrain.Terminate()

	center := mgl32.Vec3{cfg.Camera.Position[0], cfg.Camera.Position[1], cfg.Camera.Position[2]}
	start := time.Now()
	frame := 0
	for ; frame < cfg.MaxFrames; frame++ {
		terrain.Update(center, cfg.ViewRadius)
		if !terrain.Busy() {
			break
		}
		if cfg.WorkerCount() > 0 {
			time.Sleep(time.Millisecond)
		}
	}

	stats := terrain.Stats()
	logger.Log(util.LogSystem, util.LogLevelInfo, "terrain streamed",
		"frames", frame,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"equilibrium", terrain.Equilibrium(),
		"workers", cfg.WorkerCount(),
		"allocated", stats.Allocated,
		"resident", stats.Resident,
		"meshes", stats.Meshes,
		"interior", stats.Interior,
		"dirty", stats.Dirty,
		"vertices", stats.Vertices,
		"triangles", stats.Triangles,
	)
	for _, name := range []string{"terrain.update", "terrain.job", "terrain.lighting"} {
		if state, ok := ctx.Timer.GetState(name); ok {
			logger.Log(util.LogSystem, util.LogLevelInfo, "timer", "name", name, "count", state.Count(), "avg_ms", state.AverageDuration())
		}
	}

	if raycast {
		ray := mgl32.Vec3{0, 0, -cfg.ViewRadius}
		exact := terrain.Raycast(center, ray)
		fast := terrain.RaycastFast(center, ray, false)
		logger.Log(util.LogSystem, util.LogLevelInfo, "view column raycast", "raycast", exact.String(), "fast", fast.String())
	}
	return nil
}
