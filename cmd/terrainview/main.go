// terrainview streams the configured scene around a camera and draws it.
//
// The camera orbits the focus point until a movement key is pressed. WASD, Q and E
// fly, dragging with the right mouse button looks around, space drops a sphere
// where the view ray meets the ground and backspace carves one out.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/faiface/mainthread"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/config"
	"github.com/memmaker/sdfterrain/engine/glhf"
	"github.com/memmaker/sdfterrain/engine/sdf"
	"github.com/memmaker/sdfterrain/engine/util"
	"github.com/memmaker/sdfterrain/engine/voxel"
)

const flySpeed = 40

func main() {
	configPath := flag.String("config", "", "path to a terrain yaml file, defaults are used when empty")
	threads := flag.Int("threads", 0, "override the worker count, -1 generates inline")
	flag.Parse()

	var err error
	mainthread.Run(func() {
		err = run(*configPath, *threads)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "terrainview:", err)
		os.Exit(1)
	}
}

type viewer struct {
	cfg     config.Config
	log     *util.Logger
	terrain *voxel.Terrain
	shader  glhf.TerrainShader
	camera  *util.FlyCamera

	orbiting   bool
	orbitAngle float64
	move       [3]float32
	looking    bool
	lastMouse  [2]float64
	hasMouse   bool
	edits      int
}

func run(configPath string, threads int) error {
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
	logger, err := cfg.NewLogger(os.Stdout)
	if err != nil {
		return err
	}
	util.SetDefaultLogger(logger)

	v := &viewer{cfg: cfg, log: logger, orbiting: true}
	app := &glhf.Application{
		Title:        cfg.Window.Title,
		WindowWidth:  cfg.Window.Width,
		WindowHeight: cfg.Window.Height,
	}
	app.TerminateFunc = v.terminate
	app.UpdateFunc = v.update
	app.DrawFunc = v.draw
	app.KeyHandler = v.key
	app.MousePosHandler = v.mousePos
	app.MouseButtonHandler = v.mouseButton
	if err := app.Open(); err != nil {
		return err
	}

	mainthread.Call(func() {
		v.shader, err = glhf.NewTerrainShader()
	})
	if err != nil {
		mainthread.Call(app.TerminateFunc)
		return err
	}

	ctx := voxel.NewContext(logger)
	ctx.NewMesh = glhf.NewTerrainMesh
	v.terrain = voxel.NewTerrain(ctx, cfg.TerrainOptions())
	if err := cfg.BuildScene(v.terrain.Volume()); err != nil {
		mainthread.Call(app.TerminateFunc)
		return err
	}
	v.terrain.Initialize(cfg.WorkerCount(), cfg.Render)

	v.camera = util.NewFlyCamera(vec3(cfg.Camera.Position), cfg.Window.Width, cfg.Window.Height, cfg.Camera.Sensitivity)
	v.camera.SetFarPlane(cfg.ViewRadius * 2)
	v.camera.SetInvertedY(cfg.Camera.InvertY)
	v.camera.SetLookTarget(vec3(cfg.Camera.Focus))
	focus := vec3(cfg.Camera.Focus)
	offset := vec3(cfg.Camera.Position).Sub(focus)
	v.orbitAngle = math.Atan2(float64(offset.Y()), float64(offset.X()))

	app.Run()
	return nil
}

func vec3(v [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func (v *viewer) terminate() {
	if v.terrain != nil {
		v.terrain.Terminate()
	}
	if v.shader.Shader != nil {
		v.shader.Delete()
	}
}

func (v *viewer) update(elapsed float64) {
	if v.orbiting {
		focus := vec3(v.cfg.Camera.Focus)
		offset := vec3(v.cfg.Camera.Position).Sub(focus)
		planar := mgl32.Vec2{offset.X(), offset.Y()}.Len()
		v.orbitAngle += float64(v.cfg.Camera.OrbitSpeed) * elapsed
		v.camera.SetPosition(focus.Add(mgl32.Vec3{
			planar * float32(math.Cos(v.orbitAngle)),
			planar * float32(math.Sin(v.orbitAngle)),
			offset.Z(),
		}))
		v.camera.SetLookTarget(focus)
	} else {
		step := float32(elapsed) * flySpeed
		v.camera.Move(v.move[0]*step, v.move[1]*step, v.move[2]*step)
	}
	v.terrain.Update(v.camera.GetPosition(), v.cfg.ViewRadius)
}

func (v *viewer) draw(elapsed float64) {
	v.terrain.Render(v.shader, voxel.Uniforms{
		"u_worldToProj": v.camera.GetProjectionViewMatrix(),
		"u_cameraPos":   v.camera.GetPosition(),
	})
}

func (v *viewer) key(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	pressed := float32(0)
	switch action {
	case glfw.Press:
		pressed = 1
	case glfw.Repeat:
		return
	}
	switch key {
	case glfw.KeyEscape:
		glfw.GetCurrentContext().SetShouldClose(true)
	case glfw.KeyW:
		v.setMove(0, pressed)
	case glfw.KeyS:
		v.setMove(0, -pressed)
	case glfw.KeyD:
		v.setMove(1, pressed)
	case glfw.KeyA:
		v.setMove(1, -pressed)
	case glfw.KeyE:
		v.setMove(2, pressed)
	case glfw.KeyQ:
		v.setMove(2, -pressed)
	case glfw.KeySpace:
		if action == glfw.Press {
			v.edit(sdf.Union)
		}
	case glfw.KeyBackspace:
		if action == glfw.Press {
			v.edit(sdf.Subtraction)
		}
	case glfw.KeyF:
		if action == glfw.Press {
			v.orbiting = true
		}
	}
}

func (v *viewer) setMove(axis int, amount float32) {
	v.move[axis] = amount
	if amount != 0 {
		v.orbiting = false
	}
}

// edit places a sphere where the view ray meets the terrain.
func (v *viewer) edit(op sdf.Op) {
	hit := v.terrain.Raycast(v.camera.GetPosition(), v.camera.GetFront().Mul(v.cfg.ViewRadius))
	if !hit.Hit {
		v.log.Log(util.LogVoxel, util.LogLevelInfo, "edit missed the terrain", "unloaded", hit.TouchedUnloaded)
		return
	}
	v.edits++
	material := uint8(v.edits % 4)
	v.terrain.Volume().Add(sdf.NewSphere(6).SetOp(op, 0).SetMaterial(material).SetPosition(hit.PosF))
	v.log.Log(util.LogVoxel, util.LogLevelInfo, "edit", "op", op.String(), "at", hit.PosF, "distance", hit.Distance)
}

func (v *viewer) mouseButton(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button == glfw.MouseButtonRight {
		v.looking = action == glfw.Press
		v.hasMouse = false
		if v.looking {
			v.orbiting = false
		}
	}
}

func (v *viewer) mousePos(x, y float64) {
	if !v.looking {
		return
	}
	if v.hasMouse {
		v.camera.ChangeAngles(float32(x-v.lastMouse[0]), float32(y-v.lastMouse[1]))
	}
	v.lastMouse = [2]float64{x, y}
	v.hasMouse = true
}
