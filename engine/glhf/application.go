package glhf

import (
	"fmt"
	"math"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/memmaker/sdfterrain/engine/util"
	"github.com/pkg/errors"
)

// Application drives a window from a goroutine started by mainthread.Run. Every
// frame runs inside mainthread.Call, so the handlers may touch GL directly.
type Application struct {
	Window             *glfw.Window
	TerminateFunc      func()
	UpdateFunc         func(elapsed float64)
	DrawFunc           func(elapsed float64)
	KeyHandler         func(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey)
	MousePosHandler    func(xpos float64, ypos float64)
	MouseButtonHandler func(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey)
	ScrollHandler      func(xoff float64, yoff float64)
	WindowWidth        int
	WindowHeight       int
	Title              string
	ticks              uint64
	FramesPerSecond    float64
	FPSRunningAvg      float64
	FPSMin             float64
	FPSMax             float64
}

func (a *Application) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if a.KeyHandler != nil {
		a.KeyHandler(key, scancode, action, mods)
	}
}

func (a *Application) mousePosCallback(w *glfw.Window, xpos float64, ypos float64) {
	if a.MousePosHandler != nil {
		a.MousePosHandler(xpos, ypos)
	}
}

func (a *Application) scrollCallback(w *glfw.Window, xoff float64, yoff float64) {
	if a.ScrollHandler != nil {
		a.ScrollHandler(xoff, yoff)
	}
}

func (a *Application) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if a.MouseButtonHandler != nil {
		a.MouseButtonHandler(button, action, mods)
	}
}

// Open creates the window and GL context on the main thread.
func (a *Application) Open() error {
	var err error
	mainthread.Call(func() {
		var terminate func()
		a.Window, terminate, err = InitOpenGL(a.Title, a.WindowWidth, a.WindowHeight)
		if err != nil {
			return
		}
		prev := a.TerminateFunc
		a.TerminateFunc = func() {
			if prev != nil {
				prev()
			}
			terminate()
		}
		a.Window.SetKeyCallback(a.keyCallback)
		a.Window.SetCursorPosCallback(a.mousePosCallback)
		a.Window.SetMouseButtonCallback(a.mouseButtonCallback)
		a.Window.SetScrollCallback(a.scrollCallback)
	})
	return err
}

// Run loops until the window is closed.
func (a *Application) Run() {
	defer func() {
		if a.TerminateFunc != nil {
			mainthread.Call(a.TerminateFunc)
		}
	}()
	var previousTime float64
	mainthread.Call(func() { previousTime = glfw.GetTime() })
	a.FPSMin = math.MaxFloat64

	shouldQuit := false
	for !shouldQuit {
		mainthread.Call(func() {
			if a.Window.ShouldClose() {
				shouldQuit = true
				return
			}

			gl.ClearColor(0.55, 0.7, 0.85, 1)
			gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

			time := glfw.GetTime()
			elapsed := time - previousTime
			previousTime = time
			if a.UpdateFunc != nil {
				a.UpdateFunc(elapsed)
			}
			if a.DrawFunc != nil {
				a.DrawFunc(elapsed)
			}
			a.trackFPS(elapsed)

			a.Window.SwapBuffers()
			glfw.PollEvents()
			a.ticks++
		})
	}
}

func (a *Application) trackFPS(elapsed float64) {
	if elapsed <= 0 {
		return
	}
	a.FramesPerSecond = 1.0 / elapsed
	if a.ticks%60 == 0 {
		sixtyTicksAverage := a.FPSRunningAvg
		a.Window.SetTitle(fmt.Sprintf("%s - FPS: %.0f (Avg: %.0f, Min: %.0f, Max: %.0f)", a.Title, a.FramesPerSecond, sixtyTicksAverage, a.FPSMin, a.FPSMax))
		a.FPSRunningAvg = a.FramesPerSecond * (1.0 / 60.0)
		a.FPSMin = math.MaxFloat64
		a.FPSMax = 0
		return
	}
	a.FPSRunningAvg += a.FramesPerSecond * (1.0 / 60.0)
	a.FPSMin = math.Min(a.FPSMin, a.FramesPerSecond)
	a.FPSMax = math.Max(a.FPSMax, a.FramesPerSecond)
}

// InitOpenGL opens a core profile 3.3 window. It must run on the main thread.
func InitOpenGL(title string, width, height int) (*glfw.Window, func(), error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, errors.Wrap(err, "glfw init")
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, errors.Wrap(err, "create window")
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1) // enable (1) vsync

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, errors.Wrap(err, "gl init")
	}
	util.LogGlInfo("OpenGL initialized", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.DEPTH_TEST)

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	return win, func() {
		glfw.Terminate()
	}, nil
}
