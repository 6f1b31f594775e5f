package render

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"landscape/internal/logger"
	"landscape/pkg/config"
	"landscape/pkg/engine"
	"landscape/pkg/heightmap"
	"landscape/pkg/world"
)

const (
	mouseSensitivity = 0.15 // degrees per pixel
	minMoveSpeed     = 1.0
)

// Viewer is an interactive window over an engine's chunks
type Viewer struct {
	window     *glfw.Window
	config     config.ViewerConfig
	logger     *logger.Logger
	engine     *engine.Engine
	renderer   *ChunkRenderer
	input      *InputHandler
	camera     *Camera
	isRunning  bool
	lastUpdate time.Time
	frameRate  int
	moveSpeed  float32
}

// NewViewer opens a window and GL context for eng. Must be called from the
// main OS thread.
func NewViewer(cfg *config.Config, eng *engine.Engine, log *logger.Logger) (*Viewer, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Configure GLFW
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Viewer.Width, cfg.Viewer.Height, cfg.Viewer.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	if cfg.Viewer.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	log.Infof("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	layout := eng.World().Layout()
	span := layout.ChunkExtent() * float32(layout.WorldSize)
	elevation := heightmap.Elevation{Floor: float32(cfg.Mesh.Floor), Ceiling: float32(cfg.Mesh.Ceiling)}

	renderer, err := NewChunkRenderer(elevation, span*1.5)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, err
	}

	// Start over the south edge looking toward the centre
	start := mgl32.Vec3{0, elevation.Ceiling * 1.5, span * 0.6}
	camera := NewCamera(start, 0, -25, span*3)

	v := &Viewer{
		window:    window,
		config:    cfg.Viewer,
		logger:    log.With("viewer"),
		engine:    eng,
		renderer:  renderer,
		input:     NewInputHandler(window),
		camera:    camera,
		frameRate: cfg.Viewer.FrameRate,
		moveSpeed: float32(cfg.Viewer.MoveSpeed),
	}
	return v, nil
}

// Run generates the terrain and runs the main loop until the window closes
func (v *Viewer) Run() error {
	if err := v.engine.Generate(); err != nil {
		v.cleanup()
		return err
	}
	if _, err := v.engine.MoveViewer(v.camera.Position); err != nil {
		v.cleanup()
		return err
	}
	v.renderer.UploadAll(v.engine.World().Chunks())

	v.isRunning = true
	v.lastUpdate = time.Now()

	for v.isRunning && !v.window.ShouldClose() {
		currentTime := time.Now()
		deltaTime := currentTime.Sub(v.lastUpdate).Seconds()
		v.lastUpdate = currentTime

		v.input.Update()
		v.processInput(float32(deltaTime))

		if err := v.update(); err != nil {
			v.logger.Errorf("update failed: %v", err)
			v.isRunning = false
		}

		v.render()

		v.window.SwapBuffers()
		glfw.PollEvents()

		// Cap the frame rate
		if v.frameRate > 0 {
			frameTime := time.Since(currentTime)
			targetFrameTime := time.Second / time.Duration(v.frameRate)
			if frameTime < targetFrameTime {
				time.Sleep(targetFrameTime - frameTime)
			}
		}
	}

	v.cleanup()
	return nil
}

// processInput moves the camera and handles commands
func (v *Viewer) processInput(dt float32) {
	in := v.input
	if in.IsKeyDown(glfw.KeyEscape) {
		v.isRunning = false
		return
	}

	if wheel := in.GetMouseWheelDelta(); wheel != 0 {
		v.moveSpeed = max(minMoveSpeed, v.moveSpeed*(1+0.1*float32(wheel)))
	}
	if in.IsMouseButtonDown(glfw.MouseButtonRight) {
		d := in.GetMouseDelta()
		v.camera.Rotate(float32(d[0])*mouseSensitivity, -float32(d[1])*mouseSensitivity)
	}

	forward := v.camera.Forward()
	forward = mgl32.Vec3{forward.X(), 0, forward.Z()}
	if forward.Len() > 0 {
		forward = forward.Normalize()
	}
	right := v.camera.Right()

	var move mgl32.Vec3
	if in.IsKeyDown(glfw.KeyW) {
		move = move.Add(forward)
	}
	if in.IsKeyDown(glfw.KeyS) {
		move = move.Sub(forward)
	}
	if in.IsKeyDown(glfw.KeyD) {
		move = move.Add(right)
	}
	if in.IsKeyDown(glfw.KeyA) {
		move = move.Sub(right)
	}
	if in.IsKeyDown(glfw.KeySpace) || in.IsKeyDown(glfw.KeyQ) {
		move = move.Add(mgl32.Vec3{0, 1, 0})
	}
	if in.IsKeyDown(glfw.KeyLeftShift) || in.IsKeyDown(glfw.KeyZ) {
		move = move.Sub(mgl32.Vec3{0, 1, 0})
	}
	if move.Len() > 0 {
		v.camera.Position = v.camera.Position.Add(move.Normalize().Mul(v.moveSpeed * dt))
	}

	if in.IsKeyPressed(glfw.KeyE) && !v.engine.Eroding() {
		v.engine.StartErosion()
	}
	if in.IsKeyPressed(glfw.KeyR) {
		v.regenerate()
	}
	if in.IsKeyPressed(glfw.KeyG) {
		v.renderer.ShowGrid = !v.renderer.ShowGrid
	}
}

// regenerate rebuilds the terrain from the layer stack
func (v *Viewer) regenerate() {
	if err := v.engine.Generate(); err != nil {
		v.logger.Errorf("regenerate failed: %v", err)
		return
	}
	if _, err := v.engine.MoveViewer(v.camera.Position); err != nil {
		v.logger.Errorf("viewer update failed: %v", err)
	}
	v.renderer.UploadAll(v.engine.World().Chunks())
}

// update advances erosion and re-uploads chunks whose detail changed
func (v *Viewer) update() error {
	for i := 0; i < v.config.ErosionTicksPerFrame && v.engine.Eroding(); i++ {
		done, err := v.engine.ErodeTick()
		if err != nil {
			return err
		}
		if done {
			v.renderer.UploadAll(v.engine.World().Chunks())
		}
	}

	changed, err := v.engine.MoveViewer(v.camera.Position)
	if err != nil {
		return err
	}
	v.upload(changed)
	return nil
}

func (v *Viewer) upload(coords []world.ChunkCoord) {
	for _, c := range coords {
		if ch, ok := v.engine.World().Chunk(c); ok {
			v.renderer.Upload(ch)
		}
	}
}

// render draws the current frame
func (v *Viewer) render() {
	width, height := v.window.GetFramebufferSize()
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	v.renderer.Render(v.camera.View(), v.camera.Projection(aspect), width, height)
}

// cleanup releases GL resources and terminates GLFW
func (v *Viewer) cleanup() {
	v.logger.Info("Shutting down viewer...")
	v.renderer.Close()
	v.window.Destroy()
	glfw.Terminate()
}
