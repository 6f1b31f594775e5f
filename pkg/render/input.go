package render

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// viewer keys polled every frame
var trackedKeys = []glfw.Key{
	glfw.KeyEscape,
	glfw.KeyW, glfw.KeyA, glfw.KeyS, glfw.KeyD,
	glfw.KeyQ, glfw.KeyZ,
	glfw.KeySpace, glfw.KeyLeftShift,
	glfw.KeyE, glfw.KeyR, glfw.KeyG,
}

// InputHandler tracks keyboard and mouse state between frames
type InputHandler struct {
	window            *glfw.Window
	currentKeys       map[glfw.Key]bool
	previousKeys      map[glfw.Key]bool
	currentMousePos   [2]float64
	previousMousePos  [2]float64
	currentMouseBtns  map[glfw.MouseButton]bool
	previousMouseBtns map[glfw.MouseButton]bool
	mouseDelta        [2]float64
	mouseWheelDelta   float64
}

// NewInputHandler creates an input handler bound to window
func NewInputHandler(window *glfw.Window) *InputHandler {
	handler := &InputHandler{
		window:            window,
		currentKeys:       make(map[glfw.Key]bool),
		previousKeys:      make(map[glfw.Key]bool),
		currentMouseBtns:  make(map[glfw.MouseButton]bool),
		previousMouseBtns: make(map[glfw.MouseButton]bool),
	}

	window.SetScrollCallback(func(_ *glfw.Window, _, yoffset float64) {
		handler.mouseWheelDelta += yoffset
	})

	x, y := window.GetCursorPos()
	handler.currentMousePos = [2]float64{x, y}

	return handler
}

// Update samples the current input state
func (ih *InputHandler) Update() {
	for k, v := range ih.currentKeys {
		ih.previousKeys[k] = v
	}
	for b, v := range ih.currentMouseBtns {
		ih.previousMouseBtns[b] = v
	}

	ih.previousMousePos = ih.currentMousePos
	x, y := ih.window.GetCursorPos()
	ih.currentMousePos = [2]float64{x, y}
	ih.mouseDelta[0] = ih.currentMousePos[0] - ih.previousMousePos[0]
	ih.mouseDelta[1] = ih.currentMousePos[1] - ih.previousMousePos[1]

	for _, key := range trackedKeys {
		ih.currentKeys[key] = ih.window.GetKey(key) == glfw.Press
	}
	for btn := glfw.MouseButton1; btn <= glfw.MouseButtonLast; btn++ {
		ih.currentMouseBtns[btn] = ih.window.GetMouseButton(btn) == glfw.Press
	}
}

// IsKeyDown reports whether key is held
func (ih *InputHandler) IsKeyDown(key glfw.Key) bool {
	return ih.currentKeys[key]
}

// IsKeyPressed reports whether key went down this frame
func (ih *InputHandler) IsKeyPressed(key glfw.Key) bool {
	return ih.currentKeys[key] && !ih.previousKeys[key]
}

// IsMouseButtonDown reports whether button is held
func (ih *InputHandler) IsMouseButtonDown(button glfw.MouseButton) bool {
	return ih.currentMouseBtns[button]
}

// GetMouseDelta returns cursor movement since the last frame
func (ih *InputHandler) GetMouseDelta() [2]float64 {
	return ih.mouseDelta
}

// GetMouseWheelDelta returns scroll since the last call and resets it
func (ih *InputHandler) GetMouseWheelDelta() float64 {
	delta := ih.mouseWheelDelta
	ih.mouseWheelDelta = 0
	return delta
}
