package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"landscape/internal/util"
)

// Camera is a yaw/pitch fly camera
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32 // degrees around +Y, 0 looks down -Z
	Pitch    float32 // degrees, clamped to ±89
	FOV      float32 // vertical, degrees
	Near     float32
	Far      float32
}

// NewCamera creates a camera at position looking along yaw and pitch
func NewCamera(position mgl32.Vec3, yaw, pitch, far float32) *Camera {
	return &Camera{
		Position: position,
		Yaw:      yaw,
		Pitch:    util.Clamp(pitch, -89, 89),
		FOV:      60,
		Near:     0.1,
		Far:      far,
	}
}

// Forward returns the unit view direction
func (c *Camera) Forward() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(-math.Cos(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// Right returns the unit strafe direction on the ground plane
func (c *Camera) Right() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	return mgl32.Vec3{float32(math.Cos(yaw)), 0, float32(math.Sin(yaw))}
}

// Rotate turns the camera by the given degrees
func (c *Camera) Rotate(dyaw, dpitch float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+dyaw), 360))
	c.Pitch = util.Clamp(c.Pitch+dpitch, -89, 89)
}

// View returns the world-to-view matrix
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the given aspect ratio
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}
