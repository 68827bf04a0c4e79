package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FlyCamera is a free look camera for a Z up world. Angles are in degrees,
// yaw 0 looks along +X.
type FlyCamera struct {
	position        mgl32.Vec3
	front           mgl32.Vec3
	right           mgl32.Vec3
	rotatex         float32
	rotatey         float32
	lookSensitivity float32
	invertedY       bool

	fov          float32
	nearPlane    float32
	farPlane     float32
	windowWidth  int
	windowHeight int
}

func NewFlyCamera(pos mgl32.Vec3, windowWidth, windowHeight int, sensitivity float32) *FlyCamera {
	c := &FlyCamera{
		position:        pos,
		lookSensitivity: sensitivity,
		fov:             60,
		nearPlane:       0.1,
		farPlane:        2000,
		windowWidth:     windowWidth,
		windowHeight:    windowHeight,
	}
	c.updateTransform()
	return c
}

func (c *FlyCamera) GetPosition() mgl32.Vec3 {
	return c.position
}

func (c *FlyCamera) SetPosition(pos mgl32.Vec3) {
	c.position = pos
}

func (c *FlyCamera) GetFront() mgl32.Vec3 {
	return c.front
}

func (c *FlyCamera) GetRotation() (float32, float32) {
	return c.rotatex, c.rotatey
}

func (c *FlyCamera) SetInvertedY(inverted bool) {
	c.invertedY = inverted
}

func (c *FlyCamera) SetFarPlane(far float32) {
	c.farPlane = far
}

func (c *FlyCamera) SetWindowSize(width, height int) {
	c.windowWidth, c.windowHeight = width, height
}

// ChangeAngles turns the camera by a mouse delta in pixels.
func (c *FlyCamera) ChangeAngles(dx, dy float32) {
	if mgl32.Abs(dx) > 200 || mgl32.Abs(dy) > 200 {
		return
	}
	c.rotatex -= dx * c.lookSensitivity
	yChange := dy * c.lookSensitivity
	if c.invertedY {
		c.rotatey += yChange
	} else {
		c.rotatey -= yChange
	}
	c.updateTransform()
}

// SetLookTarget turns the camera towards position.
func (c *FlyCamera) SetLookTarget(position mgl32.Vec3) {
	front := SafeNormalize(position.Sub(c.position))
	if front == (mgl32.Vec3{}) {
		return
	}
	c.rotatex = mgl32.RadToDeg(float32(math.Atan2(float64(front.Y()), float64(front.X()))))
	c.rotatey = mgl32.RadToDeg(float32(math.Asin(float64(front.Z()))))
	c.updateTransform()
}

// Move translates along the view direction, the right vector and world up.
func (c *FlyCamera) Move(forward, right, up float32) {
	c.position = c.position.Add(c.front.Mul(forward)).Add(c.right.Mul(right)).Add(mgl32.Vec3{0, 0, up})
}

func (c *FlyCamera) updateTransform() {
	if c.rotatey > 89 {
		c.rotatey = 89
	}
	if c.rotatey < -89 {
		c.rotatey = -89
	}
	yaw := mgl32.DegToRad(c.rotatex)
	pitch := mgl32.DegToRad(c.rotatey)
	c.front = mgl32.Vec3{
		float32(math.Cos(float64(pitch)) * math.Cos(float64(yaw))),
		float32(math.Cos(float64(pitch)) * math.Sin(float64(yaw))),
		float32(math.Sin(float64(pitch))),
	}.Normalize()
	c.right = c.front.Cross(mgl32.Vec3{0, 0, 1}).Normalize()
}

func (c *FlyCamera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), mgl32.Vec3{0, 0, 1})
}

func (c *FlyCamera) GetProjectionMatrix() mgl32.Mat4 {
	aspect := float32(1)
	if c.windowHeight > 0 {
		aspect = float32(c.windowWidth) / float32(c.windowHeight)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.fov), aspect, c.nearPlane, c.farPlane)
}

func (c *FlyCamera) GetProjectionViewMatrix() mgl32.Mat4 {
	return c.GetProjectionMatrix().Mul4(c.GetViewMatrix())
}

// GetPickingRayFromScreenPosition returns a ray start and a unit direction through
// the given window pixel.
func (c *FlyCamera) GetPickingRayFromScreenPosition(x, y float64) (mgl32.Vec3, mgl32.Vec3) {
	// normalize x and y to -1..1
	normalizedX := (float32(x)/float32(c.windowWidth))*2 - 1
	normalizedY := ((float32(y)/float32(c.windowHeight))*2 - 1) * -1

	projViewInverted := c.GetProjectionViewMatrix().Inv()
	nearWorldPos := projViewInverted.Mul4x1(mgl32.Vec4{normalizedX, normalizedY, -1, 1})
	farWorldPos := projViewInverted.Mul4x1(mgl32.Vec4{normalizedX, normalizedY, 1, 1})
	// perspective divide
	rayStart := nearWorldPos.Vec3().Mul(1 / nearWorldPos.W())
	rayEnd := farWorldPos.Vec3().Mul(1 / farWorldPos.W())
	return rayStart, SafeNormalize(rayEnd.Sub(rayStart))
}
