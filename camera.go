package tactile

import "github.com/go-gl/mathgl/mgl64"

// Camera holds the caller-owned camera matrices and the composites derived
// from them. The derived fields are recomputed every tick and never
// persisted. Non-invertible matrices are not guarded against.
type Camera struct {
	View             mgl64.Mat4
	Projection       mgl64.Mat4
	AspectCorrection mgl64.Mat4

	viewProjection    mgl64.Mat4
	invViewProjection mgl64.Mat4
}

// NewCamera returns an identity camera: touches in normalized device
// coordinates map straight onto world XY, looking down +Z.
func NewCamera() *Camera {
	c := &Camera{
		View:             mgl64.Ident4(),
		Projection:       mgl64.Ident4(),
		AspectCorrection: mgl64.Ident4(),
	}
	c.update()
	return c
}

// update recomputes the derived composites from the authoritative matrices.
func (c *Camera) update() {
	c.viewProjection = c.AspectCorrection.Mul4(c.Projection).Mul4(c.View)
	c.invViewProjection = c.viewProjection.Inv()
}

// ViewProjection returns aspect * projection * view as of the last update.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.viewProjection
}

// Ray unprojects a device-space position into a world-space ray from the
// near plane towards the far plane. dir is not normalized.
func (c *Camera) Ray(p Vec2) (origin, dir mgl64.Vec3) {
	near := mgl64.TransformCoordinate(mgl64.Vec3{p.X, p.Y, -1}, c.invViewProjection)
	far := mgl64.TransformCoordinate(mgl64.Vec3{p.X, p.Y, 1}, c.invViewProjection)
	return near, far.Sub(near)
}

// Depth returns the camera-space Z/W of a world point.
func (c *Camera) Depth(world mgl64.Vec3) float64 {
	v := c.viewProjection.Mul4x1(world.Vec4(1))
	return v[2] / v[3]
}
