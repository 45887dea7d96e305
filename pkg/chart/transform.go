package chart

// Transform is a 2D affine transform stored column-major as
// [m11 m12 m21 m22 dx dy], mapping (x, y) to
// (m11*x + m21*y + dx, m12*x + m22*y + dy).
type Transform [6]float64

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{1, 0, 0, 1, 0, 0}
}

// Apply maps a point through the transform.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: t[0]*p.X + t[2]*p.Y + t[4],
		Y: t[1]*p.X + t[3]*p.Y + t[5],
	}
}

// Multiply composes transforms: (t.Multiply(o)).Apply(p) == t.Apply(o.Apply(p)).
func (t Transform) Multiply(o Transform) Transform {
	return Transform{
		t[0]*o[0] + t[2]*o[1],
		t[1]*o[0] + t[3]*o[1],
		t[0]*o[2] + t[2]*o[3],
		t[1]*o[2] + t[3]*o[3],
		t[0]*o[4] + t[2]*o[5] + t[4],
		t[1]*o[4] + t[3]*o[5] + t[5],
	}
}

// Inverted returns the inverse transform. Transforms produced by the engine
// are always invertible (scales are clamped away from zero).
func (t Transform) Inverted() Transform {
	det := t[0]*t[3] - t[1]*t[2]
	if det == 0 {
		return Identity()
	}
	inv := 1 / det
	return Transform{
		t[3] * inv,
		-t[1] * inv,
		-t[2] * inv,
		t[0] * inv,
		(t[2]*t[5] - t[3]*t[4]) * inv,
		(t[1]*t[4] - t[0]*t[5]) * inv,
	}
}

func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// axisPairTransform builds the axis-space transform for an x/y transform
// pair: scale and translate along each axis independently.
func axisPairTransform(x, y Transform) Transform {
	return Transform{x[0], 0, 0, y[3], x[4], y[5]}
}

// scaleX returns the horizontal scale component.
func (t Transform) scaleX() float64 { return t[0] }

// scaleY returns the vertical scale component.
func (t Transform) scaleY() float64 { return t[3] }
