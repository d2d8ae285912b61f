package geom

import "math"

// Contact describes an overlap between two oriented boxes.
type Contact struct {
	Location  Vec2    // world-space contact point
	Direction Vec2    // unit separation axis; push-out direction for the first box
	Depth     float64 // minimum translation distance along Direction
}

// cornerEps is the projection tolerance used to group incident corners that
// are equally deep, so face-face contacts yield a stable edge midpoint.
const cornerEps = 1e-7

// IntersectBoxes tests two oriented boxes for overlap using the separating
// axis theorem. Each box is given by its world center, rotation, and
// half-extents. The four face-normal axes are tested in a fixed order (first
// box's axes before the second's) and the axis of least penetration wins;
// ties keep the earlier axis, so results are reproducible for identical
// inputs. Returns nil if any axis separates the boxes, including exact touch.
func IntersectBoxes(cA Vec2, rotA float64, hA Vec2, cB Vec2, rotB float64, hB Vec2) *Contact {
	sA, cosA := math.Sincos(rotA)
	sB, cosB := math.Sincos(rotB)

	axes := [4]Vec2{
		{cosA, sA},
		{-sA, cosA},
		{cosB, sB},
		{-sB, cosB},
	}

	cornersA := boxCorners(cA, axes[0], axes[1], hA)
	cornersB := boxCorners(cB, axes[2], axes[3], hB)

	bestDepth := math.Inf(1)
	bestAxis := -1
	for i, axis := range axes {
		minA, maxA := projectCorners(cornersA, axis)
		minB, maxB := projectCorners(cornersB, axis)
		overlap := math.Min(maxA, maxB) - math.Max(minA, minB)
		if overlap <= 0 {
			return nil
		}
		if overlap < bestDepth {
			bestDepth = overlap
			bestAxis = i
		}
	}

	// Orient the axis so it pushes the first box away from the second.
	n := axes[bestAxis]
	if n.Dot(cA.Sub(cB)) < 0 {
		n = n.Neg()
	}

	// Contact point: the deepest corners of the incident box, averaged. When
	// the winning axis is a face of the first box, the second box's corners
	// penetrate it, and vice versa.
	var location Vec2
	if bestAxis < 2 {
		location = deepestCorners(cornersB, n, 1)
	} else {
		location = deepestCorners(cornersA, n, -1)
	}

	return &Contact{Location: location, Direction: n, Depth: bestDepth}
}

// boxCorners returns the four world-space corners of an oriented box.
func boxCorners(c, ax0, ax1 Vec2, h Vec2) [4]Vec2 {
	ex := ax0.Scale(h.X)
	ey := ax1.Scale(h.Y)
	return [4]Vec2{
		c.Add(ex).Add(ey),
		c.Add(ex).Sub(ey),
		c.Sub(ex).Add(ey),
		c.Sub(ex).Sub(ey),
	}
}

// projectCorners returns the projection interval of the corners onto axis.
func projectCorners(corners [4]Vec2, axis Vec2) (float64, float64) {
	lo := corners[0].Dot(axis)
	hi := lo
	for _, c := range corners[1:] {
		p := c.Dot(axis)
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return lo, hi
}

// deepestCorners averages the corners with the extreme projection along
// sign*n, yielding the corner for corner contacts and the edge midpoint for
// face contacts.
func deepestCorners(corners [4]Vec2, n Vec2, sign float64) Vec2 {
	best := math.Inf(-1)
	for _, c := range corners {
		if p := sign * c.Dot(n); p > best {
			best = p
		}
	}
	var sum Vec2
	count := 0.0
	for _, c := range corners {
		if sign*c.Dot(n) >= best-cornerEps {
			sum = sum.Add(c)
			count++
		}
	}
	return sum.Scale(1 / count)
}
