package geom

// AABox is an axis-aligned box in some local frame.
type AABox struct {
	Min, Max Vec2
}

// Center returns the center point of the box.
func (b AABox) Center() Vec2 {
	return Vec2{(b.Min.X + b.Max.X) * 0.5, (b.Min.Y + b.Max.Y) * 0.5}
}

// HalfExtents returns the half-width and half-height of the box.
func (b AABox) HalfExtents() Vec2 {
	return Vec2{(b.Max.X - b.Min.X) * 0.5, (b.Max.Y - b.Min.Y) * 0.5}
}

// Union returns the smallest box containing both b and o.
func (b AABox) Union(o AABox) AABox {
	return AABox{
		Min: Vec2{min(b.Min.X, o.Min.X), min(b.Min.Y, o.Min.Y)},
		Max: Vec2{max(b.Max.X, o.Max.X), max(b.Max.Y, o.Max.Y)},
	}
}

// Contains reports whether p lies inside the box, boundary included.
func (b AABox) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// UnitBox returns the unit square centered at c.
func UnitBox(c Vec2) AABox {
	return AABox{
		Min: Vec2{c.X - 0.5, c.Y - 0.5},
		Max: Vec2{c.X + 0.5, c.Y + 0.5},
	}
}
