package components

import (
	"math"

	"github.com/voidbound/skiff/geom"
)

// BlockKind selects a block's function and mass.
type BlockKind uint8

const (
	BlockHull BlockKind = iota
	BlockArmor
	BlockCockpit
	BlockThruster
)

// Mass returns the mass of one unit block of this kind.
func (k BlockKind) Mass() float64 {
	switch k {
	case BlockArmor:
		return 2.0
	case BlockCockpit:
		return 1.5
	default:
		return 1.0
	}
}

// maxHealth returns the hit points a fresh block of this kind carries.
func (k BlockKind) maxHealth() float64 {
	switch k {
	case BlockArmor:
		return 3.0
	case BlockCockpit:
		return 2.0
	default:
		return 1.0
	}
}

// Block is a single unit cell of a composite body.
type Block struct {
	Kind   BlockKind
	Health float64
}

// NewBlock returns a block of the given kind at full health.
func NewBlock(kind BlockKind) Block {
	return Block{Kind: kind, Health: kind.maxHealth()}
}

// PlacedBlock is a block at an offset in the body's local frame. Offsets are
// cell centers; each cell occupies the unit square around its offset.
type PlacedBlock struct {
	Offset geom.Vec2
	Block  Block
}

// Blocky is a rigid composite body made of unit blocks. The block list and
// derived quantities are computed once at creation and treated as immutable
// by the physics pass; gameplay that removes blocks must rebuild the
// component with NewBlocky.
type Blocky struct {
	Blocks  []PlacedBlock
	Mass    float64
	Inertia float64
	Radius  float64 // bounding radius used for broad-phase pruning
	Tree    geom.Tree
}

// halfDiagonal is the distance from a unit cell's center to its corner.
var halfDiagonal = math.Sqrt(0.5)

// NewBlocky builds a composite body from its blocks, deriving mass, moment
// of inertia, bounding radius, and the block tree. An empty block list makes
// an empty shape with zero mass; non-empty shapes always have positive mass
// and inertia.
func NewBlocky(blocks []PlacedBlock) Blocky {
	b := Blocky{Blocks: blocks}
	if len(blocks) == 0 {
		return b
	}

	cells := make([]geom.Vec2, len(blocks))
	maxDistSq := 0.0
	for i, pb := range blocks {
		cells[i] = pb.Offset
		m := pb.Block.Kind.Mass()
		b.Mass += m
		// Unit square about its own center plus parallel axis term.
		b.Inertia += m * (pb.Offset.LenSq() + 1.0/6.0)
		if d := pb.Offset.LenSq(); d > maxDistSq {
			maxDistSq = d
		}
	}
	b.Radius = math.Sqrt(maxDistSq) + halfDiagonal
	b.Tree = geom.BuildTree(cells)
	return b
}

// Empty reports whether the composite has no blocks.
func (b *Blocky) Empty() bool {
	return len(b.Blocks) == 0
}
