package voxel

import "fmt"

// BlockType classifies a single voxel. The zero value is Exterior.
type BlockType uint8

const (
	Exterior BlockType = iota
	Interior
	Surface
	Unloaded
	BlockTypeCount
)

func (b BlockType) String() string {
	switch b {
	case Exterior:
		return "exterior"
	case Interior:
		return "interior"
	case Surface:
		return "surface"
	case Unloaded:
		return "unloaded"
	}
	return fmt.Sprintf("BlockType(%d)", uint8(b))
}

func defaultBlockCollision() [BlockTypeCount]bool {
	var collision [BlockTypeCount]bool
	for i := range collision {
		collision[i] = true
	}
	collision[Exterior] = false
	collision[Unloaded] = false
	return collision
}
