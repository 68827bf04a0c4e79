package config

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/sdf"
	"github.com/pkg/errors"
)

const (
	ShapeSphere     = "sphere"
	ShapeBox        = "box"
	ShapeCylinder   = "cylinder"
	ShapeHeightMap  = "heightmap"
	ShapeRoundedBox = "rounded_box"
	ShapePillar     = "pillar"
	ShapeArch       = "arch"
)

// ShapeConfig is one entry of the scene. Size is the full edge length of boxes
// and arches and the footprint of heightmaps, Height is the full height of
// cylinders and pillars and the peak of heightmaps.
type ShapeConfig struct {
	Type       string     `yaml:"type"`
	Position   [3]float32 `yaml:"position"`
	Size       [3]float32 `yaml:"size"`
	Radius     float32    `yaml:"radius"`
	Height     float32    `yaml:"height"`
	Round      float32    `yaml:"round"`
	Op         string     `yaml:"op"`
	Smoothing  float32    `yaml:"smoothing"`
	Material   uint8      `yaml:"material"`
	Path       string     `yaml:"path"`
	Resolution int        `yaml:"resolution"`
}

func (s ShapeConfig) Validate() error {
	if _, err := sdf.ParseOp(s.Op); err != nil {
		return err
	}
	if s.Material > 3 {
		return errors.Errorf("material %d out of range 0..3", s.Material)
	}
	positiveSize := s.Size[0] > 0 && s.Size[1] > 0 && s.Size[2] > 0
	switch s.Type {
	case ShapeSphere:
		if s.Radius <= 0 {
			return errors.New("sphere needs a positive radius")
		}
	case ShapeBox, ShapeRoundedBox:
		if !positiveSize {
			return errors.Errorf("%s needs a positive size", s.Type)
		}
	case ShapeCylinder, ShapePillar:
		if s.Radius <= 0 || s.Height <= 0 {
			return errors.Errorf("%s needs a positive radius and height", s.Type)
		}
	case ShapeArch:
		if !positiveSize || s.Radius <= 0 {
			return errors.New("arch needs a positive size and tunnel radius")
		}
	case ShapeHeightMap:
		if s.Path == "" {
			return errors.New("heightmap needs a path")
		}
		if s.Size[0] <= 0 || s.Size[1] <= 0 || s.Height <= 0 {
			return errors.New("heightmap needs a positive footprint and height")
		}
	default:
		return errors.Errorf("unknown shape type %q", s.Type)
	}
	return nil
}

func vec3(v [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func (c Config) newShape(s ShapeConfig) (*sdf.Shape, error) {
	switch s.Type {
	case ShapeSphere:
		return sdf.NewSphere(s.Radius), nil
	case ShapeBox:
		return sdf.NewBox(vec3(s.Size).Mul(0.5), s.Round), nil
	case ShapeCylinder:
		return sdf.NewCylinder(s.Radius, s.Height*0.5), nil
	case ShapeRoundedBox:
		return sdf.RoundedBox(vec3(s.Size), s.Round)
	case ShapePillar:
		return sdf.Pillar(s.Height, s.Radius, s.Round)
	case ShapeArch:
		return sdf.Arch(vec3(s.Size), s.Radius)
	case ShapeHeightMap:
		hm, err := sdf.LoadHeightMap(c.resolve(s.Path), s.Resolution, mgl32.Vec2{s.Size[0], s.Size[1]}, s.Height)
		if err != nil {
			return nil, err
		}
		return sdf.NewShape(hm), nil
	}
	return nil, errors.Errorf("unknown shape type %q", s.Type)
}

// BuildScene adds every scene entry to vol in order.
func (c Config) BuildScene(vol *sdf.Volume) error {
	for i, s := range c.Scene {
		if err := s.Validate(); err != nil {
			return errors.Wrapf(err, "scene[%d]", i)
		}
		shape, err := c.newShape(s)
		if err != nil {
			return errors.Wrapf(err, "scene[%d] %s", i, s.Type)
		}
		op, _ := sdf.ParseOp(s.Op)
		shape.SetOp(op, s.Smoothing).SetMaterial(s.Material).SetPosition(vec3(s.Position))
		vol.Add(shape)
	}
	return nil
}

// BuildVolume returns a new volume holding the scene.
func BuildVolume(cfg Config) (*sdf.Volume, error) {
	vol := sdf.NewVolume()
	if err := cfg.BuildScene(vol); err != nil {
		return nil, err
	}
	return vol, nil
}
