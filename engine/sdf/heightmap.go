package sdf

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/util"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// HeightMap is a Z-up terrain slab. Its footprint spans [0, Size] on X and Y, the
// surface height at each point is the sampled gray value times Height.
type HeightMap struct {
	Size   mgl32.Vec2
	Height float32

	width   int
	depth   int
	samples []float32
}

// NewHeightMapFromImage converts img to normalized heights. A resolution above zero
// resamples the image to resolution x resolution first.
func NewHeightMapFromImage(img image.Image, resolution int, size mgl32.Vec2, height float32) *HeightMap {
	bounds := img.Bounds()
	if resolution > 0 && (bounds.Dx() != resolution || bounds.Dy() != resolution) {
		scaled := image.NewGray16(image.Rect(0, 0, resolution, resolution))
		draw.BiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		img = scaled
		bounds = scaled.Bounds()
	}

	h := &HeightMap{
		Size:    size,
		Height:  height,
		width:   bounds.Dx(),
		depth:   bounds.Dy(),
		samples: make([]float32, bounds.Dx()*bounds.Dy()),
	}
	for y := 0; y < h.depth; y++ {
		for x := 0; x < h.width; x++ {
			gray := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			h.samples[x+y*h.width] = float32(gray.Y) / 0xffff
		}
	}
	return h
}

// LoadHeightMap decodes a grayscale image from disk.
func LoadHeightMap(path string, resolution int, size mgl32.Vec2, height float32) (*HeightMap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open heightmap %s", path)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		util.LogIOError("could not decode heightmap", "path", path, "err", err)
		return nil, errors.Wrapf(err, "decode heightmap %s", path)
	}
	if img.Bounds().Empty() {
		return nil, errors.Errorf("heightmap %s (%s) has no pixels", path, format)
	}
	util.LogSystemInfo("loaded heightmap", "path", path, "format", format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return NewHeightMapFromImage(img, resolution, size, height), nil
}

// HeightAt samples the surface height with bilinear filtering. Positions outside
// the footprint are clamped to its edge.
func (h *HeightMap) HeightAt(x, y float32) float32 {
	if h.width == 0 || h.depth == 0 {
		return 0
	}
	fx := util.Clamp(x/h.Size.X(), 0, 1) * float32(h.width-1)
	fy := util.Clamp(y/h.Size.Y(), 0, 1) * float32(h.depth-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := min(x0+1, h.width-1)
	y1 := min(y0+1, h.depth-1)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	top := util.Lerp(h.sample(x0, y0), h.sample(x1, y0), tx)
	bottom := util.Lerp(h.sample(x0, y1), h.sample(x1, y1), tx)
	return util.Lerp(top, bottom, ty) * h.Height
}

func (h *HeightMap) sample(x, y int) float32 {
	return h.samples[x+y*h.width]
}

// Distance is exact above the surface only. The slab is cut to its bounding box so
// the shape stays finite.
func (h *HeightMap) Distance(p mgl32.Vec3) float32 {
	half := mgl32.Vec3{h.Size.X() * 0.5, h.Size.Y() * 0.5, h.Height * 0.5}
	box := Box{HalfExtents: half}.Distance(p.Sub(half))
	surface := p.Z() - h.HeightAt(p.X(), p.Y())
	return util.Max(box, surface)
}

func (h *HeightMap) Bounds() util.AABB {
	return util.NewAABBFromMinMax(mgl32.Vec3{}, mgl32.Vec3{h.Size.X(), h.Size.Y(), h.Height})
}
