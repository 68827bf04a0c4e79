package glhf

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	//go:embed shader/terrain.vert
	terrainVertexShaderSource string

	//go:embed shader/terrain.frag
	terrainFragmentShaderSource string
)

// TerrainUniforms lists the uniforms of the terrain shader by name.
var TerrainUniforms = AttrFormat{
	{Name: "u_worldToProj", Type: Mat4},
	{Name: "u_lightDir", Type: Vec3},
	{Name: "u_cameraPos", Type: Vec3},
	{Name: "u_material0", Type: Vec3},
	{Name: "u_material1", Type: Vec3},
	{Name: "u_material2", Type: Vec3},
	{Name: "u_material3", Type: Vec3},
}

// DefaultMaterialColors are the albedos of the four material channels.
var DefaultMaterialColors = [4]mgl32.Vec3{
	{0.45, 0.55, 0.3},
	{0.5, 0.45, 0.4},
	{0.75, 0.7, 0.55},
	{0.9, 0.9, 0.95},
}

// NewTerrainShader compiles the lit terrain shader. It must run on the GL thread.
func NewTerrainShader() (TerrainShader, error) {
	vertexFormat := AttrFormat{
		{Name: "a_position", Type: Vec3},
		{Name: "a_normal", Type: Vec3},
		{Name: "a_info", Type: Vec4},
		{Name: "a_materials", Type: Vec4},
	}
	shader, err := NewShader(vertexFormat, TerrainUniforms, terrainVertexShaderSource, terrainFragmentShaderSource)
	if err != nil {
		return TerrainShader{}, err
	}
	shader.Begin()
	shader.SetUniform("u_lightDir", mgl32.Vec3{-0.4, -0.3, -1}.Normalize())
	for i, c := range DefaultMaterialColors {
		shader.SetUniformAttr(3+i, c)
	}
	shader.End()
	return TerrainShader{Shader: shader}, nil
}
