package export

import (
	"gonum.org/v1/gonum/spatial/r3"

	"pixvox/internal/models"
)

// VerticesPerVoxel is the number of corners emitted for each voxel
const VerticesPerVoxel = 8

// FacesPerVoxel is the number of triangles emitted for each voxel
const FacesPerVoxel = 12

// cornerSigns lists the cube corners in emission order as unit offsets.
// faceIndices depends on this exact order.
var cornerSigns = [VerticesPerVoxel]r3.Vec{
	{X: -1, Y: -1, Z: +1},
	{X: +1, Y: -1, Z: +1},
	{X: -1, Y: +1, Z: +1},
	{X: +1, Y: +1, Z: +1},
	{X: +1, Y: -1, Z: -1},
	{X: -1, Y: -1, Z: -1},
	{X: +1, Y: +1, Z: -1},
	{X: -1, Y: +1, Z: -1},
}

// faceIndices triangulates the six cube sides, 1-based into cornerSigns,
// counter-clockwise when seen from outside.
var faceIndices = [FacesPerVoxel][3]int{
	{1, 2, 3}, {2, 4, 3}, // front
	{5, 6, 7}, {6, 8, 7}, // back
	{3, 6, 1}, {3, 8, 6}, // left
	{7, 2, 5}, {7, 4, 2}, // right
	{3, 7, 8}, {3, 4, 7}, // top
	{2, 6, 5}, {2, 1, 6}, // bottom
}

// CubeCorners returns the 8 corners of v's cube in emission order.
func CubeCorners(v models.Voxel, unit float64) [VerticesPerVoxel]r3.Vec {
	var out [VerticesPerVoxel]r3.Vec
	for i, s := range cornerSigns {
		out[i] = r3.Add(v.Position, r3.Scale(unit, s))
	}
	return out
}

// CubeFaces returns the local 1-based corner indices of each triangle.
func CubeFaces() [FacesPerVoxel][3]int {
	return faceIndices
}

// CubeTriangles returns the 12 triangles of v's cube with real coordinates.
func CubeTriangles(v models.Voxel, unit float64) [FacesPerVoxel]r3.Triangle {
	corners := CubeCorners(v, unit)
	var out [FacesPerVoxel]r3.Triangle
	for i, f := range faceIndices {
		out[i] = r3.Triangle{corners[f[0]-1], corners[f[1]-1], corners[f[2]-1]}
	}
	return out
}
