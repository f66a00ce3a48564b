package export

import (
	"pixvox/internal/logging"
	"pixvox/internal/models"
	"pixvox/pkg/stl"
	"pixvox/pkg/voxerr"
)

type stlEncoder struct{}

func (stlEncoder) Encode(m *models.VoxelModel, path string) error {
	if err := stl.SaveToSTL(path, Triangles(m)); err != nil {
		return voxerr.IO("export", path, err, "couldn't write STL")
	}
	logging.Debug("wrote stl", "path", path, "voxels", m.Count())
	return nil
}

// Triangles flattens m into STL facets, 12 per voxel, each tagged with
// the voxel color.
func Triangles(m *models.VoxelModel) []stl.Triangle {
	out := make([]stl.Triangle, 0, m.Count()*FacesPerVoxel)
	for _, v := range m.Voxels {
		attr := stl.PackColor(v.Color.R, v.Color.G, v.Color.B)
		for _, tri := range CubeTriangles(v, m.Unit) {
			t := stl.NewTriangle(tri[0], tri[1], tri[2])
			t.Attribute = attr
			out = append(out, t)
		}
	}
	return out
}
