package export

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"gonum.org/v1/gonum/spatial/r3"

	"pixvox/internal/logging"
	"pixvox/internal/models"
	"pixvox/pkg/palette"
	"pixvox/pkg/voxerr"
)

type glbEncoder struct{}

func (glbEncoder) Encode(m *models.VoxelModel, path string) error {
	doc := BuildGLTF(m)
	if err := gltf.SaveBinary(doc, path); err != nil {
		return voxerr.IO("export", path, err, "couldn't write binary glTF")
	}
	logging.Debug("wrote glb", "path", path, "voxels", m.Count(), "materials", len(doc.Materials))
	return nil
}

// BuildGLTF converts m into a glTF document with one primitive per
// material. Triangles do not share vertices so every face keeps a flat
// normal.
func BuildGLTF(m *models.VoxelModel) *gltf.Document {
	doc := gltf.NewDocument()
	doc.Asset.Generator = Generator + " " + Version

	table := palette.NewTable()
	groups := make([][]models.Voxel, 0)
	for _, v := range m.Voxels {
		idx := table.Lookup(v.Color)
		if idx == len(groups) {
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], v)
	}
	if len(groups) == 0 {
		return doc
	}

	mesh := &gltf.Mesh{Name: "VoxelMesh"}
	for idx, voxels := range groups {
		kd := table.Color(idx).Float()
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: MaterialName(idx),
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{kd[0], kd[1], kd[2], 1},
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(1),
			},
			AlphaMode: gltf.AlphaOpaque,
		})

		count := len(voxels) * FacesPerVoxel * 3
		positions := make([][3]float32, 0, count)
		normals := make([][3]float32, 0, count)
		indices := make([]uint32, 0, count)
		for _, v := range voxels {
			for _, tri := range CubeTriangles(v, m.Unit) {
				n := r3.Unit(tri.Normal())
				for _, p := range tri {
					indices = append(indices, uint32(len(positions)))
					positions = append(positions, [3]float32{float32(p.X), float32(p.Y), float32(p.Z)})
					normals = append(normals, [3]float32{float32(n.X), float32(n.Y), float32(n.Z)})
				}
			}
		}

		posAccessor := modeler.WritePosition(doc, positions)
		normalAccessor := modeler.WriteNormal(doc, normals)
		indicesAccessor := modeler.WriteIndices(doc, indices)

		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Attributes: gltf.PrimitiveAttributes{
				gltf.POSITION: posAccessor,
				gltf.NORMAL:   normalAccessor,
			},
			Indices:  gltf.Index(indicesAccessor),
			Material: gltf.Index(idx),
		})
	}

	doc.Meshes = []*gltf.Mesh{mesh}
	doc.Nodes = []*gltf.Node{{Name: "Voxels", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}
