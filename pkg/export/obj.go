package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pixvox/internal/logging"
	"pixvox/internal/models"
	"pixvox/pkg/palette"
	"pixvox/pkg/voxerr"
)

type objEncoder struct{}

// Encode writes the OBJ mesh and then its MTL file. If the material file
// cannot be written the mesh file is removed again.
func (objEncoder) Encode(m *models.VoxelModel, path string) error {
	mtlPath := MaterialPath(path)
	table := palette.NewTable()

	if err := writeFile(path, func(w io.Writer) error {
		return WriteOBJ(w, m, filepath.Base(mtlPath), table)
	}); err != nil {
		return err
	}

	if err := writeFile(mtlPath, func(w io.Writer) error {
		return WriteMTL(w, table.Colors())
	}); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logging.Warn("could not remove incomplete model", "path", path, "err", rmErr)
		}
		return err
	}

	logging.Debug("wrote obj", "path", path, "voxels", m.Count(), "materials", table.Len())
	return nil
}

// WriteOBJ emits the mesh: header, material library reference, 8 vertices
// per voxel, then per voxel a usemtl directive and 12 faces. Colors are
// registered in table as faces are written.
func WriteOBJ(w io.Writer, m *models.VoxelModel, mtlName string, table *palette.Table) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Generated by %s %s\n\n", Generator, Version)
	fmt.Fprintf(bw, "mtllib %s\n\n", mtlName)

	for _, v := range m.Voxels {
		for _, c := range CubeCorners(v, m.Unit) {
			fmt.Fprintf(bw, "v %.2f %.2f %.2f\n", c.X, c.Y, c.Z)
		}
	}

	bw.WriteString("\n")

	for i, v := range m.Voxels {
		base := i * VerticesPerVoxel
		fmt.Fprintf(bw, "\nusemtl %s\n\n", MaterialName(table.Lookup(v.Color)))
		for _, f := range faceIndices {
			fmt.Fprintf(bw, "f %d %d %d\n", base+f[0], base+f[1], base+f[2])
		}
	}

	return bw.Flush()
}

// WriteMTL emits one material per color with its diffuse component.
func WriteMTL(w io.Writer, colors []models.RGB) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Generated by %s %s\n", Generator, Version)
	for i, c := range colors {
		kd := c.Float()
		fmt.Fprintf(bw, "\nnewmtl %s\n", MaterialName(i))
		fmt.Fprintf(bw, "Kd %.4f %.4f %.4f\n", kd[0], kd[1], kd[2])
	}

	return bw.Flush()
}

// writeFile creates path and hands it to write, mapping every failure to
// an IoError. The handle is closed on all paths.
func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return voxerr.IO("export", path, err, "couldn't open file for writing")
	}
	if err := write(file); err != nil {
		file.Close()
		return voxerr.IO("export", path, err, "couldn't write file")
	}
	if err := file.Close(); err != nil {
		return voxerr.IO("export", path, err, "couldn't write file")
	}
	return nil
}
