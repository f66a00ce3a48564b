package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"gonum.org/v1/gonum/spatial/r3"

	"pixvox/internal/models"
	"pixvox/pkg/palette"
	"pixvox/pkg/stl"
	"pixvox/pkg/voxerr"
)

var red = models.RGB{R: 255}

// redPixelModel is the 2x1 image with one opaque red pixel at depth 2
func redPixelModel() *models.VoxelModel {
	return &models.VoxelModel{
		Voxels: []models.Voxel{
			{Position: r3.Vec{X: -2, Y: -1, Z: 2}, Color: red},
			{Position: r3.Vec{X: -2, Y: -1, Z: 0}, Color: red},
		},
		Unit:  1,
		Width: 2, Height: 1, Depth: 2,
	}
}

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return strings.Split(string(data), "\n")
}

func TestExportOBJScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.obj")

	if err := Export(redPixelModel(), path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	obj := readLines(t, path)
	if got := countPrefix(obj, "v "); got != 16 {
		t.Errorf("Expected 16 vertex lines, got %d", got)
	}
	if got := countPrefix(obj, "f "); got != 24 {
		t.Errorf("Expected 24 face lines, got %d", got)
	}
	if got := countPrefix(obj, "usemtl color_0"); got != 2 {
		t.Errorf("Expected 2 usemtl directives, got %d", got)
	}
	if obj[0] != "# Generated by pixvox "+Version {
		t.Errorf("Unexpected header %q", obj[0])
	}
	if countPrefix(obj, "mtllib model.mtl") != 1 {
		t.Errorf("missing material library reference")
	}

	mtl := readLines(t, filepath.Join(dir, "model.mtl"))
	if got := countPrefix(mtl, "newmtl "); got != 1 {
		t.Errorf("Expected 1 material, got %d", got)
	}
	if countPrefix(mtl, "Kd 1.0000 0.0000 0.0000") != 1 {
		t.Errorf("missing red diffuse line in %q", mtl)
	}
}

// TestWriteOBJExact pins the full text layout for a single voxel
func TestWriteOBJExact(t *testing.T) {
	m := &models.VoxelModel{
		Voxels: []models.Voxel{{Position: r3.Vec{X: 1, Y: 0, Z: -1}, Color: models.RGB{R: 51, G: 102, B: 255}}},
		Unit:   0.5,
	}
	var obj, mtl bytes.Buffer
	table := palette.NewTable()
	if err := WriteOBJ(&obj, m, "cube.mtl", table); err != nil {
		t.Fatal(err)
	}
	if err := WriteMTL(&mtl, table.Colors()); err != nil {
		t.Fatal(err)
	}

	wantOBJ := "# Generated by pixvox " + Version + "\n\n" +
		"mtllib cube.mtl\n\n" +
		"v 0.50 -0.50 -0.50\n" +
		"v 1.50 -0.50 -0.50\n" +
		"v 0.50 0.50 -0.50\n" +
		"v 1.50 0.50 -0.50\n" +
		"v 1.50 -0.50 -1.50\n" +
		"v 0.50 -0.50 -1.50\n" +
		"v 1.50 0.50 -1.50\n" +
		"v 0.50 0.50 -1.50\n" +
		"\n" +
		"\nusemtl color_0\n\n" +
		"f 1 2 3\nf 2 4 3\nf 5 6 7\nf 6 8 7\n" +
		"f 3 6 1\nf 3 8 6\nf 7 2 5\nf 7 4 2\n" +
		"f 3 7 8\nf 3 4 7\nf 2 6 5\nf 2 1 6\n"
	if obj.String() != wantOBJ {
		t.Errorf("OBJ mismatch\ngot:\n%s\nwant:\n%s", obj.String(), wantOBJ)
	}

	wantMTL := "# Generated by pixvox " + Version + "\n" +
		"\nnewmtl color_0\n" +
		"Kd 0.2000 0.4000 1.0000\n"
	if mtl.String() != wantMTL {
		t.Errorf("MTL mismatch\ngot:\n%s\nwant:\n%s", mtl.String(), wantMTL)
	}
}

// TestFaceIndicesAreFileGlobal checks the 8-vertex offset of later voxels
func TestFaceIndicesAreFileGlobal(t *testing.T) {
	m := redPixelModel()
	m.Voxels = append(m.Voxels, models.Voxel{Color: models.RGB{B: 1}})

	var obj bytes.Buffer
	table := palette.NewTable()
	if err := WriteOBJ(&obj, m, "m.mtl", table); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(obj.String(), "\n")

	var faces []string
	var materials []string
	for _, l := range lines {
		if strings.HasPrefix(l, "f ") {
			faces = append(faces, l)
		}
		if strings.HasPrefix(l, "usemtl ") {
			materials = append(materials, l)
		}
	}
	if faces[12] != "f 9 10 11" || faces[35] != "f 18 17 22" {
		t.Errorf("unexpected face indices %q, %q", faces[12], faces[35])
	}
	want := []string{"usemtl color_0", "usemtl color_0", "usemtl color_1"}
	for i := range want {
		if materials[i] != want[i] {
			t.Errorf("material %d = %q, want %q", i, materials[i], want[i])
		}
	}
	if table.Len() != 2 {
		t.Errorf("Expected 2 colors, got %d", table.Len())
	}
}

func TestExportCountsProperty(t *testing.T) {
	colors := []models.RGB{{R: 1}, {G: 2}, {B: 3}, {R: 1}, {G: 2}}
	m := &models.VoxelModel{Unit: 1}
	for i, c := range colors {
		m.Voxels = append(m.Voxels, models.Voxel{Position: r3.Vec{X: float64(i)}, Color: c})
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "counts.obj")
	if err := Export(m, path); err != nil {
		t.Fatal(err)
	}

	obj := readLines(t, path)
	if got := countPrefix(obj, "v "); got != m.Count()*VerticesPerVoxel {
		t.Errorf("Expected %d vertices, got %d", m.Count()*VerticesPerVoxel, got)
	}
	if got := countPrefix(obj, "f "); got != m.Count()*FacesPerVoxel {
		t.Errorf("Expected %d faces, got %d", m.Count()*FacesPerVoxel, got)
	}

	mtl := readLines(t, MaterialPath(path))
	got := countPrefix(mtl, "newmtl ")
	if got != 3 {
		t.Errorf("Expected 3 materials, got %d", got)
	}
	if got > m.Count() {
		t.Errorf("more materials than voxels")
	}
}

func TestExportEmptyModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.obj")
	if err := Export(&models.VoxelModel{Unit: 1}, path); err != nil {
		t.Fatalf("empty model should export: %v", err)
	}

	obj := readLines(t, path)
	if countPrefix(obj, "v ") != 0 || countPrefix(obj, "f ") != 0 {
		t.Errorf("empty model produced geometry")
	}
	mtl := readLines(t, filepath.Join(dir, "empty.mtl"))
	if countPrefix(mtl, "newmtl ") != 0 {
		t.Errorf("empty model produced materials")
	}
}

func TestMaterialPath(t *testing.T) {
	tests := map[string]string{
		"model.obj":             "model.mtl",
		"out/dir/model.obj":     "out/dir/model.mtl",
		"out/v1.2/model.OBJ":    "out/v1.2/model.mtl",
		"out/archive.tar.obj":   "out/archive.tar.mtl",
		filepath.Join("a", "b"): filepath.Join("a", "b") + ".mtl",
	}
	for in, want := range tests {
		if got := MaterialPath(in); got != want {
			t.Errorf("MaterialPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExportErrors(t *testing.T) {
	dir := t.TempDir()

	err := Export(redPixelModel(), filepath.Join(dir, "model.ply"))
	if !errors.Is(err, voxerr.ErrUnsupportedFormat) {
		t.Errorf("expected UnsupportedFormatError, got %v", err)
	}
	err = Export(redPixelModel(), filepath.Join(dir, "model"))
	if !errors.Is(err, voxerr.ErrUnsupportedFormat) {
		t.Errorf("expected UnsupportedFormatError, got %v", err)
	}

	for _, ext := range []string{".obj", ".glb", ".stl"} {
		err = Export(redPixelModel(), filepath.Join(dir, "missing", "model"+ext))
		if !errors.Is(err, voxerr.ErrIO) {
			t.Errorf("%s: expected IoError, got %v", ext, err)
		}
	}
}

// TestMaterialFailureRemovesMesh blocks the .mtl path with a directory
func TestMaterialFailureRemovesMesh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.obj")
	if err := os.Mkdir(filepath.Join(dir, "model.mtl"), 0755); err != nil {
		t.Fatal(err)
	}

	err := Export(redPixelModel(), path)
	if !errors.Is(err, voxerr.ErrIO) {
		t.Fatalf("expected IoError, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("mesh file should have been removed, stat: %v", err)
	}
}

func TestExportSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.stl")
	m := redPixelModel()
	if err := Export(m, path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	triangles, err := stl.ReadSTL(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(triangles) != m.Count()*FacesPerVoxel {
		t.Fatalf("Expected %d triangles, got %d", m.Count()*FacesPerVoxel, len(triangles))
	}
	for _, tri := range triangles {
		if tri.Attribute != stl.PackColor(255, 0, 0) {
			t.Fatalf("unexpected attribute %#04x", tri.Attribute)
		}
	}
}

func TestBuildGLTF(t *testing.T) {
	m := redPixelModel()
	m.Voxels = append(m.Voxels, models.Voxel{Color: models.RGB{G: 255}})

	doc := BuildGLTF(m)
	if len(doc.Materials) != 2 {
		t.Fatalf("Expected 2 materials, got %d", len(doc.Materials))
	}
	if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 2 {
		t.Fatalf("Expected 1 mesh with 2 primitives")
	}

	first := doc.Meshes[0].Primitives[0]
	pos := doc.Accessors[first.Attributes[gltf.POSITION]]
	if pos.Count != 2*FacesPerVoxel*3 {
		t.Errorf("Expected %d positions, got %d", 2*FacesPerVoxel*3, pos.Count)
	}
	if *first.Material != 0 || *doc.Meshes[0].Primitives[1].Material != 1 {
		t.Errorf("primitives not bound to their materials")
	}

	base := doc.Materials[1].PBRMetallicRoughness.BaseColorFactor
	if base == nil || *base != [4]float64{0, 1, 0, 1} {
		t.Errorf("unexpected base color %v", base)
	}
}

func TestExportGLB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.glb")
	if err := Export(redPixelModel(), path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen GLB: %v", err)
	}
	if len(doc.Materials) != 1 || doc.Materials[0].Name != "color_0" {
		t.Errorf("unexpected materials %v", doc.Materials)
	}
	if len(doc.Nodes) != 1 {
		t.Errorf("Expected 1 node, got %d", len(doc.Nodes))
	}
	if len(doc.Scenes) != 1 || len(doc.Scenes[0].Nodes) != 1 || doc.Scenes[0].Nodes[0] != 0 {
		t.Errorf("scene does not reference the voxel node: %v", doc.Scenes)
	}

	prim := doc.Meshes[0].Primitives[0]
	if prim.Indices == nil || *prim.Indices >= len(doc.Accessors) {
		t.Fatalf("primitive has no valid index accessor")
	}
	if doc.Accessors[*prim.Indices].Count != FacesPerVoxel*3*2 {
		t.Errorf("Expected %d indices, got %d", FacesPerVoxel*3*2, doc.Accessors[*prim.Indices].Count)
	}
	if _, ok := prim.Attributes[gltf.NORMAL]; !ok {
		t.Errorf("primitive has no normals")
	}
	base := doc.Materials[0].PBRMetallicRoughness.BaseColorFactor
	if base == nil || *base != [4]float64{1, 0, 0, 1} {
		t.Errorf("unexpected base color %v", base)
	}
}

func TestBuildGLTFEmpty(t *testing.T) {
	doc := BuildGLTF(&models.VoxelModel{Unit: 1})
	if len(doc.Meshes) != 0 || len(doc.Materials) != 0 {
		t.Errorf("empty model should produce an empty document")
	}
}
