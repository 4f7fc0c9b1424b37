package export

import (
	"io"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/vrm_browser/gltf"
)

// Options carries the optional parts of a triangle mesh export. A texture
// requires both png bytes and one uv per vertex.
type Options struct {
	Name       string
	Colors     []mgl32.Vec3
	TexturePNG []byte
	UVs        []mgl32.Vec2
}

// BuildTriangleMesh lays out a complete single-primitive document: position
// and index spans through one bin writer, views and accessors registered in
// dependency order, then mesh, node and scene. Everything is tightly packed;
// interleaving is never produced.
func BuildTriangleMesh(positions []mgl32.Vec3, indices []uint32, opts *Options) (*gltf.Document, []byte, error) {
	if opts == nil {
		opts = &Options{}
	}
	if len(positions) == 0 {
		return nil, nil, errors.Errorf("no vertices to export")
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, nil, errors.Errorf("index count %d is not a triangle list", len(indices))
	}
	if len(opts.Colors) != 0 && len(opts.Colors) != len(positions) {
		return nil, nil, errors.Errorf("%d colors for %d vertices", len(opts.Colors), len(positions))
	}
	if opts.TexturePNG != nil && len(opts.UVs) != len(positions) {
		return nil, nil, errors.Errorf("%d uvs for %d vertices", len(opts.UVs), len(positions))
	}

	doc := gltf.NewDocument()
	bw := gltf.NewBinWriter()

	posOffset, posLength := bw.AppendVec3s(positions)
	posView := doc.AddBufferView(&gltf.BufferView{
		Buffer:     0,
		ByteOffset: posOffset,
		ByteLength: posLength,
		Target:     gltf.Index(gltf.TargetArrayBuffer),
	})
	min, max := gltf.BoundingCoords(positions)
	posAccessor := doc.AddAccessor(&gltf.Accessor{
		BufferView:    gltf.Index(posView),
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         uint32(len(positions)),
		Min:           min[:],
		Max:           max[:],
	})

	attributes := map[string]uint32{gltf.AttrPosition: posAccessor}

	if len(opts.Colors) != 0 {
		colorOffset, colorLength := bw.AppendVec3s(opts.Colors)
		colorView := doc.AddBufferView(&gltf.BufferView{
			Buffer:     0,
			ByteOffset: colorOffset,
			ByteLength: colorLength,
			Target:     gltf.Index(gltf.TargetArrayBuffer),
		})
		attributes[gltf.AttrColor(0)] = doc.AddAccessor(&gltf.Accessor{
			BufferView:    gltf.Index(colorView),
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec3,
			Count:         uint32(len(opts.Colors)),
		})
	}

	idxOffset, idxLength := bw.AppendUint32s(indices)
	idxView := doc.AddBufferView(&gltf.BufferView{
		Buffer:     0,
		ByteOffset: idxOffset,
		ByteLength: idxLength,
		Target:     gltf.Index(gltf.TargetElementArrayBuffer),
	})
	idxAccessor := doc.AddAccessor(&gltf.Accessor{
		BufferView:    gltf.Index(idxView),
		ComponentType: gltf.ComponentUInt,
		Type:          gltf.AccessorScalar,
		Count:         uint32(len(indices)),
	})

	primitive := &gltf.Primitive{
		Attributes: attributes,
		Indices:    gltf.Index(idxAccessor),
		Mode:       gltf.Index(gltf.ModeTriangles),
	}

	if opts.TexturePNG != nil {
		materialIndex := gltf.AssembleTexturedMaterial(doc, bw, opts.TexturePNG, opts.UVs)
		primitive.Material = gltf.Index(materialIndex)
		// The uv accessor the assembler registered is the last one.
		attributes[gltf.AttrTexCoord(0)] = uint32(len(doc.Accessors) - 1)
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       opts.Name,
		Primitives: []*gltf.Primitive{primitive},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: opts.Name,
		Mesh: gltf.Index(0),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	doc.Buffers = append(doc.Buffers, &gltf.Buffer{ByteLength: bw.Len()})

	return doc, bw.Bytes(), nil
}

// WriteTriangleMesh builds the document and serializes it as a GLB.
func WriteTriangleMesh(w io.Writer, positions []mgl32.Vec3, indices []uint32, opts *Options) error {
	doc, bin, err := BuildTriangleMesh(positions, indices, opts)
	if err != nil {
		return err
	}
	return gltf.WriteGLB(w, doc, bin)
}

// BuildDemo reproduces the classic export self test: two triangles over four
// colored vertices.
func BuildDemo() (*gltf.Document, []byte, error) {
	positions := []mgl32.Vec3{
		{0, 0.5, 0},
		{-0.5, -0.5, 0},
		{0.5, -0.5, 0},
		{0, 0, 1},
	}
	colors := []mgl32.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{0, 0, 1},
	}
	indices := []uint32{0, 1, 2, 1, 2, 3}

	return BuildTriangleMesh(positions, indices, &Options{Name: "demo", Colors: colors})
}

// WriteDemo serializes the demo model as a GLB.
func WriteDemo(w io.Writer) error {
	doc, bin, err := BuildDemo()
	if err != nil {
		return err
	}
	log.Printf("[export] Demo model: %d bin bytes", len(bin))
	return gltf.WriteGLB(w, doc, bin)
}
