package vrm

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/vrm_browser/gltf"
)

// Views larger than this are summarized instead of printed element by
// element.
const reportDecodeLimit = 1000

// Report prints a human readable summary of the model: scene/node tree,
// meshes with their primitives, accessor and view details, and decoded
// positions for small views.
func (m *Model) Report(w io.Writer) error {
	fmt.Fprintf(w, "%s: BIN section has %d bytes\n", m.Name, len(m.Bin))

	if meta := m.Meta(); meta != nil {
		fmt.Fprintf(w, "VRM meta: title %q, author %q, version %q\n",
			meta.Title, meta.Author, meta.Version)
	}

	for iScene, scene := range m.Doc.Scenes {
		fmt.Fprintf(w, "Scene #%d has %d children\n", iScene, len(scene.Nodes))
	}
	m.WalkNodes(func(index uint32, node *gltf.Node, depth int) {
		fmt.Fprintf(w, "%sname: %q\n", strings.Repeat(" ", depth), node.Name)
	})

	for iMesh, mesh := range m.Doc.Meshes {
		fmt.Fprintf(w, "Mesh #%d has %d primitives. name = %q\n",
			iMesh, len(mesh.Primitives), mesh.Name)
		for iPrim, prim := range mesh.Primitives {
			if err := m.reportPrimitive(w, iPrim, prim); err != nil {
				return errors.Wrapf(err, "Failed to report mesh %d primitive %d", iMesh, iPrim)
			}
		}
	}
	return nil
}

func (m *Model) reportPrimitive(w io.Writer, iPrim int, prim *gltf.Primitive) error {
	min, max, boundsErr := m.PrimitiveBounds(prim)
	if boundsErr != nil {
		fmt.Fprintf(w, "primitive #%d: mode = %d, bounds unavailable: %v\n",
			iPrim, prim.ModeOrDefault(), boundsErr)
	} else {
		fmt.Fprintf(w, "primitive #%d: mode = %d, bounds = %v..%v\n",
			iPrim, prim.ModeOrDefault(), min, max)
	}

	posIndex, hasPositions := prim.Attributes[gltf.AttrPosition]
	if !hasPositions || prim.Indices == nil {
		return nil
	}

	// Parsing never validates cross references, so every index coming out
	// of the document has to be checked before use.
	if int(posIndex) >= len(m.Doc.Accessors) {
		return errors.Wrapf(gltf.ErrFormat, "positions accessor %d out of range", posIndex)
	}
	if int(*prim.Indices) >= len(m.Doc.Accessors) {
		return errors.Wrapf(gltf.ErrFormat, "indices accessor %d out of range", *prim.Indices)
	}

	m.reportAccessor(w, "Positions", posIndex)
	m.reportAccessor(w, "Indices", *prim.Indices)

	acc := m.Doc.Accessors[posIndex]
	if acc.BufferView == nil {
		return nil
	}
	if int(*acc.BufferView) >= len(m.Doc.BufferViews) {
		return errors.Wrapf(gltf.ErrFormat, "buffer view %d out of range", *acc.BufferView)
	}
	view := m.Doc.BufferViews[*acc.BufferView]
	if int(view.Buffer) >= len(m.Doc.Buffers) {
		return errors.Wrapf(gltf.ErrFormat, "buffer %d out of range", view.Buffer)
	}
	stride := "tight"
	if view.ByteStride != nil {
		stride = fmt.Sprintf("%d", *view.ByteStride)
	}
	fmt.Fprintf(w, "View: len %d bytes, ofs %d bytes, stride: %s, name: %q\n",
		view.ByteLength, view.ByteOffset, stride, view.Name)
	buf := m.Doc.Buffers[view.Buffer]
	fmt.Fprintf(w, "Buf #%d: uri %q, name %q, len %d bytes\n",
		view.Buffer, buf.URI, buf.Name, buf.ByteLength)

	if view.ByteLength < reportDecodeLimit {
		positions, err := gltf.DecodePositions(m.Doc, m.Bin, posIndex)
		if err != nil {
			return err
		}
		indices, err := gltf.DecodeIndices(m.Doc, m.Bin, *prim.Indices)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d vertices, %d triangles\n", len(positions), len(indices)/3)
		for _, p := range positions {
			fmt.Fprintf(w, "%v\n", p)
		}
	}
	return nil
}

func (m *Model) reportAccessor(w io.Writer, label string, index uint32) {
	acc := m.Doc.Accessors[index]
	fmt.Fprintf(w, "%s accessor: %s %s %d\n", label, acc.Type, acc.ComponentType, acc.Count)
}
