package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mogaika/vrm_browser/export"
	"github.com/mogaika/vrm_browser/gltf"
	"github.com/mogaika/vrm_browser/vrm"
	"github.com/mogaika/vrm_browser/webutils"
)

type primitiveSummary struct {
	Mode      uint32      `json:"mode"`
	Vertices  uint32      `json:"vertices"`
	Indices   uint32      `json:"indices"`
	Material  *uint32     `json:"material,omitempty"`
	BoundsMin *[3]float32 `json:"boundsMin,omitempty"`
	BoundsMax *[3]float32 `json:"boundsMax,omitempty"`
}

type meshSummary struct {
	Name       string             `json:"name"`
	Primitives []primitiveSummary `json:"primitives"`
}

type modelSummary struct {
	Name      string        `json:"name"`
	BinBytes  int           `json:"binBytes"`
	Meta      *vrm.Meta     `json:"meta,omitempty"`
	Scenes    int           `json:"scenes"`
	Nodes     int           `json:"nodes"`
	Images    int           `json:"images"`
	Materials int           `json:"materials"`
	Meshes    []meshSummary `json:"meshes"`
}

func HandlerModelSummary(w http.ResponseWriter, r *http.Request) {
	m := ServedModel
	summary := modelSummary{
		Name:      m.Name,
		BinBytes:  len(m.Bin),
		Meta:      m.Meta(),
		Scenes:    len(m.Doc.Scenes),
		Nodes:     len(m.Doc.Nodes),
		Images:    len(m.Doc.Images),
		Materials: len(m.Doc.Materials),
	}
	for _, mesh := range m.Doc.Meshes {
		ms := meshSummary{Name: mesh.Name}
		for _, prim := range mesh.Primitives {
			ps := primitiveSummary{
				Mode:     prim.ModeOrDefault(),
				Material: prim.Material,
			}
			if posIndex, ok := prim.Attributes[gltf.AttrPosition]; ok &&
				int(posIndex) < len(m.Doc.Accessors) {
				ps.Vertices = m.Doc.Accessors[posIndex].Count
			}
			if prim.Indices != nil && int(*prim.Indices) < len(m.Doc.Accessors) {
				ps.Indices = m.Doc.Accessors[*prim.Indices].Count
			}
			if min, max, err := m.PrimitiveBounds(prim); err == nil {
				bmin, bmax := [3]float32(min), [3]float32(max)
				ps.BoundsMin, ps.BoundsMax = &bmin, &bmax
			}
			ms.Primitives = append(ms.Primitives, ps)
		}
		summary.Meshes = append(summary.Meshes, ms)
	}
	webutils.WriteJson(w, &summary)
}

func HandlerMeta(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, ServedModel.Meta())
}

type treeNode struct {
	Index    uint32      `json:"index"`
	Name     string      `json:"name"`
	Mesh     *uint32     `json:"mesh,omitempty"`
	Children []*treeNode `json:"children,omitempty"`
}

func HandlerNodeTree(w http.ResponseWriter, r *http.Request) {
	roots := make([]*treeNode, 0)
	stack := []*treeNode{}
	ServedModel.WalkNodes(func(index uint32, node *gltf.Node, depth int) {
		tn := &treeNode{Index: index, Name: node.Name, Mesh: node.Mesh}
		stack = stack[:depth]
		if depth == 0 {
			roots = append(roots, tn)
		} else {
			parent := stack[depth-1]
			parent.Children = append(parent.Children, tn)
		}
		stack = append(stack, tn)
	})
	webutils.WriteJson(w, roots)
}

func HandlerDumpGLB(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := gltf.WriteGLB(&buf, ServedModel.Doc, ServedModel.Bin); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, ServedModel.Name)
}

func HandlerDumpImage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 || index >= len(ServedModel.Doc.Images) {
		webutils.WriteError(w, fmt.Errorf("bad image index %q", mux.Vars(r)["index"]))
		return
	}
	image := ServedModel.Doc.Images[index]
	if image.MimeType != "" && image.MimeType != "image/png" {
		webutils.WriteError(w, gltf.ErrImageFormat)
		return
	}
	if image.BufferView == nil {
		webutils.WriteError(w, gltf.ErrExternalBuffer)
		return
	}
	data, err := gltf.ViewData(ServedModel.Doc, ServedModel.Bin, *image.BufferView)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, bytes.NewReader(data), fmt.Sprintf("image%d.png", index))
}

func HandlerDumpPrimitive(w http.ResponseWriter, r *http.Request) {
	m := ServedModel
	iMesh, err := strconv.Atoi(mux.Vars(r)["mesh"])
	if err != nil || iMesh < 0 || iMesh >= len(m.Doc.Meshes) {
		webutils.WriteError(w, fmt.Errorf("bad mesh index %q", mux.Vars(r)["mesh"]))
		return
	}
	mesh := m.Doc.Meshes[iMesh]
	iPrim, err := strconv.Atoi(mux.Vars(r)["prim"])
	if err != nil || iPrim < 0 || iPrim >= len(mesh.Primitives) {
		webutils.WriteError(w, fmt.Errorf("bad primitive index %q", mux.Vars(r)["prim"]))
		return
	}
	prim := mesh.Primitives[iPrim]

	posIndex, ok := prim.Attributes[gltf.AttrPosition]
	if !ok || prim.Indices == nil {
		webutils.WriteError(w, fmt.Errorf("primitive has no positions or indices"))
		return
	}
	positions, err := gltf.DecodePositions(m.Doc, m.Bin, posIndex)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	indices, err := gltf.DecodeIndices(m.Doc, m.Bin, *prim.Indices)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	name := fmt.Sprintf("mesh%d_prim%d.glb", iMesh, iPrim)
	var buf bytes.Buffer
	if err := export.WriteTriangleMesh(&buf, positions, indices, &export.Options{Name: name}); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, name)
}
