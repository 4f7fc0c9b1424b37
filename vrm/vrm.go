package vrm

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/vrm_browser/gltf"
)

// Model is one loaded VRM (or plain GLB) file: the decoded document graph
// plus the embedded binary chunk. The blob is shared read-only between all
// decode calls for the lifetime of the model.
type Model struct {
	Name string
	Doc  *gltf.Document
	Bin  []byte
}

// Meta is the VRM extension metadata block. VRM files are plain GLB
// containers with an extensions.VRM entry; everything we care about from it
// is informational.
type Meta struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	Version         string `json:"version"`
	ContactInfo     string `json:"contactInformation"`
	Reference       string `json:"reference"`
	LicenseName     string `json:"licenseName"`
	AllowedUserName string `json:"allowedUserName"`
}

func Load(data []byte, name string) (*Model, error) {
	doc, bin, err := gltf.ParseGLB(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to parse %q", name)
	}
	return &Model{Name: name, Doc: doc, Bin: bin}, nil
}

func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read %q", path)
	}
	return Load(data, filepath.Base(path))
}

// Meta returns the VRM metadata block, or nil when the container is a plain
// GLB without the VRM extension or the meta cannot be decoded.
func (m *Model) Meta() *Meta {
	raw, ok := m.Doc.Extensions["VRM"]
	if !ok {
		return nil
	}
	var ext struct {
		Meta *Meta `json:"meta"`
	}
	if err := json.Unmarshal(raw, &ext); err != nil {
		return nil
	}
	return ext.Meta
}

// WalkNodes visits the node tree of every scene depth first, in child-list
// order. Well formed documents are acyclic, but a visited set guards the
// walk against malformed child links anyway.
func (m *Model) WalkNodes(visit func(index uint32, node *gltf.Node, depth int)) {
	visited := make(map[uint32]bool)

	var walk func(index uint32, depth int)
	walk = func(index uint32, depth int) {
		if int(index) >= len(m.Doc.Nodes) || visited[index] {
			return
		}
		visited[index] = true
		node := m.Doc.Nodes[index]
		visit(index, node, depth)
		for _, child := range node.Children {
			walk(child, depth+1)
		}
	}

	for _, scene := range m.Doc.Scenes {
		for _, root := range scene.Nodes {
			walk(root, 0)
		}
	}
}

// PrimitiveBounds resolves the bounding box of a primitive from its position
// accessor min/max when declared, falling back to a decode + scan.
func (m *Model) PrimitiveBounds(p *gltf.Primitive) (min, max mgl32.Vec3, err error) {
	accessorIndex, ok := p.Attributes[gltf.AttrPosition]
	if !ok {
		return min, max, errors.Errorf("primitive has no %s attribute", gltf.AttrPosition)
	}
	if int(accessorIndex) < len(m.Doc.Accessors) {
		acc := m.Doc.Accessors[accessorIndex]
		if len(acc.Min) == 3 && len(acc.Max) == 3 {
			copy(min[:], acc.Min)
			copy(max[:], acc.Max)
			return min, max, nil
		}
	}
	positions, err := gltf.DecodePositions(m.Doc, m.Bin, accessorIndex)
	if err != nil {
		return min, max, err
	}
	min, max = gltf.BoundingCoords(positions)
	return min, max, nil
}
