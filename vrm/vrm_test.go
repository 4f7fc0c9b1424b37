package vrm_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/mogaika/vrm_browser/export"
	"github.com/mogaika/vrm_browser/gltf"
	"github.com/mogaika/vrm_browser/vrm"
)

func demoModel(t *testing.T) *vrm.Model {
	t.Helper()
	var buf bytes.Buffer
	if err := export.WriteDemo(&buf); err != nil {
		t.Fatal(err)
	}
	m, err := vrm.Load(buf.Bytes(), "demo.glb")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestLoadDemo(t *testing.T) {
	m := demoModel(t)
	if len(m.Doc.Meshes) != 1 || len(m.Bin) == 0 {
		t.Fatalf("unexpected demo model: %d meshes, %d bin bytes",
			len(m.Doc.Meshes), len(m.Bin))
	}
}

func TestMeta(t *testing.T) {
	m := demoModel(t)
	if m.Meta() != nil {
		t.Error("plain glb reported vrm meta")
	}

	m.Doc.Extensions = map[string]json.RawMessage{
		"VRM": json.RawMessage(`{"meta":{"title":"Avatar","author":"someone","version":"1.0"}}`),
	}
	meta := m.Meta()
	if meta == nil {
		t.Fatal("vrm meta not found")
	}
	if meta.Title != "Avatar" || meta.Author != "someone" || meta.Version != "1.0" {
		t.Errorf("meta %+v", meta)
	}
}

func TestWalkNodesOrderAndDepth(t *testing.T) {
	m := demoModel(t)
	m.Doc.Nodes = []*gltf.Node{
		{Name: "root", Children: []uint32{1, 2}},
		{Name: "left"},
		{Name: "right", Children: []uint32{3}},
		{Name: "leaf"},
	}
	m.Doc.Scenes = []*gltf.Scene{{Nodes: []uint32{0}}}

	var names []string
	var depths []int
	m.WalkNodes(func(index uint32, node *gltf.Node, depth int) {
		names = append(names, node.Name)
		depths = append(depths, depth)
	})

	if strings.Join(names, ",") != "root,left,right,leaf" {
		t.Errorf("visit order %v", names)
	}
	for i, want := range []int{0, 1, 1, 2} {
		if depths[i] != want {
			t.Errorf("depth of %q is %d, expected %d", names[i], depths[i], want)
		}
	}
}

func TestWalkNodesSurvivesCycle(t *testing.T) {
	m := demoModel(t)
	m.Doc.Nodes = []*gltf.Node{
		{Name: "a", Children: []uint32{1}},
		{Name: "b", Children: []uint32{0}},
	}
	m.Doc.Scenes = []*gltf.Scene{{Nodes: []uint32{0}}}

	visits := 0
	m.WalkNodes(func(index uint32, node *gltf.Node, depth int) { visits++ })
	if visits != 2 {
		t.Errorf("cyclic graph visited %d times, expected 2", visits)
	}
}

func TestPrimitiveBounds(t *testing.T) {
	m := demoModel(t)
	prim := m.Doc.Meshes[0].Primitives[0]

	min, max, err := m.PrimitiveBounds(prim)
	if err != nil {
		t.Fatal(err)
	}
	if min.X() != -0.5 || max.Y() != 0.5 || max.Z() != 1 {
		t.Errorf("bounds %v..%v", min, max)
	}

	// Strip the declared min/max so the fallback decode path runs.
	acc := m.Doc.Accessors[prim.Attributes[gltf.AttrPosition]]
	acc.Min, acc.Max = nil, nil
	dmin, dmax, err := m.PrimitiveBounds(prim)
	if err != nil {
		t.Fatal(err)
	}
	if dmin != min || dmax != max {
		t.Errorf("decoded bounds %v..%v, declared %v..%v", dmin, dmax, min, max)
	}
}

// Parsing skips cross-reference validation, so reports over documents with
// dangling indices must fail cleanly instead of panicking.
func TestReportDanglingIndices(t *testing.T) {
	breakages := []struct {
		name  string
		apply func(m *vrm.Model)
	}{
		{"positions accessor", func(m *vrm.Model) {
			m.Doc.Meshes[0].Primitives[0].Attributes[gltf.AttrPosition] = 99
		}},
		{"indices accessor", func(m *vrm.Model) {
			m.Doc.Meshes[0].Primitives[0].Indices = gltf.Index(99)
		}},
		{"buffer view", func(m *vrm.Model) {
			prim := m.Doc.Meshes[0].Primitives[0]
			m.Doc.Accessors[prim.Attributes[gltf.AttrPosition]].BufferView = gltf.Index(99)
		}},
		{"buffer", func(m *vrm.Model) {
			m.Doc.BufferViews[0].Buffer = 99
		}},
	}

	for _, breakage := range breakages {
		m := demoModel(t)
		breakage.apply(m)
		var out bytes.Buffer
		if err := m.Report(&out); !errors.Is(err, gltf.ErrFormat) {
			t.Errorf("dangling %s: got %v, expected ErrFormat", breakage.name, err)
		}
	}
}

func TestReport(t *testing.T) {
	m := demoModel(t)
	var out bytes.Buffer
	if err := m.Report(&out); err != nil {
		t.Fatal(err)
	}
	report := out.String()
	for _, want := range []string{
		"BIN section has 120 bytes",
		"Scene #0 has 1 children",
		"Mesh #0 has 1 primitives",
		"4 vertices, 2 triangles",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report misses %q:\n%s", want, report)
		}
	}
}
