package gltf

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var (
	testPositions = []mgl32.Vec3{
		{0, 0.5, 0},
		{-0.5, -0.5, 0},
		{0.5, -0.5, 0},
	}
	testIndices = []uint32{0, 1, 2}
)

// buildTriangleDocument lays out one triangle the way the export path does:
// a positions view + accessor followed by an indices view + accessor.
func buildTriangleDocument(t *testing.T) (*Document, []byte) {
	t.Helper()

	doc := NewDocument()
	bw := NewBinWriter()

	posOffset, posLength := bw.AppendVec3s(testPositions)
	idxOffset, idxLength := bw.AppendUint32s(testIndices)

	doc.Buffers = append(doc.Buffers, &Buffer{ByteLength: bw.Len()})
	posView := doc.AddBufferView(&BufferView{
		Buffer: 0, ByteOffset: posOffset, ByteLength: posLength,
		Target: Index(TargetArrayBuffer),
	})
	idxView := doc.AddBufferView(&BufferView{
		Buffer: 0, ByteOffset: idxOffset, ByteLength: idxLength,
		Target: Index(TargetElementArrayBuffer),
	})

	min, max := BoundingCoords(testPositions)
	doc.AddAccessor(&Accessor{
		BufferView:    Index(posView),
		ComponentType: ComponentFloat,
		Type:          AccessorVec3,
		Count:         uint32(len(testPositions)),
		Min:           min[:],
		Max:           max[:],
	})
	doc.AddAccessor(&Accessor{
		BufferView:    Index(idxView),
		ComponentType: ComponentUInt,
		Type:          AccessorScalar,
		Count:         uint32(len(testIndices)),
	})

	return doc, bw.Bytes()
}

func TestTriangleChunkLayout(t *testing.T) {
	_, bin := buildTriangleDocument(t)
	// 9 floats of positions plus 3 u32 indices.
	if len(bin) != 48 {
		t.Errorf("binary chunk is %d bytes, expected 48", len(bin))
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	doc, bin := buildTriangleDocument(t)

	positions, err := DecodePositions(doc, bin, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != len(testPositions) {
		t.Fatalf("decoded %d positions, expected %d", len(positions), len(testPositions))
	}
	for i := range positions {
		if positions[i] != testPositions[i] {
			t.Errorf("position %d: %v != %v", i, positions[i], testPositions[i])
		}
	}

	indices, err := DecodeIndices(doc, bin, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := range indices {
		if indices[i] != testIndices[i] {
			t.Errorf("index %d: %d != %d", i, indices[i], testIndices[i])
		}
	}
}

func TestDecodeRejectsShortIndices(t *testing.T) {
	doc, bin := buildTriangleDocument(t)
	doc.Accessors[1].ComponentType = ComponentUShort
	if _, err := DecodeIndices(doc, bin, 1); !errors.Is(err, ErrUnsupportedFeature) {
		t.Errorf("u16 indices: got %v, expected ErrUnsupportedFeature", err)
	}
}

func TestDecodeRejectsInterleavedView(t *testing.T) {
	doc, bin := buildTriangleDocument(t)
	doc.BufferViews[0].ByteStride = Index(24)
	if _, err := DecodePositions(doc, bin, 0); !errors.Is(err, ErrUnsupportedFeature) {
		t.Errorf("strided view: got %v, expected ErrUnsupportedFeature", err)
	}
}

func TestDecodeAcceptsTightStride(t *testing.T) {
	doc, bin := buildTriangleDocument(t)
	doc.BufferViews[0].ByteStride = Index(12)
	if _, err := DecodePositions(doc, bin, 0); err != nil {
		t.Errorf("tight stride rejected: %v", err)
	}
}

func TestDecodeRejectsSparse(t *testing.T) {
	doc, bin := buildTriangleDocument(t)
	doc.Accessors[0].Sparse = []byte(`{"count":1}`)
	if _, err := DecodePositions(doc, bin, 0); !errors.Is(err, ErrUnsupportedFeature) {
		t.Errorf("sparse accessor: got %v, expected ErrUnsupportedFeature", err)
	}
}

func TestDecodeRejectsExternalBuffer(t *testing.T) {
	doc, bin := buildTriangleDocument(t)
	doc.Buffers[0].URI = "mesh.bin"
	if _, err := DecodePositions(doc, bin, 0); !errors.Is(err, ErrExternalBuffer) {
		t.Errorf("external buffer: got %v, expected ErrExternalBuffer", err)
	}
}

func TestDecodeMissingBinaryChunk(t *testing.T) {
	doc, _ := buildTriangleDocument(t)
	if _, err := DecodePositions(doc, nil, 0); !errors.Is(err, ErrMissingBinaryChunk) {
		t.Errorf("no blob: got %v, expected ErrMissingBinaryChunk", err)
	}
}

func TestDecodeOutOfBounds(t *testing.T) {
	doc, bin := buildTriangleDocument(t)
	doc.Accessors[0].Count = 100
	if _, err := DecodePositions(doc, bin, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("oversized count: got %v, expected ErrOutOfBounds", err)
	}

	doc, bin = buildTriangleDocument(t)
	doc.BufferViews[0].ByteOffset = uint32(len(bin))
	if _, err := DecodePositions(doc, bin, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("oversized view offset: got %v, expected ErrOutOfBounds", err)
	}
}
