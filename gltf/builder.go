package gltf

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BinWriter owns the binary chunk of one export. It only ever appends:
// every span starts at the current 4-aligned end and the buffer is
// zero-padded back to a multiple of 4 after each call, so the alignment
// invariant holds before and after every Append.
type BinWriter struct {
	buf []byte
}

func NewBinWriter() *BinWriter {
	return &BinWriter{buf: make([]byte, 0, 4096)}
}

// Append copies b verbatim at the current end and pads with zero bytes up
// to the next multiple of 4. The returned length is the unpadded len(b),
// which is what byteLength fields want; padding is purely placement.
func (bw *BinWriter) Append(b []byte) (offset, length uint32) {
	offset = uint32(len(bw.buf))
	bw.buf = append(bw.buf, b...)
	for len(bw.buf)%4 != 0 {
		bw.buf = append(bw.buf, 0)
	}
	return offset, uint32(len(b))
}

// AppendVec3s appends a flattened little-endian float32 triple array.
func (bw *BinWriter) AppendVec3s(v []mgl32.Vec3) (offset, length uint32) {
	raw := make([]byte, len(v)*3*4)
	for i, p := range v {
		for c := 0; c < 3; c++ {
			binary.LittleEndian.PutUint32(raw[(i*3+c)*4:], math.Float32bits(p[c]))
		}
	}
	return bw.Append(raw)
}

// AppendVec2s appends a flattened little-endian float32 pair array.
func (bw *BinWriter) AppendVec2s(v []mgl32.Vec2) (offset, length uint32) {
	raw := make([]byte, len(v)*2*4)
	for i, p := range v {
		for c := 0; c < 2; c++ {
			binary.LittleEndian.PutUint32(raw[(i*2+c)*4:], math.Float32bits(p[c]))
		}
	}
	return bw.Append(raw)
}

// AppendUint32s appends a little-endian u32 array.
func (bw *BinWriter) AppendUint32s(v []uint32) (offset, length uint32) {
	raw := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(raw[i*4:], x)
	}
	return bw.Append(raw)
}

func (bw *BinWriter) Len() uint32 { return uint32(len(bw.buf)) }

func (bw *BinWriter) Bytes() []byte { return bw.buf }

// AddBufferView appends a view and returns its dense zero-based index.
func (doc *Document) AddBufferView(view *BufferView) uint32 {
	index := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, view)
	return index
}

// AddAccessor appends an accessor and returns its dense zero-based index.
// The buffer view it references must already be registered.
func (doc *Document) AddAccessor(accessor *Accessor) uint32 {
	index := uint32(len(doc.Accessors))
	doc.Accessors = append(doc.Accessors, accessor)
	return index
}

// BoundingCoords computes the component-wise min/max of the points in one
// linear scan. NaN input is not guarded against.
func BoundingCoords(points []mgl32.Vec3) (min, max mgl32.Vec3) {
	min = mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	max = mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, p := range points {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max
}

// BoundingCoords2 is BoundingCoords for texture coordinates.
func BoundingCoords2(points []mgl32.Vec2) (min, max mgl32.Vec2) {
	min = mgl32.Vec2{math.MaxFloat32, math.MaxFloat32}
	max = mgl32.Vec2{-math.MaxFloat32, -math.MaxFloat32}
	for _, p := range points {
		for i := 0; i < 2; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max
}
