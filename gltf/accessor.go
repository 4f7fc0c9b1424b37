package gltf

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ViewData slices the embedded binary chunk for a buffer view. Only buffers
// stored in the BIN chunk are supported; a view over an uri-referenced
// buffer fails with ErrExternalBuffer.
func ViewData(doc *Document, bin []byte, viewIndex uint32) ([]byte, error) {
	if int(viewIndex) >= len(doc.BufferViews) {
		return nil, errors.Wrapf(ErrFormat, "buffer view %d out of range", viewIndex)
	}
	view := doc.BufferViews[viewIndex]
	if int(view.Buffer) >= len(doc.Buffers) {
		return nil, errors.Wrapf(ErrFormat, "buffer %d out of range", view.Buffer)
	}
	if !doc.Buffers[view.Buffer].IsEmbedded() {
		return nil, errors.Wrapf(ErrExternalBuffer, "buffer %d uri %q",
			view.Buffer, doc.Buffers[view.Buffer].URI)
	}
	if len(bin) == 0 {
		return nil, errors.Wrapf(ErrMissingBinaryChunk, "buffer view %d", viewIndex)
	}
	end := uint64(view.ByteOffset) + uint64(view.ByteLength)
	if end > uint64(len(bin)) {
		return nil, errors.Wrapf(ErrOutOfBounds,
			"buffer view %d spans [%d:%d] of %d byte chunk",
			viewIndex, view.ByteOffset, end, len(bin))
	}
	return bin[view.ByteOffset:end], nil
}

// accessorData resolves an accessor of the exact declared component type and
// shape down to its tightly packed bytes inside the binary chunk.
func accessorData(doc *Document, bin []byte, accessorIndex uint32,
	wantComponent ComponentType, wantShape AccessorType) ([]byte, uint32, error) {

	if int(accessorIndex) >= len(doc.Accessors) {
		return nil, 0, errors.Wrapf(ErrFormat, "accessor %d out of range", accessorIndex)
	}
	acc := doc.Accessors[accessorIndex]

	if acc.Sparse != nil {
		return nil, 0, errors.Wrapf(ErrUnsupportedFeature, "accessor %d is sparse", accessorIndex)
	}
	if acc.BufferView == nil {
		return nil, 0, errors.Wrapf(ErrUnsupportedFeature,
			"accessor %d has no buffer view", accessorIndex)
	}
	if acc.ComponentType != wantComponent || acc.Type != wantShape {
		return nil, 0, errors.Wrapf(ErrUnsupportedFeature,
			"accessor %d is %v/%v, only %v/%v handled here",
			accessorIndex, acc.ComponentType, acc.Type, wantComponent, wantShape)
	}

	if int(*acc.BufferView) >= len(doc.BufferViews) {
		return nil, 0, errors.Wrapf(ErrFormat, "buffer view %d out of range", *acc.BufferView)
	}
	elemSize := acc.ElemSize()
	view := doc.BufferViews[*acc.BufferView]
	if view.ByteStride != nil && *view.ByteStride != elemSize {
		return nil, 0, errors.Wrapf(ErrUnsupportedFeature,
			"accessor %d over interleaved view: stride %d, element size %d",
			accessorIndex, *view.ByteStride, elemSize)
	}

	data, err := ViewData(doc, bin, *acc.BufferView)
	if err != nil {
		return nil, 0, err
	}

	start := uint64(acc.ByteOffset)
	length := uint64(acc.Count) * uint64(elemSize)
	if start+length > uint64(len(data)) {
		return nil, 0, errors.Wrapf(ErrOutOfBounds,
			"accessor %d needs [%d:%d] of %d byte view",
			accessorIndex, start, start+length, len(data))
	}
	return data[start : start+length], acc.Count, nil
}

// DecodePositions decodes a FLOAT/VEC3 accessor into vertex positions.
func DecodePositions(doc *Document, bin []byte, accessorIndex uint32) ([]mgl32.Vec3, error) {
	data, count, err := accessorData(doc, bin, accessorIndex, ComponentFloat, AccessorVec3)
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Vec3, count)
	for i := range out {
		for c := 0; c < 3; c++ {
			bits := binary.LittleEndian.Uint32(data[(i*3+c)*4:])
			out[i][c] = math.Float32frombits(bits)
		}
	}
	return out, nil
}

// DecodeTexCoords decodes a FLOAT/VEC2 accessor into texture coordinates.
func DecodeTexCoords(doc *Document, bin []byte, accessorIndex uint32) ([]mgl32.Vec2, error) {
	data, count, err := accessorData(doc, bin, accessorIndex, ComponentFloat, AccessorVec2)
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Vec2, count)
	for i := range out {
		for c := 0; c < 2; c++ {
			bits := binary.LittleEndian.Uint32(data[(i*2+c)*4:])
			out[i][c] = math.Float32frombits(bits)
		}
	}
	return out, nil
}

// DecodeIndices decodes an UNSIGNED_INT/SCALAR accessor into element indices.
func DecodeIndices(doc *Document, bin []byte, accessorIndex uint32) ([]uint32, error) {
	data, count, err := accessorData(doc, bin, accessorIndex, ComponentUInt, AccessorScalar)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out, nil
}
