package gltf

import "github.com/pkg/errors"

// Sentinel errors for everything that can go wrong between raw GLB bytes
// and typed arrays. Callers match with errors.Is; intermediate layers only
// add context via errors.Wrapf.
var (
	ErrFormat             = errors.New("invalid glb container")
	ErrMissingBinaryChunk = errors.New("binary chunk is not present")
	ErrUnsupportedFeature = errors.New("unsupported gltf feature")
	ErrExternalBuffer     = errors.New("buffer references external uri")
	ErrImageFormat        = errors.New("unsupported image format")
	ErrOutOfBounds        = errors.New("range exceeds binary chunk")
	ErrSerialization      = errors.New("document serialization failed")
)
