package gltf

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl32"
)

// Document is the decoded JSON chunk of a GLB container. All collections are
// append-only and entities reference each other by index into them; nothing
// is mutated or removed after creation.
type Document struct {
	Asset          Asset                      `json:"asset"`
	ExtensionsUsed []string                   `json:"extensionsUsed,omitempty"`
	Buffers        []*Buffer                  `json:"buffers,omitempty"`
	BufferViews    []*BufferView              `json:"bufferViews,omitempty"`
	Accessors      []*Accessor                `json:"accessors,omitempty"`
	Meshes         []*Mesh                    `json:"meshes,omitempty"`
	Nodes          []*Node                    `json:"nodes,omitempty"`
	Scenes         []*Scene                   `json:"scenes,omitempty"`
	Scene          *uint32                    `json:"scene,omitempty"`
	Materials      []*Material                `json:"materials,omitempty"`
	Textures       []*Texture                 `json:"textures,omitempty"`
	Images         []*Image                   `json:"images,omitempty"`
	Samplers       []*Sampler                 `json:"samplers,omitempty"`
	Extensions     map[string]json.RawMessage `json:"extensions,omitempty"`
}

// NewDocument returns a document with the mandatory asset block and one
// empty default scene, the same skeleton every export starts from.
func NewDocument() *Document {
	zero := uint32(0)
	return &Document{
		Asset: Asset{
			Version:   "2.0",
			Generator: "vrm_browser",
		},
		Scene:  &zero,
		Scenes: []*Scene{{}},
	}
}

type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
	Copyright string `json:"copyright,omitempty"`
}

type Buffer struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri,omitempty"`
	ByteLength uint32 `json:"byteLength"`
}

// IsEmbedded reports whether the buffer data lives in the GLB BIN chunk.
func (b *Buffer) IsEmbedded() bool { return b.URI == "" }

type BufferView struct {
	Name       string  `json:"name,omitempty"`
	Buffer     uint32  `json:"buffer"`
	ByteOffset uint32  `json:"byteOffset,omitempty"`
	ByteLength uint32  `json:"byteLength"`
	ByteStride *uint32 `json:"byteStride,omitempty"`
	Target     *uint32 `json:"target,omitempty"`
}

type Accessor struct {
	Name          string          `json:"name,omitempty"`
	BufferView    *uint32         `json:"bufferView,omitempty"`
	ByteOffset    uint32          `json:"byteOffset,omitempty"`
	ComponentType ComponentType   `json:"componentType"`
	Normalized    bool            `json:"normalized,omitempty"`
	Count         uint32          `json:"count"`
	Type          AccessorType    `json:"type"`
	Min           []float32       `json:"min,omitempty"`
	Max           []float32       `json:"max,omitempty"`
	Sparse        json.RawMessage `json:"sparse,omitempty"`
}

// ElemSize is the tightly packed byte size of one element.
func (a *Accessor) ElemSize() uint32 {
	return a.ComponentType.Size() * a.Type.Components()
}

type Primitive struct {
	Attributes map[string]uint32 `json:"attributes"`
	Indices    *uint32           `json:"indices,omitempty"`
	Material   *uint32           `json:"material,omitempty"`
	Mode       *uint32           `json:"mode,omitempty"`
}

// ModeOrDefault resolves the topology mode, TRIANGLES when absent.
func (p *Primitive) ModeOrDefault() uint32 {
	if p.Mode == nil {
		return ModeTriangles
	}
	return *p.Mode
}

type Mesh struct {
	Name       string       `json:"name,omitempty"`
	Primitives []*Primitive `json:"primitives"`
}

type Node struct {
	Name        string      `json:"name,omitempty"`
	Mesh        *uint32     `json:"mesh,omitempty"`
	Children    []uint32    `json:"children,omitempty"`
	Translation *mgl32.Vec3 `json:"translation,omitempty"`
	Rotation    *[4]float32 `json:"rotation,omitempty"`
	Scale       *mgl32.Vec3 `json:"scale,omitempty"`
}

type Scene struct {
	Name  string   `json:"name,omitempty"`
	Nodes []uint32 `json:"nodes,omitempty"`
}

type Material struct {
	Name                 string                `json:"name,omitempty"`
	DoubleSided          bool                  `json:"doubleSided,omitempty"`
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
}

type PBRMetallicRoughness struct {
	BaseColorFactor  *[4]float32  `json:"baseColorFactor,omitempty"`
	BaseColorTexture *TextureInfo `json:"baseColorTexture,omitempty"`
	MetallicFactor   *float32     `json:"metallicFactor,omitempty"`
	RoughnessFactor  *float32     `json:"roughnessFactor,omitempty"`
}

type TextureInfo struct {
	Index      uint32                 `json:"index"`
	TexCoord   uint32                 `json:"texCoord,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

type Texture struct {
	Name    string  `json:"name,omitempty"`
	Sampler *uint32 `json:"sampler,omitempty"`
	Source  *uint32 `json:"source,omitempty"`
}

type Image struct {
	Name       string  `json:"name,omitempty"`
	URI        string  `json:"uri,omitempty"`
	MimeType   string  `json:"mimeType,omitempty"`
	BufferView *uint32 `json:"bufferView,omitempty"`
}

type Sampler struct {
	Name      string `json:"name,omitempty"`
	MagFilter uint32 `json:"magFilter,omitempty"`
	MinFilter uint32 `json:"minFilter,omitempty"`
	WrapS     uint32 `json:"wrapS,omitempty"`
	WrapT     uint32 `json:"wrapT,omitempty"`
}

// ExtTextureTransform is the KHR_texture_transform extension name.
const ExtTextureTransform = "KHR_texture_transform"

type TextureTransform struct {
	Offset   [2]float32 `json:"offset"`
	Rotation float32    `json:"rotation"`
	Scale    [2]float32 `json:"scale"`
	TexCoord *uint32    `json:"texCoord,omitempty"`
}

// Index is a convenience for the many optional index fields.
func Index(i uint32) *uint32 { return &i }

// Float is the same convenience for optional scalar factors.
func Float(f float32) *float32 { return &f }
