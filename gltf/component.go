package gltf

import "fmt"

// ComponentType is the glTF accessor componentType code.
type ComponentType uint32

const (
	ComponentByte   ComponentType = 5120
	ComponentUByte  ComponentType = 5121
	ComponentShort  ComponentType = 5122
	ComponentUShort ComponentType = 5123
	ComponentUInt   ComponentType = 5125
	ComponentFloat  ComponentType = 5126
)

func (ct ComponentType) Size() uint32 {
	switch ct {
	case ComponentByte, ComponentUByte:
		return 1
	case ComponentShort, ComponentUShort:
		return 2
	case ComponentUInt, ComponentFloat:
		return 4
	default:
		return 0
	}
}

func (ct ComponentType) String() string {
	switch ct {
	case ComponentByte:
		return "BYTE"
	case ComponentUByte:
		return "UNSIGNED_BYTE"
	case ComponentShort:
		return "SHORT"
	case ComponentUShort:
		return "UNSIGNED_SHORT"
	case ComponentUInt:
		return "UNSIGNED_INT"
	case ComponentFloat:
		return "FLOAT"
	default:
		return fmt.Sprintf("COMPONENT(%d)", uint32(ct))
	}
}

// AccessorType is the glTF accessor element shape ("type" field).
type AccessorType string

const (
	AccessorScalar AccessorType = "SCALAR"
	AccessorVec2   AccessorType = "VEC2"
	AccessorVec3   AccessorType = "VEC3"
	AccessorVec4   AccessorType = "VEC4"
	AccessorMat2   AccessorType = "MAT2"
	AccessorMat3   AccessorType = "MAT3"
	AccessorMat4   AccessorType = "MAT4"
)

// Components returns the element arity, 0 for an unknown shape.
func (at AccessorType) Components() uint32 {
	switch at {
	case AccessorScalar:
		return 1
	case AccessorVec2:
		return 2
	case AccessorVec3:
		return 3
	case AccessorVec4:
		return 4
	case AccessorMat2:
		return 4
	case AccessorMat3:
		return 9
	case AccessorMat4:
		return 16
	default:
		return 0
	}
}

// Primitive topology modes.
const (
	ModePoints        uint32 = 0
	ModeLines         uint32 = 1
	ModeLineLoop      uint32 = 2
	ModeLineStrip     uint32 = 3
	ModeTriangles     uint32 = 4
	ModeTriangleStrip uint32 = 5
	ModeTriangleFan   uint32 = 6
)

// Sampler filter and wrap codes.
const (
	FilterNearest uint32 = 9728
	FilterLinear  uint32 = 9729

	WrapClampToEdge    uint32 = 33071
	WrapMirroredRepeat uint32 = 33648
	WrapRepeat         uint32 = 10497
)

// Buffer view GPU target hints.
const (
	TargetArrayBuffer        uint32 = 34962
	TargetElementArrayBuffer uint32 = 34963
)

// Vertex attribute semantic keys.
const (
	AttrPosition = "POSITION"
	AttrNormal   = "NORMAL"
	AttrTangent  = "TANGENT"
)

func AttrTexCoord(set int) string { return fmt.Sprintf("TEXCOORD_%d", set) }
func AttrColor(set int) string    { return fmt.Sprintf("COLOR_%d", set) }
func AttrJoints(set int) string   { return fmt.Sprintf("JOINTS_%d", set) }
func AttrWeights(set int) string  { return fmt.Sprintf("WEIGHTS_%d", set) }
