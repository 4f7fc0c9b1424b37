package export

import (
	"bytes"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mogaika/vrm_browser/gltf"
	"github.com/mogaika/vrm_browser/vrm"
)

// ExtractImages writes every embedded image of the model into dir as
// image%d.png. Only png payloads are supported; anything else fails with
// ErrImageFormat.
func ExtractImages(m *vrm.Model, dir string) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return errors.Wrapf(err, "Failed to create %q", dir)
	}

	for iImage, image := range m.Doc.Images {
		data, err := imageData(m, image)
		if err != nil {
			return errors.Wrapf(err, "Failed to extract image %d", iImage)
		}

		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return errors.Wrapf(gltf.ErrImageFormat, "image %d: %v", iImage, err)
		}

		name := filepath.Join(dir, fmt.Sprintf("image%d.png", iImage))
		if err := os.WriteFile(name, data, 0666); err != nil {
			return errors.Wrapf(err, "Failed to write %q", name)
		}
		log.Printf("[export] Wrote %q (%dx%d, %d bytes)", name, cfg.Width, cfg.Height, len(data))
	}
	return nil
}

func imageData(m *vrm.Model, image *gltf.Image) ([]byte, error) {
	if image.MimeType != "" && image.MimeType != "image/png" {
		return nil, errors.Wrapf(gltf.ErrImageFormat, "mime %q", image.MimeType)
	}
	if image.BufferView == nil {
		return nil, errors.Wrapf(gltf.ErrExternalBuffer, "image uri %q", image.URI)
	}
	return gltf.ViewData(m.Doc, m.Bin, *image.BufferView)
}

// ExtractPrimitives re-encodes every triangle primitive of the model as a
// standalone GLB fragment mesh%d_prim%d.glb in dir. Primitives without
// positions or indices are skipped; a textured primitive keeps its base
// color texture and uv set.
func ExtractPrimitives(m *vrm.Model, dir string) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return errors.Wrapf(err, "Failed to create %q", dir)
	}

	for iMesh, mesh := range m.Doc.Meshes {
		for iPrim, prim := range mesh.Primitives {
			if prim.ModeOrDefault() != gltf.ModeTriangles {
				return errors.Wrapf(gltf.ErrUnsupportedFeature,
					"mesh %d primitive %d mode %d", iMesh, iPrim, prim.ModeOrDefault())
			}
			posIndex, ok := prim.Attributes[gltf.AttrPosition]
			if !ok || prim.Indices == nil {
				log.Printf("[export] Skipping mesh %d primitive %d without positions or indices",
					iMesh, iPrim)
				continue
			}

			positions, err := gltf.DecodePositions(m.Doc, m.Bin, posIndex)
			if err != nil {
				return errors.Wrapf(err, "Failed to decode mesh %d primitive %d positions", iMesh, iPrim)
			}
			indices, err := gltf.DecodeIndices(m.Doc, m.Bin, *prim.Indices)
			if err != nil {
				return errors.Wrapf(err, "Failed to decode mesh %d primitive %d indices", iMesh, iPrim)
			}

			opts := &Options{Name: fmt.Sprintf("%s_mesh%d_prim%d", m.Name, iMesh, iPrim)}
			if err := primitiveTexture(m, prim, opts); err != nil {
				return errors.Wrapf(err, "Failed to extract mesh %d primitive %d texture", iMesh, iPrim)
			}

			name := filepath.Join(dir, fmt.Sprintf("mesh%d_prim%d.glb", iMesh, iPrim))
			f, err := os.Create(name)
			if err != nil {
				return errors.Wrapf(err, "Failed to create %q", name)
			}
			err = WriteTriangleMesh(f, positions, indices, opts)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return errors.Wrapf(err, "Failed to write %q", name)
			}
			log.Printf("[export] Wrote %q (%d vertices, %d triangles)",
				name, len(positions), len(indices)/3)
		}
	}
	return nil
}

// primitiveTexture fills opts with the primitive's base color texture png
// and uv set when the material has one.
func primitiveTexture(m *vrm.Model, prim *gltf.Primitive, opts *Options) error {
	if prim.Material == nil || int(*prim.Material) >= len(m.Doc.Materials) {
		return nil
	}
	material := m.Doc.Materials[*prim.Material]
	if material.PBRMetallicRoughness == nil || material.PBRMetallicRoughness.BaseColorTexture == nil {
		return nil
	}
	baseColor := material.PBRMetallicRoughness.BaseColorTexture
	if baseColor.TexCoord != 0 {
		return errors.Wrapf(gltf.ErrUnsupportedFeature,
			"base color texture uses uv set %d", baseColor.TexCoord)
	}
	textureIndex := baseColor.Index
	if int(textureIndex) >= len(m.Doc.Textures) {
		return errors.Wrapf(gltf.ErrFormat, "texture %d out of range", textureIndex)
	}
	texture := m.Doc.Textures[textureIndex]
	if texture.Source == nil || int(*texture.Source) >= len(m.Doc.Images) {
		return nil
	}

	uvIndex, ok := prim.Attributes[gltf.AttrTexCoord(0)]
	if !ok {
		return nil
	}
	uvs, err := gltf.DecodeTexCoords(m.Doc, m.Bin, uvIndex)
	if err != nil {
		return err
	}
	data, err := imageData(m, m.Doc.Images[*texture.Source])
	if err != nil {
		return err
	}

	opts.TexturePNG = data
	opts.UVs = uvs
	return nil
}
