package gltf

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

const (
	glbMagic   = 0x46546c67 // "glTF"
	glbVersion = 2

	chunkTypeJSON = 0x4e4f534a // "JSON"
	chunkTypeBIN  = 0x004e4942 // "BIN\0"

	glbHeaderSize   = 12
	chunkHeaderSize = 8
)

// ParseGLB splits a GLB blob into its decoded JSON document and the raw BIN
// chunk payload. The BIN chunk is optional; when absent the returned slice
// is empty and any later accessor decode fails with ErrMissingBinaryChunk.
// The declared total length must account for every byte of the blob.
// Cross references inside the document are not validated here.
func ParseGLB(data []byte) (*Document, []byte, error) {
	if len(data) < glbHeaderSize {
		return nil, nil, errors.Wrapf(ErrFormat, "truncated header: %d bytes", len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != glbMagic {
		return nil, nil, errors.Wrapf(ErrFormat, "bad magic 0x%.8x", magic)
	}
	if version := binary.LittleEndian.Uint32(data[4:8]); version != glbVersion {
		return nil, nil, errors.Wrapf(ErrFormat, "unsupported version %d", version)
	}
	total := binary.LittleEndian.Uint32(data[8:12])
	if uint64(total) != uint64(len(data)) {
		return nil, nil, errors.Wrapf(ErrFormat,
			"declared length %d, have %d bytes", total, len(data))
	}

	jsonPayload, next, err := readChunk(data, glbHeaderSize, chunkTypeJSON)
	if err != nil {
		return nil, nil, err
	}

	var doc Document
	if err := json.Unmarshal(jsonPayload, &doc); err != nil {
		return nil, nil, errors.Wrapf(ErrSerialization, "json chunk: %v", err)
	}

	var bin []byte
	if next < len(data) {
		if bin, next, err = readChunk(data, next, chunkTypeBIN); err != nil {
			return nil, nil, err
		}
	}
	if next != len(data) {
		return nil, nil, errors.Wrapf(ErrFormat,
			"%d trailing bytes after chunks", len(data)-next)
	}

	return &doc, bin, nil
}

func readChunk(data []byte, offset int, wantType uint32) (payload []byte, next int, err error) {
	if offset+chunkHeaderSize > len(data) {
		return nil, 0, errors.Wrapf(ErrFormat, "truncated chunk header at offset %d", offset)
	}
	length := binary.LittleEndian.Uint32(data[offset : offset+4])
	chunkType := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
	if chunkType != wantType {
		return nil, 0, errors.Wrapf(ErrFormat,
			"chunk type 0x%.8x, expected 0x%.8x", chunkType, wantType)
	}
	start := offset + chunkHeaderSize
	end := start + int(length)
	if end > len(data) {
		return nil, 0, errors.Wrapf(ErrFormat,
			"chunk payload [%d:%d] exceeds %d available bytes", start, end, len(data))
	}
	return data[start:end], end, nil
}

// WriteGLB serializes the document and binary blob into a GLB container.
// Chunk payloads are padded to a multiple of 4 as the format requires: the
// JSON chunk with spaces, the BIN chunk with zeroes. When bin is empty the
// BIN chunk is omitted entirely.
func WriteGLB(w io.Writer, doc *Document, bin []byte) error {
	jsonPayload, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(ErrSerialization, "document: %v", err)
	}
	for len(jsonPayload)%4 != 0 {
		jsonPayload = append(jsonPayload, ' ')
	}

	binPadding := 0
	if len(bin)%4 != 0 {
		binPadding = 4 - len(bin)%4
	}

	total := glbHeaderSize + chunkHeaderSize + len(jsonPayload)
	if len(bin) != 0 {
		total += chunkHeaderSize + len(bin) + binPadding
	}

	header := make([]byte, glbHeaderSize+chunkHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], glbMagic)
	binary.LittleEndian.PutUint32(header[4:8], glbVersion)
	binary.LittleEndian.PutUint32(header[8:12], uint32(total))
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(jsonPayload)))
	binary.LittleEndian.PutUint32(header[16:20], chunkTypeJSON)
	if _, err := w.Write(header); err != nil {
		return errors.Wrapf(err, "Failed to write glb header")
	}
	if _, err := w.Write(jsonPayload); err != nil {
		return errors.Wrapf(err, "Failed to write json chunk")
	}

	if len(bin) != 0 {
		var chunk [chunkHeaderSize]byte
		binary.LittleEndian.PutUint32(chunk[0:4], uint32(len(bin)+binPadding))
		binary.LittleEndian.PutUint32(chunk[4:8], chunkTypeBIN)
		if _, err := w.Write(chunk[:]); err != nil {
			return errors.Wrapf(err, "Failed to write bin chunk header")
		}
		if _, err := w.Write(bin); err != nil {
			return errors.Wrapf(err, "Failed to write bin chunk")
		}
		if binPadding != 0 {
			if _, err := w.Write(make([]byte, binPadding)); err != nil {
				return errors.Wrapf(err, "Failed to write bin chunk padding")
			}
		}
	}

	return nil
}
