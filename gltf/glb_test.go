package gltf

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
)

func buildTestContainer(t *testing.T) (*Document, []byte) {
	t.Helper()

	bw := NewBinWriter()
	offset, length := bw.Append([]byte{1, 2, 3, 4, 5, 6})

	doc := NewDocument()
	doc.Buffers = append(doc.Buffers, &Buffer{ByteLength: bw.Len()})
	doc.AddBufferView(&BufferView{Buffer: 0, ByteOffset: offset, ByteLength: length})
	return doc, bw.Bytes()
}

func TestParseGLBBadMagic(t *testing.T) {
	data := []byte("fooo\x02\x00\x00\x00\x0c\x00\x00\x00")
	if _, _, err := ParseGLB(data); !errors.Is(err, ErrFormat) {
		t.Errorf("bad magic: got %v, expected ErrFormat", err)
	}
}

func TestParseGLBBadVersion(t *testing.T) {
	var buf bytes.Buffer
	doc, bin := buildTestContainer(t)
	if err := WriteGLB(&buf, doc, bin); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[4:8], 1)
	if _, _, err := ParseGLB(data); !errors.Is(err, ErrFormat) {
		t.Errorf("version 1: got %v, expected ErrFormat", err)
	}
}

func TestParseGLBBadChunkType(t *testing.T) {
	var buf bytes.Buffer
	doc, bin := buildTestContainer(t)
	if err := WriteGLB(&buf, doc, bin); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	copy(data[16:20], "XSON")
	if _, _, err := ParseGLB(data); !errors.Is(err, ErrFormat) {
		t.Errorf("bad chunk type: got %v, expected ErrFormat", err)
	}
}

func TestParseGLBTruncated(t *testing.T) {
	if _, _, err := ParseGLB([]byte("glTF")); !errors.Is(err, ErrFormat) {
		t.Errorf("truncated header: got %v, expected ErrFormat", err)
	}
}

// A total length that only covers the JSON chunk must not make the parser
// silently drop the BIN chunk that follows it.
func TestParseGLBUndercountedTotal(t *testing.T) {
	var buf bytes.Buffer
	doc, bin := buildTestContainer(t)
	if err := WriteGLB(&buf, doc, bin); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	jsonLength := binary.LittleEndian.Uint32(data[12:16])
	binary.LittleEndian.PutUint32(data[8:12], 20+jsonLength)
	if _, _, err := ParseGLB(data); !errors.Is(err, ErrFormat) {
		t.Errorf("undercounted total: got %v, expected ErrFormat", err)
	}
}

func TestWriteGLBFraming(t *testing.T) {
	var buf bytes.Buffer
	doc, bin := buildTestContainer(t)
	if err := WriteGLB(&buf, doc, bin); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	if total := binary.LittleEndian.Uint32(data[8:12]); total != uint32(len(data)) {
		t.Errorf("declared total length %d, wrote %d bytes", total, len(data))
	}

	jsonLength := binary.LittleEndian.Uint32(data[12:16])
	if jsonLength%4 != 0 {
		t.Errorf("json chunk length %d not a multiple of 4", jsonLength)
	}
	jsonPayload := data[20 : 20+jsonLength]
	for i := len(jsonPayload) - 1; i >= 0 && jsonPayload[i] != '}'; i-- {
		if jsonPayload[i] != ' ' {
			t.Errorf("json chunk padded with 0x%.2x, expected space", jsonPayload[i])
		}
	}

	binHeader := data[20+jsonLength:]
	if binLength := binary.LittleEndian.Uint32(binHeader[0:4]); binLength%4 != 0 {
		t.Errorf("bin chunk length %d not a multiple of 4", binLength)
	}
	if chunkType := binary.LittleEndian.Uint32(binHeader[4:8]); chunkType != 0x004e4942 {
		t.Errorf("bin chunk type 0x%.8x, expected BIN\\0", chunkType)
	}
}

func TestWriteGLBOmitsEmptyBinChunk(t *testing.T) {
	var buf bytes.Buffer
	doc := NewDocument()
	if err := WriteGLB(&buf, doc, nil); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	jsonLength := binary.LittleEndian.Uint32(data[12:16])
	if want := 20 + int(jsonLength); len(data) != want {
		t.Errorf("container has %d bytes, expected %d (no bin chunk)", len(data), want)
	}

	parsed, bin, err := ParseGLB(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(bin) != 0 {
		t.Errorf("expected empty blob, got %d bytes", len(bin))
	}
	if parsed.Asset.Version != "2.0" {
		t.Errorf("asset version %q", parsed.Asset.Version)
	}
}

func TestGLBRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	doc, bin := buildTestContainer(t)
	if err := WriteGLB(&buf, doc, bin); err != nil {
		t.Fatal(err)
	}

	parsed, parsedBin, err := ParseGLB(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(parsedBin, bin) {
		t.Errorf("blob round trip mismatch: %v != %v", parsedBin, bin)
	}
	if len(parsed.BufferViews) != 1 || parsed.BufferViews[0].ByteLength != 6 {
		t.Errorf("buffer views round trip mismatch: %+v", parsed.BufferViews)
	}
}
