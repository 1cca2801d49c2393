package woff2

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

// buildSFNT assembles a minimal binary sfnt font from raw tables.
func buildSFNT(flavor uint32, tables []Table) []byte {
	var buf bytes.Buffer
	var head [12]byte
	binary.BigEndian.PutUint32(head[0:], flavor)
	binary.BigEndian.PutUint16(head[4:], uint16(len(tables)))
	buf.Write(head[:])
	offset := 12 + 16*len(tables)
	for _, t := range tables {
		var entry [16]byte
		copy(entry[0:4], t.Tag)
		binary.BigEndian.PutUint32(entry[8:], uint32(offset))
		binary.BigEndian.PutUint32(entry[12:], uint32(len(t.Data)))
		buf.Write(entry[:])
		offset += pad4(len(t.Data))
	}
	for _, t := range tables {
		buf.Write(t.Data)
		buf.Write(make([]byte, pad4(len(t.Data))-len(t.Data)))
	}
	return buf.Bytes()
}

func TestEncodeHeader(t *testing.T) {
	packed, err := Encode(goregular.TTF, false)
	require.NoError(t, err)
	h, err := ReadHeader(packed)
	require.NoError(t, err)
	assert.EqualValues(t, 0x00010000, h.Flavor, "expected TrueType flavor")
	assert.EqualValues(t, len(packed), h.Length)
	assert.NotZero(t, h.NumTables)
	assert.Less(t, int(h.TotalCompressedSize), len(goregular.TTF),
		"compressed block should undercut the raw font")
	assert.Zero(t, h.MetaLength)
	assert.Zero(t, h.PrivLength)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	flavor, want, err := parseSFNT(goregular.TTF)
	require.NoError(t, err)
	packed, err := Encode(goregular.TTF, false)
	require.NoError(t, err)
	gotFlavor, got, err := Decode(packed)
	require.NoError(t, err)
	assert.Equal(t, flavor, gotFlavor)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Tag, got[i].Tag)
		assert.True(t, bytes.Equal(want[i].Data, got[i].Data),
			"table %q must survive the container unchanged", want[i].Tag)
	}
}

func TestEncodeStripsHints(t *testing.T) {
	long := make([]byte, 300) // forces a multi-byte UIntBase128 length
	for i := range long {
		long[i] = byte(i)
	}
	sfnt := buildSFNT(0x00010000, []Table{
		{Tag: "cvt ", Data: []byte{1, 2, 3, 4}},
		{Tag: "fpgm", Data: []byte{0xB0, 0x00}},
		{Tag: "glyf", Data: long},
		{Tag: "head", Data: make([]byte, 54)},
		{Tag: "prep", Data: []byte{0xB1}},
		{Tag: "ZZZZ", Data: []byte("custom")},
	})
	packed, err := Encode(sfnt, true)
	require.NoError(t, err)
	_, tables, err := Decode(packed)
	require.NoError(t, err)
	tags := make([]string, len(tables))
	for i, tb := range tables {
		tags[i] = tb.Tag
	}
	assert.Equal(t, []string{"glyf", "head", "ZZZZ"}, tags)
	assert.Equal(t, long, tables[0].Data)
	assert.Equal(t, []byte("custom"), tables[2].Data, "arbitrary tags must round-trip")
}

func TestTotalSfntSizeAccountsForPadding(t *testing.T) {
	sfnt := buildSFNT(0x00010000, []Table{
		{Tag: "head", Data: make([]byte, 54)}, // pads to 56
		{Tag: "maxp", Data: make([]byte, 6)},  // pads to 8
	})
	packed, err := Encode(sfnt, false)
	require.NoError(t, err)
	h, err := ReadHeader(packed)
	require.NoError(t, err)
	assert.EqualValues(t, 12+2*16+56+8, h.TotalSfntSize)
}

func TestUintBase128(t *testing.T) {
	for _, n := range []uint32{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0xFFFFFFFF} {
		var buf bytes.Buffer
		putUintBase128(&buf, n)
		got, err := readUintBase128(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestReadHeaderRejectsForeignData(t *testing.T) {
	_, err := ReadHeader(goregular.TTF)
	assert.Error(t, err)
	_, err = ReadHeader([]byte("wOF2"))
	assert.Error(t, err, "truncated header must be rejected")
}
