/*
Package woff2 packs sfnt fonts into WOFF2 containers.

The writer emits the null-transform flavor of WOFF2: table payloads stay in
sfnt form and the whole data block is Brotli-compressed. The glyf and loca
transforms of the WOFF2 format are optional for encoders and not applied here.
A matching reader is provided for inspection and round-trip tests; it
cannot read transformed files produced by other encoders.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package woff2

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/npillmayer/fontpress/core"
)

// Signature is the magic number of WOFF2 files ('wOF2').
const Signature = 0x774F4632

// knownTags is the table-tag dictionary of the WOFF2 table directory.
// A directory entry stores the index into this list in its flags byte;
// index 63 signals an explicit 4-byte tag.
var knownTags = [63]string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca", "prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern", "LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS", "GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL", "SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar", "fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar", "mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat", "Gloc", "Feat", "Sill",
}

// hintTags are the tables carrying TrueType hinting programs and
// device-dependent metrics. Web rendering does not use them.
var hintTags = map[string]bool{
	"cvt ": true, "fpgm": true, "prep": true,
	"hdmx": true, "VDMX": true, "gasp": true,
}

func knownTagIndex(tag string) int {
	for i, t := range knownTags {
		if t == tag {
			return i
		}
	}
	return 63
}

// Header is the fixed 48-byte WOFF2 file header.
type Header struct {
	Flavor              uint32 // sfnt version of the packed font
	Length              uint32 // total file size
	NumTables           uint16
	TotalSfntSize       uint32 // size of the font once restored to sfnt form
	TotalCompressedSize uint32
	MajorVersion        uint16
	MinorVersion        uint16
	MetaOffset          uint32
	MetaLength          uint32
	MetaOrigLength      uint32
	PrivOffset          uint32
	PrivLength          uint32
}

// Table is one font table: its 4-byte tag and payload.
type Table struct {
	Tag  string
	Data []byte
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

func putUintBase128(buf *bytes.Buffer, n uint32) {
	var tmp [5]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte(n & 0x7F)
		n >>= 7
		if n == 0 {
			break
		}
	}
	for j := i; j < len(tmp)-1; j++ {
		tmp[j] |= 0x80
	}
	buf.Write(tmp[i:])
}

func readUintBase128(r io.ByteReader) (uint32, error) {
	var n uint32
	for i := 0; i < 5; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if n > 0x1FFFFFF { // would overflow 32 bits with 7 more
			return 0, core.Error(core.EINVALID, "UIntBase128 exceeds 32 bits")
		}
		n = n<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return n, nil
		}
	}
	return 0, core.Error(core.EINVALID, "UIntBase128 longer than 5 bytes")
}

// parseSFNT splits a binary sfnt font into its flavor and tables, in
// directory order.
func parseSFNT(data []byte) (uint32, []Table, error) {
	if len(data) < 12 {
		return 0, nil, core.Error(core.EINVALID, "sfnt data truncated")
	}
	flavor := binary.BigEndian.Uint32(data)
	numTables := int(binary.BigEndian.Uint16(data[4:]))
	if len(data) < 12+16*numTables {
		return 0, nil, core.Error(core.EINVALID, "sfnt table directory truncated")
	}
	tables := make([]Table, 0, numTables)
	for i := 0; i < numTables; i++ {
		entry := data[12+16*i:]
		offset := binary.BigEndian.Uint32(entry[8:])
		length := binary.BigEndian.Uint32(entry[12:])
		if uint64(offset)+uint64(length) > uint64(len(data)) {
			return 0, nil, core.Error(core.EINVALID, "sfnt table outside of file bounds")
		}
		tables = append(tables, Table{
			Tag:  string(entry[0:4]),
			Data: data[offset : offset+length],
		})
	}
	return flavor, tables, nil
}

// Encode packs a binary sfnt font (TTF or OTF) into a WOFF2 container.
// With stripHints set, hinting and device-metrics tables are left out of
// the container.
func Encode(sfntData []byte, stripHints bool) ([]byte, error) {
	flavor, tables, err := parseSFNT(sfntData)
	if err != nil {
		return nil, err
	}
	if stripHints {
		kept := tables[:0]
		for _, t := range tables {
			if !hintTags[t.Tag] {
				kept = append(kept, t)
			}
		}
		tables = kept
	}
	if len(tables) == 0 {
		return nil, core.Error(core.EINVALID, "sfnt font has no tables")
	}

	var dir, raw bytes.Buffer
	totalSfntSize := 12 + 16*len(tables)
	for _, t := range tables {
		idx := knownTagIndex(t.Tag)
		flags := byte(idx)
		if t.Tag == "glyf" || t.Tag == "loca" {
			flags |= 3 << 6 // transform version 3 = null transform
		}
		dir.WriteByte(flags)
		if idx == 63 {
			dir.WriteString(t.Tag)
		}
		putUintBase128(&dir, uint32(len(t.Data)))
		raw.Write(t.Data)
		totalSfntSize += pad4(len(t.Data))
	}

	var compressed bytes.Buffer
	bw := brotli.NewWriterLevel(&compressed, brotli.BestCompression)
	if _, err := bw.Write(raw.Bytes()); err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "brotli compression failed")
	}
	if err := bw.Close(); err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "brotli compression failed")
	}

	h := Header{
		Flavor:              flavor,
		Length:              uint32(48 + dir.Len() + compressed.Len()),
		NumTables:           uint16(len(tables)),
		TotalSfntSize:       uint32(totalSfntSize),
		TotalCompressedSize: uint32(compressed.Len()),
		MajorVersion:        1,
	}
	out := bytes.NewBuffer(make([]byte, 0, h.Length))
	writeHeader(out, &h)
	out.Write(dir.Bytes())
	out.Write(compressed.Bytes())
	return out.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, h *Header) {
	var tmp [48]byte
	binary.BigEndian.PutUint32(tmp[0:], Signature)
	binary.BigEndian.PutUint32(tmp[4:], h.Flavor)
	binary.BigEndian.PutUint32(tmp[8:], h.Length)
	binary.BigEndian.PutUint16(tmp[12:], h.NumTables)
	// tmp[14:16] reserved
	binary.BigEndian.PutUint32(tmp[16:], h.TotalSfntSize)
	binary.BigEndian.PutUint32(tmp[20:], h.TotalCompressedSize)
	binary.BigEndian.PutUint16(tmp[24:], h.MajorVersion)
	binary.BigEndian.PutUint16(tmp[26:], h.MinorVersion)
	binary.BigEndian.PutUint32(tmp[28:], h.MetaOffset)
	binary.BigEndian.PutUint32(tmp[32:], h.MetaLength)
	binary.BigEndian.PutUint32(tmp[36:], h.MetaOrigLength)
	binary.BigEndian.PutUint32(tmp[40:], h.PrivOffset)
	binary.BigEndian.PutUint32(tmp[44:], h.PrivLength)
	buf.Write(tmp[:])
}

// ReadHeader decodes the fixed WOFF2 file header.
func ReadHeader(data []byte) (*Header, error) {
	if len(data) < 48 {
		return nil, core.Error(core.EINVALID, "WOFF2 header truncated")
	}
	if binary.BigEndian.Uint32(data) != Signature {
		return nil, core.Error(core.EINVALID, "not a WOFF2 file")
	}
	return &Header{
		Flavor:              binary.BigEndian.Uint32(data[4:]),
		Length:              binary.BigEndian.Uint32(data[8:]),
		NumTables:           binary.BigEndian.Uint16(data[12:]),
		TotalSfntSize:       binary.BigEndian.Uint32(data[16:]),
		TotalCompressedSize: binary.BigEndian.Uint32(data[20:]),
		MajorVersion:        binary.BigEndian.Uint16(data[24:]),
		MinorVersion:        binary.BigEndian.Uint16(data[26:]),
		MetaOffset:          binary.BigEndian.Uint32(data[28:]),
		MetaLength:          binary.BigEndian.Uint32(data[32:]),
		MetaOrigLength:      binary.BigEndian.Uint32(data[36:]),
		PrivOffset:          binary.BigEndian.Uint32(data[40:]),
		PrivLength:          binary.BigEndian.Uint32(data[44:]),
	}, nil
}

// Decode unpacks a WOFF2 file written by Encode, returning the packed
// font's flavor and tables in directory order. Files using the optional
// glyf/loca transform are rejected.
func Decode(data []byte) (uint32, []Table, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return 0, nil, err
	}
	dir := bytes.NewReader(data[48:])
	type entry struct {
		tag    string
		length uint32
	}
	entries := make([]entry, h.NumTables)
	for i := range entries {
		flags, err := dir.ReadByte()
		if err != nil {
			return 0, nil, core.WrapError(err, core.EINVALID, "WOFF2 table directory truncated")
		}
		var tag string
		if idx := int(flags & 0x3F); idx < 63 {
			tag = knownTags[idx]
		} else {
			var raw [4]byte
			if _, err := io.ReadFull(dir, raw[:]); err != nil {
				return 0, nil, core.WrapError(err, core.EINVALID, "WOFF2 table directory truncated")
			}
			tag = string(raw[:])
		}
		version := flags >> 6
		if tag == "glyf" || tag == "loca" {
			if version != 3 {
				return 0, nil, core.Error(core.EINVALID, "transformed glyf/loca not supported")
			}
		} else if version != 0 {
			return 0, nil, core.Error(core.EINVALID, "transformed table %q not supported", tag)
		}
		length, err := readUintBase128(dir)
		if err != nil {
			return 0, nil, err
		}
		entries[i] = entry{tag, length}
	}
	compressed := data[uint32(len(data))-uint32(dir.Len()):]
	if uint32(len(compressed)) < h.TotalCompressedSize {
		return 0, nil, core.Error(core.EINVALID, "WOFF2 data block truncated")
	}
	raw, err := io.ReadAll(brotli.NewReader(bytes.NewReader(compressed[:h.TotalCompressedSize])))
	if err != nil {
		return 0, nil, core.WrapError(err, core.EINVALID, "brotli decompression failed")
	}
	tables := make([]Table, 0, len(entries))
	var off uint32
	for _, e := range entries {
		if uint64(off)+uint64(e.length) > uint64(len(raw)) {
			return 0, nil, core.Error(core.EINVALID, "WOFF2 table data truncated")
		}
		tables = append(tables, Table{Tag: e.tag, Data: raw[off : off+e.length]})
		off += e.length
	}
	return h.Flavor, tables, nil
}
