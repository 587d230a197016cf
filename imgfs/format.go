// Package imgfs implements the on-disk store format and the five core
// operations (list, insert, read, delete, create) that make up imgFS: a
// single-file, content-addressed store for JPEG images holding an
// original and up to two lazily-materialised derived resolutions per
// logical image.
/*
 * Copyright (c) 2018, NVIDIA CORPORATION. All rights reserved.
 */
package imgfs

import (
	"encoding/binary"

	"github.com/imaneoujja/IMGFS/cmn"
)

// Resolution identifies one of the three sizes a slot's payload may be
// stored at.
type Resolution int

const (
	ResThumb Resolution = iota
	ResSmall
	ResOrig

	numResolutions = 3
)

func (r Resolution) String() string {
	switch r {
	case ResThumb:
		return "thumbnail"
	case ResSmall:
		return "small"
	case ResOrig:
		return "original"
	default:
		return "unknown"
	}
}

// ParseResolution maps the HTTP/CLI resolution vocabulary onto a
// Resolution. Unparseable strings fail with KindResolutions.
func ParseResolution(s string) (Resolution, error) {
	switch s {
	case "thumb", "thumbnail":
		return ResThumb, nil
	case "small":
		return ResSmall, nil
	case "orig", "original":
		return ResOrig, nil
	default:
		return 0, cmn.NewErr(cmn.KindResolutions, "unknown resolution %q", s)
	}
}

const (
	maxNameLen  = 31  // bytes, excluding the NUL terminator
	maxImgIDLen = 127 // bytes, excluding the NUL terminator

	nameFieldLen  = maxNameLen + 1
	imgIDFieldLen = maxImgIDLen + 1

	shaLen = 32

	// StoreTag is stamped into every header created by Create.
	StoreTag = "SOGFS"

	isEmpty    uint16 = 0
	isNonEmpty uint16 = 1
)

// HeaderSize is the fixed, explicit on-disk size of a Header record.
// Every field is written at a known offset in host (little-endian) byte
// order; no implicit struct padding is ever serialised - see Header.marshal.
const HeaderSize = nameFieldLen + 4 + 4 + 4 + 2*4 + 4 + 8

// Header is the store's single fixed-layout record, stored at offset 0.
type Header struct {
	Name       string    // store tag, <= maxNameLen bytes
	Version    uint32    // incremented on every successful insert/delete
	NbFiles    uint32    // count of currently valid slots
	MaxFiles   uint32    // capacity, fixed at creation
	ResizedRes [4]uint16 // [thumbW, thumbH, smallW, smallH]
	Reserved32 uint32
	Reserved64 uint64
}

func (h *Header) marshal() []byte {
	buf := make([]byte, HeaderSize)
	off := 0
	putString(buf[off:off+nameFieldLen], h.Name)
	off += nameFieldLen
	binary.LittleEndian.PutUint32(buf[off:], h.Version)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], h.NbFiles)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], h.MaxFiles)
	off += 4
	for _, v := range h.ResizedRes {
		binary.LittleEndian.PutUint16(buf[off:], v)
		off += 2
	}
	binary.LittleEndian.PutUint32(buf[off:], h.Reserved32)
	off += 4
	binary.LittleEndian.PutUint64(buf[off:], h.Reserved64)
	off += 8
	cmn.Assert(off == HeaderSize)
	return buf
}

func unmarshalHeader(buf []byte) Header {
	cmn.Assert(len(buf) >= HeaderSize)
	var h Header
	off := 0
	h.Name = getString(buf[off : off+nameFieldLen])
	off += nameFieldLen
	h.Version = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	h.NbFiles = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	h.MaxFiles = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	for i := range h.ResizedRes {
		h.ResizedRes[i] = binary.LittleEndian.Uint16(buf[off:])
		off += 2
	}
	h.Reserved32 = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	h.Reserved64 = binary.LittleEndian.Uint64(buf[off:])
	off += 8
	return h
}

// ThumbRes returns the configured [width, height] target for ResThumb.
func (h *Header) ThumbRes() (w, h2 uint16) { return h.ResizedRes[0], h.ResizedRes[1] }

// SmallRes returns the configured [width, height] target for ResSmall.
func (h *Header) SmallRes() (w, h2 uint16) { return h.ResizedRes[2], h.ResizedRes[3] }

// MetadataSize is the fixed, explicit on-disk size of one MetadataRecord.
const MetadataSize = imgIDFieldLen + shaLen + 2*4 + numResolutions*4 + numResolutions*8 + 2 + 2

// MetadataRecord is one fixed-size slot in the metadata table, immediately
// following the header on disk.
type MetadataRecord struct {
	ImgID   string
	Sha     [shaLen]byte
	OrigRes [2]uint32    // width, height
	Size    [3]uint32    // byte size at THUMB, SMALL, ORIG; 0 = not materialised
	Offset  [3]uint64    // file offset at THUMB, SMALL, ORIG; 0 = not materialised
	IsValid uint16       // isEmpty or isNonEmpty
	_       uint16       // reserved
}

func (m *MetadataRecord) Valid() bool { return m.IsValid == isNonEmpty }

func (m *MetadataRecord) marshal() []byte {
	buf := make([]byte, MetadataSize)
	off := 0
	putString(buf[off:off+imgIDFieldLen], m.ImgID)
	off += imgIDFieldLen
	copy(buf[off:off+shaLen], m.Sha[:])
	off += shaLen
	for _, v := range m.OrigRes {
		binary.LittleEndian.PutUint32(buf[off:], v)
		off += 4
	}
	for _, v := range m.Size {
		binary.LittleEndian.PutUint32(buf[off:], v)
		off += 4
	}
	for _, v := range m.Offset {
		binary.LittleEndian.PutUint64(buf[off:], v)
		off += 8
	}
	binary.LittleEndian.PutUint16(buf[off:], m.IsValid)
	off += 2
	binary.LittleEndian.PutUint16(buf[off:], 0)
	off += 2
	cmn.Assert(off == MetadataSize)
	return buf
}

func unmarshalMetadata(buf []byte) MetadataRecord {
	cmn.Assert(len(buf) >= MetadataSize)
	var m MetadataRecord
	off := 0
	m.ImgID = getString(buf[off : off+imgIDFieldLen])
	off += imgIDFieldLen
	copy(m.Sha[:], buf[off:off+shaLen])
	off += shaLen
	for i := range m.OrigRes {
		m.OrigRes[i] = binary.LittleEndian.Uint32(buf[off:])
		off += 4
	}
	for i := range m.Size {
		m.Size[i] = binary.LittleEndian.Uint32(buf[off:])
		off += 4
	}
	for i := range m.Offset {
		m.Offset[i] = binary.LittleEndian.Uint64(buf[off:])
		off += 8
	}
	m.IsValid = binary.LittleEndian.Uint16(buf[off:])
	off += 2
	return m
}

func putString(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	n := copy(dst, s)
	cmn.Assert(n < len(dst)) // room for the NUL terminator
}

func getString(src []byte) string {
	n := 0
	for n < len(src) && src[n] != 0 {
		n++
	}
	return string(src[:n])
}

func metadataOffset(slot int) int64 {
	return int64(HeaderSize) + int64(slot)*int64(MetadataSize)
}

func payloadRegionStart(maxFiles uint32) int64 {
	return int64(HeaderSize) + int64(maxFiles)*int64(MetadataSize)
}
