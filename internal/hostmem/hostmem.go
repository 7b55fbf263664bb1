// Package hostmem models the host RAM that the DMA engines write
// into: a flat byte array standing in for a real AXI-addressable
// memory, so the ring and stream writers have somewhere real to
// write and tests can read back what landed there.
package hostmem

import "encoding/binary"

// Image is a byte-addressable little-endian memory image.
type Image struct {
	bytes []byte
}

// NewImage allocates an image of the given size in bytes.
func NewImage(size int) *Image { return &Image{bytes: make([]byte, size)} }

// WriteBeat writes a 64-bit little-endian beat at the given byte
// address, the DMA engines' native write granularity.
func (m *Image) WriteBeat(addr uint64, data uint64) {
	binary.LittleEndian.PutUint64(m.bytes[addr:addr+8], data)
}

// ReadBeat reads back a 64-bit little-endian beat, for test
// verification.
func (m *Image) ReadBeat(addr uint64) uint64 {
	return binary.LittleEndian.Uint64(m.bytes[addr : addr+8])
}

// Bytes exposes the raw backing slice for exact byte-sequence
// assertions.
func (m *Image) Bytes() []byte { return m.bytes }

// Size reports the image's capacity in bytes.
func (m *Image) Size() int { return len(m.bytes) }
