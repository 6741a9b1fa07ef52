package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// The wire format is a deterministic compact binary encoding: unsigned
// LEB128 varints for integers, little-endian IEEE 754 for f32, a leading
// varint element count for sequences, and a single tag byte per enum
// variant.

// byteScanner is what decoding needs: byte-at-a-time for varints and bulk
// reads for floats. *bytes.Reader satisfies it.
type byteScanner interface {
	io.Reader
	io.ByteReader
}

// WriteUvarint writes an unsigned LEB128 varint.
func WriteUvarint(w io.Writer, value uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], value)
	_, err := w.Write(buf[:n])
	return err
}

// ReadUvarint reads an unsigned LEB128 varint, at most 10 bytes.
func ReadUvarint(r io.ByteReader) (uint64, error) {
	value, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, err
	}
	return value, nil
}

// WriteByte writes a single byte.
func WriteByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

// ReadByte reads a single byte.
func ReadByte(r io.ByteReader) (byte, error) {
	return r.ReadByte()
}

// WriteFloat32 writes a little-endian IEEE 754 float32.
func WriteFloat32(w io.Writer, value float32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(value))
	_, err := w.Write(buf[:])
	return err
}

// ReadFloat32 reads a little-endian IEEE 754 float32.
func ReadFloat32(r io.Reader) (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[:])), nil
}

// WriteU32 writes a uint32 as a varint.
func WriteU32(w io.Writer, value uint32) error {
	return WriteUvarint(w, uint64(value))
}

// ReadU32 reads a varint and range-checks it into a uint32.
func ReadU32(r io.ByteReader) (uint32, error) {
	value, err := ReadUvarint(r)
	if err != nil {
		return 0, err
	}
	if value > math.MaxUint32 {
		return 0, fmt.Errorf("u32 out of range: %d", value)
	}
	return uint32(value), nil
}

// WriteI32 writes an int32 with zigzag encoding.
func WriteI32(w io.Writer, value int32) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], int64(value))
	_, err := w.Write(buf[:n])
	return err
}

// ReadI32 reads a zigzag-encoded int32.
func ReadI32(r io.ByteReader) (int32, error) {
	value, err := binary.ReadVarint(r)
	if err != nil {
		return 0, err
	}
	if value > math.MaxInt32 || value < math.MinInt32 {
		return 0, fmt.Errorf("i32 out of range: %d", value)
	}
	return int32(value), nil
}

// WriteSeqLen writes the element count of a sequence.
func WriteSeqLen(w io.Writer, n int) error {
	return WriteUvarint(w, uint64(n))
}

// maxSeqLen bounds decoded sequence lengths so a hostile frame cannot make
// the decoder allocate unbounded memory.
const maxSeqLen = 1 << 20

// ReadSeqLen reads and bounds-checks a sequence element count.
func ReadSeqLen(r io.ByteReader) (int, error) {
	n, err := ReadUvarint(r)
	if err != nil {
		return 0, err
	}
	if n > maxSeqLen {
		return 0, fmt.Errorf("sequence length out of range: %d", n)
	}
	return int(n), nil
}
