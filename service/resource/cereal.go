package resource

import (
	"encoding/binary"
	"math"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

// Vector resources use the cereal portable binary layout: a little-endian
// uint64 element count followed by the elements.

func DecodeVectorFloat(b []byte) ([]float32, error) {
	v, rest, err := decodeFloats(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, decodeError("%d trailing bytes after float vector", len(rest))
	}
	return v, nil
}

func EncodeVectorFloat(v []float32) []byte {
	return appendFloats(nil, v)
}

func DecodeVectorVectorFloat(b []byte) ([][]float32, error) {
	n, rest, err := decodeLen(b, 8)
	if err != nil {
		return nil, err
	}

	out := make([][]float32, 0, n)
	for i := uint64(0); i < n; i++ {
		var v []float32
		v, rest, err = decodeFloats(rest)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(rest) != 0 {
		return nil, decodeError("%d trailing bytes after nested vector", len(rest))
	}
	return out, nil
}

func EncodeVectorVectorFloat(v [][]float32) []byte {
	b := binary.LittleEndian.AppendUint64(nil, uint64(len(v)))
	for _, inner := range v {
		b = appendFloats(b, inner)
	}
	return b
}

func DecodeVectorInt(b []byte) ([]int32, error) {
	n, rest, err := decodeLen(b, 4)
	if err != nil {
		return nil, err
	}
	if uint64(len(rest)) != n*4 {
		return nil, decodeError("int vector holds %d bytes, want %d", len(rest), n*4)
	}

	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(rest[i*4:]))
	}
	return out, nil
}

func EncodeVectorInt(v []int32) []byte {
	b := binary.LittleEndian.AppendUint64(nil, uint64(len(v)))
	for _, x := range v {
		b = binary.LittleEndian.AppendUint32(b, uint32(x))
	}
	return b
}

func decodeFloats(b []byte) ([]float32, []byte, error) {
	n, rest, err := decodeLen(b, 4)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(rest)) < n*4 {
		return nil, nil, decodeError("float vector truncated: %d of %d bytes", len(rest), n*4)
	}

	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(rest[i*4:]))
	}
	return out, rest[n*4:], nil
}

func appendFloats(b []byte, v []float32) []byte {
	b = binary.LittleEndian.AppendUint64(b, uint64(len(v)))
	for _, x := range v {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(x))
	}
	return b
}

// decodeLen reads the count prefix and rejects counts that cannot fit in the
// remaining bytes at elemSize bytes per element.
func decodeLen(b []byte, elemSize uint64) (uint64, []byte, error) {
	if len(b) < 8 {
		return 0, nil, decodeError("missing length prefix")
	}
	n := binary.LittleEndian.Uint64(b)
	rest := b[8:]
	if n > uint64(len(rest))/elemSize {
		return 0, nil, decodeError("length %d exceeds payload of %d bytes", n, len(rest))
	}
	return n, rest, nil
}

func decodeError(format string, args ...interface{}) error {
	return model.NewError(model.CodeResourceDecodeFailed, "resource.decode", format, args...)
}
