package cql

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MalformedKeyError reports a key value that cannot be serialized per its
// declared CQL type. It is a per-record failure, never fatal for a batch.
type MalformedKeyError struct {
	Reason string
}

func (e *MalformedKeyError) Error() string {
	return "malformed key: " + e.Reason
}

func malformedf(format string, args ...interface{}) error {
	return &MalformedKeyError{Reason: fmt.Sprintf(format, args...)}
}

// EncodeValue serializes a single typed value to its CQL binary form.
func EncodeValue(tv TypedValue) ([]byte, error) {
	switch tv.Type {
	case TypeText, TypeAscii, TypeVarchar:
		return []byte(tv.Value), nil

	case TypeInt:
		v, err := strconv.ParseInt(strings.TrimSpace(tv.Value), 10, 32)
		if err != nil {
			return nil, malformedf("invalid int %q: %v", tv.Value, err)
		}
		out := make([]byte, 4)
		binary.BigEndian.PutUint32(out, uint32(int32(v)))
		return out, nil

	case TypeBigint, TypeCounter, TypeTimestamp:
		v, err := strconv.ParseInt(strings.TrimSpace(tv.Value), 10, 64)
		if err != nil {
			return nil, malformedf("invalid %s %q: %v", tv.Type, tv.Value, err)
		}
		out := make([]byte, 8)
		binary.BigEndian.PutUint64(out, uint64(v))
		return out, nil

	case TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(tv.Value)) {
		case "true", "1":
			return []byte{1}, nil
		case "false", "0":
			return []byte{0}, nil
		}
		return nil, malformedf("invalid boolean %q", tv.Value)

	case TypeFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(tv.Value), 32)
		if err != nil {
			return nil, malformedf("invalid float %q: %v", tv.Value, err)
		}
		out := make([]byte, 4)
		binary.BigEndian.PutUint32(out, math.Float32bits(float32(v)))
		return out, nil

	case TypeDouble:
		v, err := strconv.ParseFloat(strings.TrimSpace(tv.Value), 64)
		if err != nil {
			return nil, malformedf("invalid double %q: %v", tv.Value, err)
		}
		out := make([]byte, 8)
		binary.BigEndian.PutUint64(out, math.Float64bits(v))
		return out, nil

	case TypeUUID, TypeTimeUUID:
		u, err := uuid.Parse(strings.TrimSpace(tv.Value))
		if err != nil {
			return nil, malformedf("invalid %s %q: %v", tv.Type, tv.Value, err)
		}
		out := make([]byte, 16)
		copy(out, u[:])
		return out, nil

	case TypeBlob:
		s := strings.TrimPrefix(strings.TrimSpace(tv.Value), "0x")
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, malformedf("invalid blob %q: %v", tv.Value, err)
		}
		return b, nil

	case TypeInet:
		ip := net.ParseIP(strings.TrimSpace(tv.Value))
		if ip == nil {
			return nil, malformedf("invalid inet %q", tv.Value)
		}
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
		return ip.To16(), nil
	}

	return nil, malformedf("unknown CQL type %v", tv.Type)
}

// EncodeKey serializes a partition key. Single-column keys are the bare
// value encoding; multi-column keys use the composite encoding: for each
// component a 16-bit big-endian length, the component bytes, and a zero
// end-of-component byte.
func EncodeKey(columns []TypedValue) ([]byte, error) {
	if len(columns) == 0 {
		return nil, malformedf("partition key has no columns")
	}

	if len(columns) == 1 {
		return EncodeValue(columns[0])
	}

	var out []byte
	for i, col := range columns {
		b, err := EncodeValue(col)
		if err != nil {
			return nil, err
		}
		if len(b) > math.MaxUint16 {
			return nil, malformedf("composite component %d is %d bytes, exceeds 16-bit length prefix", i, len(b))
		}
		var lenPrefix [2]byte
		binary.BigEndian.PutUint16(lenPrefix[:], uint16(len(b)))
		out = append(out, lenPrefix[:]...)
		out = append(out, b...)
		out = append(out, 0x00)
	}
	return out, nil
}
