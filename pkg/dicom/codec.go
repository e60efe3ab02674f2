package dicom

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/jpfielding/worklist.go/pkg/dicom/vr"
)

// EncodeValue converts a typed value to its padded little endian wire bytes.
// Sequences are handled by the dataset encoder, not here.
func EncodeValue(t Tag, v vr.VR, value interface{}) ([]byte, error) {
	if value == nil {
		return []byte{}, nil
	}
	switch {
	case v.IsSequence():
		return nil, invalidValue(t, v, "sequence values are encoded as items")
	case v.IsString():
		return encodeString(t, v, value)
	case v == vr.AT:
		return encodeAttributeTags(t, v, value)
	case v.IsNumeric():
		return encodeNumeric(t, v, value)
	}
	return encodeBinary(t, v, value)
}

// DecodeValue converts raw wire bytes to the canonical typed value for v
func DecodeValue(t Tag, v vr.VR, data []byte) (interface{}, error) {
	switch {
	case v.IsString():
		return decodeString(v, data), nil
	case v == vr.AT:
		return decodeAttributeTags(t, v, data)
	case v.IsNumeric():
		return decodeNumeric(t, v, data)
	}
	b := make([]byte, len(data))
	copy(b, data)
	return b, nil
}

func encodeString(t Tag, v vr.VR, value interface{}) ([]byte, error) {
	var s string
	switch val := value.(type) {
	case string:
		s = val
	case []string:
		s = strings.Join(val, `\`)
	case fmt.Stringer:
		s = val.String()
	case int, int32, int64, uint16, uint32, float64:
		if v != vr.IS && v != vr.DS {
			return nil, invalidValue(t, v, "numeric %T for string VR", value)
		}
		s = fmt.Sprint(val)
	default:
		return nil, invalidValue(t, v, "unsupported type %T", value)
	}
	if err := validateString(t, v, s); err != nil {
		return nil, err
	}
	b := []byte(s)
	if len(b)%2 != 0 {
		b = append(b, v.PadByte())
	}
	return b, nil
}

// decodeString strips exactly one trailing pad byte from even-length values
func decodeString(_ vr.VR, data []byte) string {
	n := len(data)
	if n > 0 && n%2 == 0 && (data[n-1] == ' ' || data[n-1] == 0x00) {
		n--
	}
	return string(data[:n])
}

func validateString(t Tag, v vr.VR, s string) error {
	values := []string{s}
	if v.IsMultiValued() {
		values = strings.Split(s, `\`)
	}
	for _, val := range values {
		if max := v.MaxLength(); max > 0 {
			parts := []string{val}
			if v == vr.PN {
				parts = strings.Split(val, "=") // component groups
			}
			for _, p := range parts {
				if len(p) > max {
					return invalidValue(t, v, "value %q exceeds %d bytes", p, max)
				}
			}
		}
		if val == "" {
			continue
		}
		switch v {
		case vr.UI:
			if strings.Trim(val, "0123456789.") != "" {
				return invalidValue(t, v, "uid %q contains characters other than digits and '.'", val)
			}
		case vr.DA:
			if len(val) != 8 || strings.Trim(val, "0123456789") != "" {
				return invalidValue(t, v, "date %q is not YYYYMMDD", val)
			}
		case vr.TM:
			if strings.Trim(val, "0123456789.") != "" {
				return invalidValue(t, v, "time %q is not HHMMSS.FFFFFF", val)
			}
		case vr.IS:
			if _, err := strconv.ParseInt(strings.TrimSpace(val), 10, 32); err != nil {
				return invalidValue(t, v, "integer string %q: %v", val, err)
			}
		case vr.DS:
			if _, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err != nil {
				return invalidValue(t, v, "decimal string %q: %v", val, err)
			}
		}
	}
	return nil
}

// numbers flattens the accepted numeric Go types into float64, which holds every 32-bit value exactly
func numbers(t Tag, v vr.VR, value interface{}) ([]float64, error) {
	switch val := value.(type) {
	case uint16:
		return []float64{float64(val)}, nil
	case []uint16:
		out := make([]float64, len(val))
		for i, x := range val {
			out[i] = float64(x)
		}
		return out, nil
	case uint32:
		return []float64{float64(val)}, nil
	case []uint32:
		out := make([]float64, len(val))
		for i, x := range val {
			out[i] = float64(x)
		}
		return out, nil
	case int16:
		return []float64{float64(val)}, nil
	case []int16:
		out := make([]float64, len(val))
		for i, x := range val {
			out[i] = float64(x)
		}
		return out, nil
	case int32:
		return []float64{float64(val)}, nil
	case []int32:
		out := make([]float64, len(val))
		for i, x := range val {
			out[i] = float64(x)
		}
		return out, nil
	case int:
		return []float64{float64(val)}, nil
	case []int:
		out := make([]float64, len(val))
		for i, x := range val {
			out[i] = float64(x)
		}
		return out, nil
	case float32:
		return []float64{float64(val)}, nil
	case []float32:
		out := make([]float64, len(val))
		for i, x := range val {
			out[i] = float64(x)
		}
		return out, nil
	case float64:
		return []float64{val}, nil
	case []float64:
		return val, nil
	case string:
		if val == "" {
			return nil, nil
		}
		var out []float64
		for _, s := range strings.Split(val, `\`) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, invalidValue(t, v, "non-numeric text %q", s)
			}
			out = append(out, f)
		}
		return out, nil
	case []byte:
		if len(val)%v.ValueSize() != 0 {
			return nil, invalidValue(t, v, "buffer length %d is not a multiple of %d", len(val), v.ValueSize())
		}
		decoded, err := decodeNumeric(t, v, val)
		if err != nil {
			return nil, err
		}
		if decoded == nil {
			return nil, nil
		}
		return numbers(t, v, decoded)
	}
	return nil, invalidValue(t, v, "unsupported type %T", value)
}

func encodeNumeric(t Tag, v vr.VR, value interface{}) ([]byte, error) {
	nums, err := numbers(t, v, value)
	if err != nil {
		return nil, err
	}
	size := v.ValueSize()
	b := make([]byte, len(nums)*size)
	for i, n := range nums {
		out := b[i*size:]
		switch v {
		case vr.US:
			if n != math.Trunc(n) || n < 0 || n > math.MaxUint16 {
				return nil, invalidValue(t, v, "%v out of range for US", n)
			}
			binary.LittleEndian.PutUint16(out, uint16(n))
		case vr.SS:
			if n != math.Trunc(n) || n < math.MinInt16 || n > math.MaxInt16 {
				return nil, invalidValue(t, v, "%v out of range for SS", n)
			}
			binary.LittleEndian.PutUint16(out, uint16(int16(n)))
		case vr.UL:
			if n != math.Trunc(n) || n < 0 || n > math.MaxUint32 {
				return nil, invalidValue(t, v, "%v out of range for UL", n)
			}
			binary.LittleEndian.PutUint32(out, uint32(n))
		case vr.SL:
			if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
				return nil, invalidValue(t, v, "%v out of range for SL", n)
			}
			binary.LittleEndian.PutUint32(out, uint32(int32(n)))
		case vr.FL:
			binary.LittleEndian.PutUint32(out, math.Float32bits(float32(n)))
		case vr.FD:
			binary.LittleEndian.PutUint64(out, math.Float64bits(n))
		}
	}
	return b, nil
}

func decodeNumeric(t Tag, v vr.VR, data []byte) (interface{}, error) {
	size := v.ValueSize()
	if len(data)%size != 0 {
		return nil, invalidValue(t, v, "buffer length %d is not a multiple of %d", len(data), size)
	}
	n := len(data) / size
	if n == 0 {
		return nil, nil
	}
	switch v {
	case vr.US:
		values := make([]uint16, n)
		for i := range values {
			values[i] = binary.LittleEndian.Uint16(data[i*2:])
		}
		if n == 1 {
			return values[0], nil
		}
		return values, nil
	case vr.SS:
		values := make([]int16, n)
		for i := range values {
			values[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
		}
		if n == 1 {
			return values[0], nil
		}
		return values, nil
	case vr.UL:
		values := make([]uint32, n)
		for i := range values {
			values[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
		if n == 1 {
			return values[0], nil
		}
		return values, nil
	case vr.SL:
		values := make([]int32, n)
		for i := range values {
			values[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
		}
		if n == 1 {
			return values[0], nil
		}
		return values, nil
	case vr.FL:
		values := make([]float32, n)
		for i := range values {
			values[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
		if n == 1 {
			return values[0], nil
		}
		return values, nil
	case vr.FD:
		values := make([]float64, n)
		for i := range values {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
		}
		if n == 1 {
			return values[0], nil
		}
		return values, nil
	}
	return nil, invalidValue(t, v, "not a numeric VR")
}

func encodeAttributeTags(t Tag, v vr.VR, value interface{}) ([]byte, error) {
	var tags []tag.Tag
	switch val := value.(type) {
	case tag.Tag:
		tags = []tag.Tag{val}
	case []tag.Tag:
		tags = val
	default:
		return nil, invalidValue(t, v, "unsupported type %T", value)
	}
	b := make([]byte, 4*len(tags))
	for i, at := range tags {
		binary.LittleEndian.PutUint16(b[i*4:], at.Group)
		binary.LittleEndian.PutUint16(b[i*4+2:], at.Element)
	}
	return b, nil
}

func decodeAttributeTags(t Tag, v vr.VR, data []byte) (interface{}, error) {
	if len(data)%4 != 0 {
		return nil, invalidValue(t, v, "buffer length %d is not a multiple of 4", len(data))
	}
	tags := make([]tag.Tag, len(data)/4)
	for i := range tags {
		tags[i] = tag.New(binary.LittleEndian.Uint16(data[i*4:]), binary.LittleEndian.Uint16(data[i*4+2:]))
	}
	switch len(tags) {
	case 0:
		return nil, nil
	case 1:
		return tags[0], nil
	}
	return tags, nil
}

func encodeBinary(t Tag, v vr.VR, value interface{}) ([]byte, error) {
	var b []byte
	switch val := value.(type) {
	case []byte:
		b = append([]byte{}, val...)
	case []uint16:
		b = make([]byte, len(val)*2)
		for i, u := range val {
			binary.LittleEndian.PutUint16(b[i*2:], u)
		}
	case string:
		b = []byte(val)
	default:
		return nil, invalidValue(t, v, "unsupported type %T", value)
	}
	if len(b)%2 != 0 {
		b = append(b, 0x00)
	}
	return b, nil
}
