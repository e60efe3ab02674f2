package dicom

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/jpfielding/worklist.go/pkg/dicom/transfer"
	"github.com/jpfielding/worklist.go/pkg/dicom/vr"
)

// Encode serializes ds with the given transfer syntax.
// Elements are written in ascending tag order regardless of insertion order.
func Encode(ds *Dataset, ts transfer.Syntax) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := EncodeTo(&buf, ds, ts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes the encoded dataset to w and returns the number of bytes written
func EncodeTo(w io.Writer, ds *Dataset, ts transfer.Syntax) (int64, error) {
	if !ts.IsSupported() {
		return 0, &UnsupportedEncodingError{Offset: -1, Reason: fmt.Sprintf("transfer syntax %s", ts.Name())}
	}
	return writeDataSetBody(w, ds, ts.IsExplicitVR())
}

func writeDataSetBody(w io.Writer, ds *Dataset, explicitVR bool) (int64, error) {
	cw := &CountingWriter{Writer: w}
	if ds == nil {
		return 0, nil
	}
	for _, t := range ds.Tags() {
		elem := ds.Elements[t]
		if elem == nil {
			continue
		}
		if elem.Tag != t {
			return cw.Count.Load(), invalidValue(t, elem.VR, "element stored under %s carries tag %s", t, elem.Tag)
		}
		if _, err := writeElement(cw, elem, explicitVR); err != nil {
			return cw.Count.Load(), fmt.Errorf("failed to write element %v: %w", elem.Tag, err)
		}
	}
	return cw.Count.Load(), nil
}

func writeElement(w io.Writer, elem *Element, explicitVR bool) (int, error) {
	cw := &CountingWriter{Writer: w}

	if elem.Tag.IsDelimiter() {
		return 0, invalidValue(elem.Tag, elem.VR, "delimiter tags cannot be stored as elements")
	}
	v, err := resolveVR(elem)
	if err != nil {
		return 0, err
	}

	valBytes, err := encodeElementValue(elem.Tag, v, elem.Value, explicitVR)
	if err != nil {
		return 0, err
	}

	if err := writeTag(cw, elem.Tag); err != nil {
		return int(cw.Count.Load()), err
	}

	switch {
	case !explicitVR:
		// Implicit VR: 4-byte length, VR comes from the dictionary on read
		if uint64(len(valBytes)) >= math.MaxUint32 {
			return int(cw.Count.Load()), invalidValue(elem.Tag, v, "value of %d bytes exceeds 32-bit length", len(valBytes))
		}
		if err := binary.Write(cw, binary.LittleEndian, uint32(len(valBytes))); err != nil {
			return int(cw.Count.Load()), err
		}
	case v.IsExplicitLength():
		if len(valBytes) > math.MaxUint16 {
			return int(cw.Count.Load()), invalidValue(elem.Tag, v, "value of %d bytes exceeds 16-bit length", len(valBytes))
		}
		if _, err := cw.Write([]byte(v)); err != nil {
			return int(cw.Count.Load()), err
		}
		if err := binary.Write(cw, binary.LittleEndian, uint16(len(valBytes))); err != nil {
			return int(cw.Count.Load()), err
		}
	default:
		if uint64(len(valBytes)) >= math.MaxUint32 {
			return int(cw.Count.Load()), invalidValue(elem.Tag, v, "value of %d bytes exceeds 32-bit length", len(valBytes))
		}
		if _, err := cw.Write([]byte(v)); err != nil {
			return int(cw.Count.Load()), err
		}
		// Reserved 2 bytes (0x00)
		if _, err := cw.Write([]byte{0, 0}); err != nil {
			return int(cw.Count.Load()), err
		}
		if err := binary.Write(cw, binary.LittleEndian, uint32(len(valBytes))); err != nil {
			return int(cw.Count.Load()), err
		}
	}

	if _, err := cw.Write(valBytes); err != nil {
		return int(cw.Count.Load()), err
	}
	return int(cw.Count.Load()), nil
}

// resolveVR fills in the dictionary VR when the element was created without one
func resolveVR(elem *Element) (vr.VR, error) {
	if elem.VR == "" {
		return tag.VROf(elem.Tag)
	}
	if !elem.VR.IsKnown() {
		return "", invalidValue(elem.Tag, elem.VR, "unknown VR code %q", string(elem.VR))
	}
	return elem.VR, nil
}

func encodeElementValue(t Tag, v vr.VR, value interface{}, explicitVR bool) ([]byte, error) {
	if !v.IsSequence() {
		return EncodeValue(t, v, value)
	}
	var items []*Dataset
	switch val := value.(type) {
	case nil:
	case []*Dataset:
		items = val
	case *Dataset:
		items = []*Dataset{val}
	default:
		return nil, invalidValue(t, v, "unsupported sequence type %T", value)
	}
	return encodeSequence(items, explicitVR)
}

// encodeSequence writes each item with an explicit length and no delimiters
func encodeSequence(datasets []*Dataset, explicitVR bool) ([]byte, error) {
	var buf bytes.Buffer
	for i, ds := range datasets {
		var dsBuf bytes.Buffer
		if _, err := writeDataSetBody(&dsBuf, ds, explicitVR); err != nil {
			return nil, fmt.Errorf("failed to encode sequence item %d: %w", i, err)
		}
		if err := writeTag(&buf, tag.Item); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, uint32(dsBuf.Len())); err != nil {
			return nil, err
		}
		if _, err := buf.Write(dsBuf.Bytes()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeTag(w io.Writer, t Tag) error {
	var b [4]byte
	binary.LittleEndian.PutUint16(b[0:], t.Group)
	binary.LittleEndian.PutUint16(b[2:], t.Element)
	_, err := w.Write(b[:])
	return err
}

// CountingWriter counts the bytes successfully written through it
type CountingWriter struct {
	Count  atomic.Int64
	Writer io.Writer
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.Writer.Write(p)
	if err == nil {
		c.Count.Add(int64(n))
	}
	return n, err
}
