package dicom

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/jpfielding/worklist.go/pkg/dicom/transfer"
	"github.com/jpfielding/worklist.go/pkg/dicom/vr"
)

const undefinedLength = 0xFFFFFFFF

// Reader decodes DICOM elements from an in-memory buffer
type Reader struct {
	data       []byte
	pos        int
	base       int64 // absolute offset of data[0], for error context
	explicitVR bool
}

// NewReader creates a reader over data using the element layout of ts
func NewReader(data []byte, ts transfer.Syntax) (*Reader, error) {
	if !ts.IsSupported() {
		return nil, &UnsupportedEncodingError{Offset: -1, Reason: fmt.Sprintf("transfer syntax %s", ts.Name())}
	}
	return &Reader{data: data, explicitVR: ts.IsExplicitVR()}, nil
}

// Decode parses a bare dataset stream. It is the inverse of Encode and accepts
// elements in any order.
func Decode(data []byte, ts transfer.Syntax) (*Dataset, error) {
	r, err := NewReader(data, ts)
	if err != nil {
		return nil, err
	}
	return r.ReadDataset()
}

// ReadDataset reads elements until the end of the buffer. An all-zero tail and a
// Data Set Trailing Padding element are ignored; any other partial element is a
// TruncatedStreamError.
func (r *Reader) ReadDataset() (*Dataset, error) {
	return r.readDataset(true, nil)
}

// readDataset reads elements until the buffer ends or stop returns true for the next tag
func (r *Reader) readDataset(tolerateTail bool, stop func(Tag) bool) (*Dataset, error) {
	ds := &Dataset{Elements: make(map[Tag]*Element)}
	for r.remaining() > 0 {
		if tolerateTail && r.isPaddingTail() {
			slog.Debug("ignoring trailing padding", "offset", r.offset(), "bytes", r.remaining())
			r.pos = len(r.data)
			break
		}
		start := r.pos
		t, err := r.readTag()
		if err != nil {
			return nil, err
		}
		if stop != nil && stop(t) {
			r.pos = start
			return ds, nil
		}
		if t.IsDelimiter() {
			return nil, &UnsupportedEncodingError{Tag: t, Offset: r.base + int64(start), Reason: "unexpected delimiter outside a sequence"}
		}
		elem, err := r.readElementWithTag(t)
		if err != nil {
			return nil, fmt.Errorf("failed to read element %v: %w", t, err)
		}
		if tolerateTail && elem.Tag == tag.DataSetTrailingPadding {
			slog.Debug("ignoring trailing padding element", "offset", r.base+int64(start))
			continue
		}
		ds.Elements[elem.Tag] = elem
	}
	return ds, nil
}

// isPaddingTail reports whether the rest of the buffer is all zero
func (r *Reader) isPaddingTail() bool {
	for _, b := range r.data[r.pos:] {
		if b != 0x00 {
			return false
		}
	}
	return true
}

func (r *Reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) offset() int64 {
	return r.base + int64(r.pos)
}

// take returns the next n bytes or a TruncatedStreamError
func (r *Reader) take(t Tag, n int64) ([]byte, error) {
	if n > int64(r.remaining()) {
		return nil, &TruncatedStreamError{Tag: t, Offset: r.offset(), Length: n, Remaining: int64(r.remaining())}
	}
	b := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *Reader) readUint16(t Tag) (uint16, error) {
	b, err := r.take(t, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) readUint32(t Tag) (uint32, error) {
	b, err := r.take(t, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// readTag reads a DICOM tag
func (r *Reader) readTag() (Tag, error) {
	b, err := r.take(Tag{}, 4)
	if err != nil {
		return Tag{}, err
	}
	return tag.New(binary.LittleEndian.Uint16(b[0:]), binary.LittleEndian.Uint16(b[2:])), nil
}

// readElementWithTag reads a DICOM element after the tag has been read
func (r *Reader) readElementWithTag(t Tag) (*Element, error) {
	var v vr.VR
	var vl uint32

	if r.explicitVR {
		vrBytes, err := r.take(t, 2)
		if err != nil {
			return nil, err
		}
		v = vr.VR(vrBytes)
		if !v.IsKnown() {
			return nil, &UnsupportedEncodingError{Tag: t, Offset: r.offset() - 2, Reason: fmt.Sprintf("unknown VR %q", string(vrBytes))}
		}
		if v.IsExplicitLength() {
			vl16, err := r.readUint16(t)
			if err != nil {
				return nil, err
			}
			vl = uint32(vl16)
		} else {
			// Reserved 2 bytes, then a 4-byte length
			if _, err := r.take(t, 2); err != nil {
				return nil, err
			}
			if vl, err = r.readUint32(t); err != nil {
				return nil, err
			}
		}
	} else {
		var err error
		if vl, err = r.readUint32(t); err != nil {
			return nil, err
		}
		v = getImplicitVR(t)
	}

	value, v, err := r.readValue(t, v, vl)
	if err != nil {
		return nil, err
	}
	return &Element{Tag: t, VR: v, Value: value}, nil
}

// readValue reads the value based on VR and VL, returning the VR actually used
func (r *Reader) readValue(t Tag, v vr.VR, vl uint32) (interface{}, vr.VR, error) {
	if vl == undefinedLength {
		switch v {
		case vr.SQ:
			items, err := r.readUndefinedLengthSequence(t, r.explicitVR)
			return items, vr.SQ, err
		case vr.UN:
			// UN of undefined length holds an implicit VR little endian sequence
			items, err := r.readUndefinedLengthSequence(t, false)
			return items, vr.SQ, err
		}
		return nil, v, &UnsupportedEncodingError{Tag: t, Offset: r.offset(), Reason: fmt.Sprintf("undefined length on %s element", v)}
	}

	start := r.offset()
	data, err := r.take(t, int64(vl))
	if err != nil {
		return nil, v, err
	}
	if v.IsSequence() {
		items, err := readExplicitLengthSequence(t, data, start, r.explicitVR)
		return items, v, err
	}
	value, err := DecodeValue(t, v, data)
	return value, v, err
}

// readExplicitLengthSequence reads the items packed in a sequence value of known length
func readExplicitLengthSequence(t Tag, data []byte, base int64, explicitVR bool) ([]*Dataset, error) {
	sr := &Reader{data: data, base: base, explicitVR: explicitVR}
	items := []*Dataset{}
	for sr.remaining() > 0 {
		itemOffset := sr.offset()
		itemTag, err := sr.readTag()
		if err != nil {
			return nil, err
		}
		if itemTag != tag.Item {
			return nil, &UnsupportedEncodingError{Tag: t, Offset: itemOffset, Reason: fmt.Sprintf("expected item tag, got %v", itemTag)}
		}
		item, err := sr.readItem(t)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", len(items), err)
		}
		items = append(items, item)
	}
	return items, nil
}

// readUndefinedLengthSequence reads items until the Sequence Delimitation Item (FFFE,E0DD)
func (r *Reader) readUndefinedLengthSequence(t Tag, explicitVR bool) ([]*Dataset, error) {
	outer := r.explicitVR
	r.explicitVR = explicitVR
	defer func() { r.explicitVR = outer }()

	items := []*Dataset{}
	for {
		itemOffset := r.offset()
		itemTag, err := r.readTag()
		if err != nil {
			return nil, err
		}
		switch itemTag {
		case tag.SequenceDelimitationItem:
			if err := r.readZeroDelimiterLength(t, itemTag); err != nil {
				return nil, err
			}
			return items, nil
		case tag.Item:
			item, err := r.readItem(t)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", len(items), err)
			}
			items = append(items, item)
		default:
			return nil, &UnsupportedEncodingError{Tag: t, Offset: itemOffset, Reason: fmt.Sprintf("expected item or sequence delimiter, got %v", itemTag)}
		}
	}
}

// readItem reads one item body after its (FFFE,E000) tag
func (r *Reader) readItem(t Tag) (*Dataset, error) {
	il, err := r.readUint32(t)
	if err != nil {
		return nil, err
	}
	if il != undefinedLength {
		start := r.offset()
		body, err := r.take(t, int64(il))
		if err != nil {
			return nil, err
		}
		ir := &Reader{data: body, base: start, explicitVR: r.explicitVR}
		return ir.readDataset(false, nil)
	}

	ds, err := r.readDataset(false, func(next Tag) bool { return next.IsDelimiter() })
	if err != nil {
		return nil, err
	}
	delimOffset := r.offset()
	delim, err := r.readTag()
	if err != nil {
		return nil, err
	}
	if delim != tag.ItemDelimitationItem {
		return nil, &UnsupportedEncodingError{Tag: t, Offset: delimOffset, Reason: fmt.Sprintf("expected item delimiter, got %v", delim)}
	}
	if err := r.readZeroDelimiterLength(t, delim); err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *Reader) readZeroDelimiterLength(t, delim Tag) error {
	l, err := r.readUint32(t)
	if err != nil {
		return err
	}
	if l != 0 {
		return &UnsupportedEncodingError{Tag: t, Offset: r.offset() - 4, Reason: fmt.Sprintf("delimiter %v has non-zero length %d", delim, l)}
	}
	return nil
}

// getImplicitVR returns VR for a tag when using Implicit VR transfer syntax
func getImplicitVR(t Tag) vr.VR {
	v, err := tag.VROf(t)
	if err != nil {
		slog.Debug("no dictionary entry, reading as UN", "tag", t)
		return vr.UN
	}
	return v
}
