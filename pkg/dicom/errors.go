package dicom

import (
	"fmt"

	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/jpfielding/worklist.go/pkg/dicom/vr"
)

// UnknownTagError is returned when a tag has no dictionary entry and no VR override
type UnknownTagError = tag.UnknownTagError

// InvalidValueError reports a value that violates its VR's constraints
type InvalidValueError struct {
	Tag    Tag
	VR     vr.VR
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s %s: %s", e.Tag, e.VR, e.Reason)
}

func invalidValue(t Tag, v vr.VR, format string, args ...any) error {
	return &InvalidValueError{Tag: t, VR: v, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedEncodingError reports a transfer syntax or stream structure the codec cannot handle
type UnsupportedEncodingError struct {
	Tag    Tag
	Offset int64
	Reason string
}

func (e *UnsupportedEncodingError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("unsupported encoding: %s", e.Reason)
	}
	return fmt.Sprintf("unsupported encoding at offset %d (%s): %s", e.Offset, e.Tag, e.Reason)
}

// TruncatedStreamError reports a declared length that runs past the end of the data
type TruncatedStreamError struct {
	Tag       Tag
	Offset    int64
	Length    int64
	Remaining int64
}

func (e *TruncatedStreamError) Error() string {
	return fmt.Sprintf("truncated stream at offset %d (%s): need %d bytes, %d remaining",
		e.Offset, e.Tag, e.Length, e.Remaining)
}

// IOError wraps a filesystem failure while writing or reading a file
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
