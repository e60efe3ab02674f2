package dicom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/jpfielding/worklist.go/pkg/dicom/transfer"
	"github.com/jpfielding/worklist.go/pkg/uid"
)

const (
	preambleLength = 128
	magic          = "DICM"
	fileMode       = 0o644 // readable by a worklist SCP
)

// Implementation identity written into the File Meta Information
const (
	ImplementationClassUID    = "1.2.826.0.1.3680043.8.498.1"
	ImplementationVersionName = "GO_WORKLIST"
)

// FileMeta carries the caller-chosen File Meta Information values.
// TransferSyntaxUID is not a field: it is always taken from the syntax
// used to encode the dataset.
type FileMeta struct {
	MediaStorageSOPClassUID    string
	MediaStorageSOPInstanceUID string
	ImplementationClassUID     string
	ImplementationVersionName  string
	SourceAETitle              string
}

// NewFileMeta derives meta values from ds: its SOP Class/Instance UIDs when
// present, otherwise the Modality Worklist FIND class and a UID hashed from
// the study and accession so rewriting the same entry is byte-identical
func NewFileMeta(ds *Dataset) FileMeta {
	meta := FileMeta{
		MediaStorageSOPClassUID:    ds.GetString(tag.SOPClassUID),
		MediaStorageSOPInstanceUID: ds.GetString(tag.SOPInstanceUID),
		ImplementationClassUID:     ImplementationClassUID,
		ImplementationVersionName:  ImplementationVersionName,
	}
	if meta.MediaStorageSOPClassUID == "" {
		meta.MediaStorageSOPClassUID = ModalityWorklistFindUID
	}
	if meta.MediaStorageSOPInstanceUID == "" {
		meta.MediaStorageSOPInstanceUID = uid.Hash(
			ds.GetString(tag.StudyInstanceUID),
			ds.GetString(tag.AccessionNumber),
			ds.GetString(tag.PatientID),
		)
	}
	return meta
}

// Dataset builds the group 0002 elements, including the group length, for ts
func (m FileMeta) Dataset(ts transfer.Syntax) (*Dataset, error) {
	opts := []Option{
		WithElement(tag.FileMetaInformationVersion, []byte{0x00, 0x01}),
		WithElement(tag.MediaStorageSOPClassUID, m.MediaStorageSOPClassUID),
		WithElement(tag.MediaStorageSOPInstanceUID, m.MediaStorageSOPInstanceUID),
		WithElement(tag.TransferSyntaxUID, ts.UID()),
		WithElement(tag.ImplementationClassUID, m.ImplementationClassUID),
	}
	if m.ImplementationVersionName != "" {
		opts = append(opts, WithElement(tag.ImplementationVersionName, m.ImplementationVersionName))
	}
	if m.SourceAETitle != "" {
		opts = append(opts, WithElement(tag.SourceApplicationEntityTitle, m.SourceAETitle))
	}
	meta, err := NewDataset(opts...)
	if err != nil {
		return nil, err
	}
	// Meta is always Explicit VR Little Endian
	body, err := Encode(meta, transfer.ExplicitVRLittleEndian)
	if err != nil {
		return nil, fmt.Errorf("encoding file meta: %w", err)
	}
	if err := WithElement(tag.FileMetaInformationGroupLength, uint32(len(body)))(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// Write writes ds to w. With a nil meta the output is a bare dataset stream;
// otherwise it is a Part 10 file: preamble, DICM, File Meta Information and
// the dataset encoded with ts.
func Write(w io.Writer, ds *Dataset, ts transfer.Syntax, meta *FileMeta) (int64, error) {
	cw := &CountingWriter{Writer: w}
	if !ts.IsSupported() {
		return 0, &UnsupportedEncodingError{Offset: -1, Reason: fmt.Sprintf("transfer syntax %s", ts.Name())}
	}

	if meta != nil {
		for _, t := range ds.Tags() {
			if t.IsGroup0002() {
				return 0, invalidValue(t, ds.Elements[t].VR, "file meta elements belong in the header, not the dataset")
			}
		}
		metaDS, err := meta.Dataset(ts)
		if err != nil {
			return 0, err
		}
		// 1. Write Preamble (128 bytes 0x00)
		if _, err := cw.Write(make([]byte, preambleLength)); err != nil {
			return cw.Count.Load(), err
		}
		// 2. Write DICM Magic
		if _, err := cw.Write([]byte(magic)); err != nil {
			return cw.Count.Load(), err
		}
		// 3. File Meta Information, always Explicit VR Little Endian
		if _, err := writeDataSetBody(cw, metaDS, true); err != nil {
			return cw.Count.Load(), err
		}
	}

	// 4. Dataset Elements
	if _, err := writeDataSetBody(cw, ds, ts.IsExplicitVR()); err != nil {
		return cw.Count.Load(), err
	}
	return cw.Count.Load(), nil
}

// WriteFile writes ds to path. The bytes are fully encoded before the file is
// touched, then written to a temporary file in the same directory and renamed
// into place, so a failure never leaves a partial file at path.
func WriteFile(path string, ds *Dataset, ts transfer.Syntax, includeMeta bool) (int64, error) {
	var meta *FileMeta
	if includeMeta {
		m := NewFileMeta(ds)
		meta = &m
	}
	var buf bytes.Buffer
	if _, err := Write(&buf, ds, ts, meta); err != nil {
		return 0, err
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return 0, &IOError{Op: "create", Path: path, Err: err}
	}
	tmp := f.Name()
	committed := false
	defer func() {
		if !committed {
			f.Close()
			os.Remove(tmp)
		}
	}()

	n, err := f.Write(buf.Bytes())
	if err != nil {
		return int64(n), &IOError{Op: "write", Path: tmp, Err: err}
	}
	if err := f.Chmod(fileMode); err != nil {
		return int64(n), &IOError{Op: "chmod", Path: tmp, Err: err}
	}
	if err := f.Sync(); err != nil {
		return int64(n), &IOError{Op: "sync", Path: tmp, Err: err}
	}
	if err := f.Close(); err != nil {
		return int64(n), &IOError{Op: "close", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return int64(n), &IOError{Op: "rename", Path: path, Err: err}
	}
	committed = true
	slog.Debug("wrote worklist file", "path", path, "bytes", n, "transferSyntax", ts.Name(), "meta", includeMeta)
	return int64(n), nil
}

// File is a parsed stream: the optional Part 10 header plus the dataset
type File struct {
	Preamble       []byte
	Meta           *Dataset // nil for bare dataset streams
	Dataset        *Dataset
	TransferSyntax transfer.Syntax
}

// HasMeta reports whether the stream carried a Part 10 header
func (f *File) HasMeta() bool {
	return f.Meta != nil
}

// Parse decodes a Part 10 file or a bare dataset stream. A DICM header
// selects the syntax declared in the meta group; bare streams use fallback.
func Parse(data []byte, fallback transfer.Syntax) (*File, error) {
	if len(data) < preambleLength+len(magic) || string(data[preambleLength:preambleLength+len(magic)]) != magic {
		ds, err := Decode(data, fallback)
		if err != nil {
			return nil, err
		}
		return &File{Dataset: ds, TransferSyntax: fallback}, nil
	}

	metaStart := preambleLength + len(magic)
	mr := &Reader{data: data[metaStart:], base: int64(metaStart), explicitVR: true}
	meta, err := mr.readDataset(false, func(t Tag) bool { return !t.IsGroup0002() })
	if err != nil {
		return nil, fmt.Errorf("reading file meta: %w", err)
	}
	tsElem, ok := meta.Get(tag.TransferSyntaxUID)
	if !ok {
		return nil, &UnsupportedEncodingError{Tag: tag.TransferSyntaxUID, Offset: int64(metaStart), Reason: "file meta has no transfer syntax"}
	}
	tsUID, _ := tsElem.GetString()
	ts := transfer.FromUID(tsUID)
	if !ts.IsSupported() {
		return nil, &UnsupportedEncodingError{Tag: tag.TransferSyntaxUID, Offset: int64(metaStart), Reason: fmt.Sprintf("transfer syntax %s", ts.Name())}
	}

	bodyStart := metaStart + mr.pos
	br := &Reader{data: data[bodyStart:], base: int64(bodyStart), explicitVR: ts.IsExplicitVR()}
	ds, err := br.ReadDataset()
	if err != nil {
		return nil, err
	}
	return &File{
		Preamble:       append([]byte{}, data[:preambleLength]...),
		Meta:           meta,
		Dataset:        ds,
		TransferSyntax: ts,
	}, nil
}

// ReadFile reads and parses path; fallback applies to bare dataset streams
func ReadFile(path string, fallback transfer.Syntax) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return Parse(data, fallback)
}

// IsIOError reports whether err came from the filesystem
func IsIOError(err error) bool {
	var ioe *IOError
	return errors.As(err, &ioe)
}
