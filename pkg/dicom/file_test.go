package dicom

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/jpfielding/worklist.go/pkg/dicom/transfer"
	sdicom "github.com/suyashkumar/dicom"
	stag "github.com/suyashkumar/dicom/pkg/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_Part10Layout(t *testing.T) {
	ds := sampleWorklist(t)
	path := filepath.Join(t.TempDir(), "entry.wl")

	n, err := WriteFile(path, ds, transfer.ExplicitVRLittleEndian, true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, make([]byte, 128), data[:128])
	assert.Equal(t, "DICM", string(data[128:132]))

	// Group length element: tag(4) + "UL" + len16(4) + value
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x00, 'U', 'L', 0x04, 0x00}, data[132:140])
	groupLength := binary.LittleEndian.Uint32(data[140:144])
	bodyStart := 144 + int(groupLength)
	// The dataset begins right after the meta group with Specific Character Set
	assert.Equal(t, []byte{0x08, 0x00, 0x05, 0x00}, data[bodyStart:bodyStart+4])

	body, err := Encode(ds, transfer.ExplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Equal(t, body, data[bodyStart:])
}

func TestWriteFile_MetaConsistency(t *testing.T) {
	ds := sampleWorklist(t)
	for _, ts := range []transfer.Syntax{transfer.ExplicitVRLittleEndian, transfer.ImplicitVRLittleEndian} {
		t.Run(ts.Name(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "entry.wl")
			_, err := WriteFile(path, ds, ts, true)
			require.NoError(t, err)

			f, err := ReadFile(path, transfer.ImplicitVRLittleEndian)
			require.NoError(t, err)
			require.True(t, f.HasMeta())
			assert.Equal(t, ts, f.TransferSyntax)
			assert.Equal(t, ts.UID(), f.Meta.GetString(tag.TransferSyntaxUID))
			assert.Equal(t, ts, GetTransferSyntax(f.Meta))
			assert.Equal(t, ModalityWorklistFindUID, f.Meta.GetString(tag.MediaStorageSOPClassUID))
			assert.Equal(t, ImplementationClassUID, f.Meta.GetString(tag.ImplementationClassUID))
			assert.Equal(t, ImplementationVersionName, f.Meta.GetString(tag.ImplementationVersionName))
			assert.NotEmpty(t, f.Meta.GetString(tag.MediaStorageSOPInstanceUID))

			version, ok := f.Meta.Get(tag.FileMetaInformationVersion)
			require.True(t, ok)
			assert.Equal(t, []byte{0x00, 0x01}, version.Value)

			assert.Equal(t, ds, f.Dataset)
		})
	}
}

func TestWriteFile_Deterministic(t *testing.T) {
	ds := sampleWorklist(t)
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.wl"), filepath.Join(dir, "b.wl")
	_, err := WriteFile(a, ds, transfer.ExplicitVRLittleEndian, true)
	require.NoError(t, err)
	_, err = WriteFile(b, ds, transfer.ExplicitVRLittleEndian, true)
	require.NoError(t, err)

	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	assert.Equal(t, da, db)
}

func TestWriteFile_SOPInstanceFromDataset(t *testing.T) {
	ds := sampleWorklist(t)
	require.NoError(t, WithElement(tag.SOPInstanceUID, "1.2.3.4")(ds))
	meta := NewFileMeta(ds)
	assert.Equal(t, "1.2.3.4", meta.MediaStorageSOPInstanceUID)
	assert.Equal(t, ModalityWorklistFindUID, meta.MediaStorageSOPClassUID)
}

func TestWriteFile_BareStream(t *testing.T) {
	ds := sampleWorklist(t)
	path := filepath.Join(t.TempDir(), "entry.wl")
	_, err := WriteFile(path, ds, transfer.ImplicitVRLittleEndian, false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := Encode(ds, transfer.ImplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Equal(t, want, data)

	f, err := ReadFile(path, transfer.ImplicitVRLittleEndian)
	require.NoError(t, err)
	assert.False(t, f.HasMeta())
	assert.Equal(t, ds, f.Dataset)

	got, err := ReadBuffer(data)
	require.NoError(t, err)
	assert.Equal(t, ds, got)
}

func TestWriteFile_RejectsMetaInBody(t *testing.T) {
	ds := sampleWorklist(t)
	require.NoError(t, WithElement(tag.TransferSyntaxUID, transfer.ExplicitVRLittleEndian.UID())(ds))

	dir := t.TempDir()
	_, err := WriteFile(filepath.Join(dir, "entry.wl"), ds, transfer.ExplicitVRLittleEndian, true)
	var invalid *InvalidValueError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, tag.TransferSyntaxUID, invalid.Tag)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteFile_UnsupportedSyntax(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteFile(filepath.Join(dir, "entry.wl"), sampleWorklist(t), transfer.ExplicitVRBigEndian, true)
	var unsupported *UnsupportedEncodingError
	require.True(t, errors.As(err, &unsupported))

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "entry.wl")
	_, err := WriteFile(path, sampleWorklist(t), transfer.ExplicitVRLittleEndian, true)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "create", ioErr.Op)
	assert.True(t, IsIOError(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteFile_RenameFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	// A directory already occupies the target path
	target := filepath.Join(dir, "entry.wl")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0o644))

	_, err := WriteFile(target, sampleWorklist(t), transfer.ExplicitVRLittleEndian, true)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "rename", ioErr.Op)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "entry.wl", entries[0].Name())
}

func TestWriteFile_ReadableByOthers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.wl")
	_, err := WriteFile(path, sampleWorklist(t), transfer.ImplicitVRLittleEndian, true)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWrite_NilDataset(t *testing.T) {
	meta := NewFileMeta(nil)
	var buf bytes.Buffer
	_, err := Write(&buf, nil, transfer.ImplicitVRLittleEndian, &meta)
	require.NoError(t, err)

	f, err := Parse(buf.Bytes(), transfer.ImplicitVRLittleEndian)
	require.NoError(t, err)
	assert.True(t, f.HasMeta())
	assert.Equal(t, 0, f.Dataset.Len())
}

func TestWriteFile_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.wl")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	_, err := WriteFile(path, sampleWorklist(t), transfer.ExplicitVRLittleEndian, true)
	require.NoError(t, err)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "DICM", string(data[128:132]))
}

func TestWrite_CustomMeta(t *testing.T) {
	ds := sampleWorklist(t)
	meta := NewFileMeta(ds)
	meta.SourceAETitle = "MWL_SCP"

	var buf bytes.Buffer
	n, err := Write(&buf, ds, transfer.ExplicitVRLittleEndian, &meta)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	f, err := Parse(buf.Bytes(), transfer.ExplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Equal(t, "MWL_SCP", f.Meta.GetString(tag.SourceApplicationEntityTitle))
	assert.Len(t, f.Preamble, 128)
}

func TestParse_UnsupportedDeclaredSyntax(t *testing.T) {
	ds := sampleWorklist(t)
	var buf bytes.Buffer
	_, err := Write(&buf, ds, transfer.ExplicitVRLittleEndian, &FileMeta{ImplementationClassUID: ImplementationClassUID})
	require.NoError(t, err)

	// Swap the declared syntax for big endian (same length, 1.2.840.10008.1.2.2)
	data := bytes.Replace(buf.Bytes(), []byte("1.2.840.10008.1.2.1\x00"), []byte("1.2.840.10008.1.2.2\x00"), 1)
	_, err = Parse(data, transfer.ExplicitVRLittleEndian)
	var unsupported *UnsupportedEncodingError
	assert.True(t, errors.As(err, &unsupported), "got %v", err)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.wl"), transfer.ExplicitVRLittleEndian)
	assert.True(t, IsIOError(err))
}

// An independent parser accepts the Part 10 output
func TestWriteFile_ParsesWithSuyashkumarDicom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.wl")
	_, err := WriteFile(path, sampleWorklist(t), transfer.ExplicitVRLittleEndian, true)
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	info, err := file.Stat()
	require.NoError(t, err)

	parsed, err := sdicom.Parse(file, info.Size(), nil)
	require.NoError(t, err)

	getString := func(tg stag.Tag) string {
		elem, err := parsed.FindElementByTag(tg)
		require.NoError(t, err)
		values, ok := elem.Value.GetValue().([]string)
		require.True(t, ok)
		require.NotEmpty(t, values)
		return strings.TrimRight(values[0], " \x00")
	}
	assert.Equal(t, "TEST123", getString(stag.PatientID))
	assert.Equal(t, "ACC001", getString(stag.AccessionNumber))
	assert.Equal(t, transfer.ExplicitVRLittleEndian.UID(), getString(stag.TransferSyntaxUID))
}
