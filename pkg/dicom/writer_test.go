package dicom

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/jpfielding/worklist.go/pkg/dicom/transfer"
	"github.com/jpfielding/worklist.go/pkg/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_ExplicitShortHeader(t *testing.T) {
	ds, err := NewDataset(WithElement(tag.PatientID, "TEST123"))
	require.NoError(t, err)

	got, err := Encode(ds, transfer.ExplicitVRLittleEndian)
	require.NoError(t, err)
	want := []byte{0x10, 0x00, 0x20, 0x00, 'L', 'O', 0x08, 0x00}
	want = append(want, []byte("TEST123 ")...)
	assert.Equal(t, want, got)
}

func TestEncode_ImplicitHeader(t *testing.T) {
	ds, err := NewDataset(WithElement(tag.PatientID, "TEST123"))
	require.NoError(t, err)

	got, err := Encode(ds, transfer.ImplicitVRLittleEndian)
	require.NoError(t, err)
	want := []byte{0x10, 0x00, 0x20, 0x00, 0x08, 0x00, 0x00, 0x00}
	want = append(want, []byte("TEST123 ")...)
	assert.Equal(t, want, got)
}

func TestEncode_EmptySequenceLongForm(t *testing.T) {
	ds, err := NewDataset(WithSequence(tag.ScheduledProtocolCodeSequence))
	require.NoError(t, err)

	got, err := Encode(ds, transfer.ExplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x40, 0x00, 0x08, 0x00, 'S', 'Q', 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, got)
}

func TestEncode_SequenceExplicitLengthItems(t *testing.T) {
	sps := NewSequenceBuilder(tag.ScheduledProcedureStepSequence)
	sps.AddItem(WithElement(tag.Modality, "CR"))
	opt, err := sps.Build()
	require.NoError(t, err)
	ds, err := NewDataset(opt)
	require.NoError(t, err)

	got, err := Encode(ds, transfer.ExplicitVRLittleEndian)
	require.NoError(t, err)
	want := []byte{
		0x40, 0x00, 0x00, 0x01, 'S', 'Q', 0x00, 0x00, 0x12, 0x00, 0x00, 0x00, // SQ, length 18
		0xFE, 0xFF, 0x00, 0xE0, 0x0A, 0x00, 0x00, 0x00, // item, length 10
		0x08, 0x00, 0x60, 0x00, 'C', 'S', 0x02, 0x00, 'C', 'R',
	}
	assert.Equal(t, want, got)

	got, err = Encode(ds, transfer.ImplicitVRLittleEndian)
	require.NoError(t, err)
	want = []byte{
		0x40, 0x00, 0x00, 0x01, 0x12, 0x00, 0x00, 0x00,
		0xFE, 0xFF, 0x00, 0xE0, 0x0A, 0x00, 0x00, 0x00,
		0x08, 0x00, 0x60, 0x00, 0x02, 0x00, 0x00, 0x00, 'C', 'R',
	}
	assert.Equal(t, want, got)
}

func TestEncode_AscendingOrder(t *testing.T) {
	ds := sampleWorklist(t)
	for _, ts := range []transfer.Syntax{transfer.ExplicitVRLittleEndian, transfer.ImplicitVRLittleEndian} {
		t.Run(ts.Name(), func(t *testing.T) {
			data, err := Encode(ds, ts)
			require.NoError(t, err)

			// Walk the top-level headers and check each tag is greater than the last
			r, err := NewReader(data, ts)
			require.NoError(t, err)
			var prev *Tag
			for r.remaining() > 0 {
				next, err := r.readTag()
				require.NoError(t, err)
				if prev != nil {
					assert.True(t, prev.Less(next), "%v then %v", *prev, next)
				}
				_, err = r.readElementWithTag(next)
				require.NoError(t, err)
				prev = &next
			}
		})
	}
}

func TestEncode_EvenLengths(t *testing.T) {
	data, err := Encode(sampleWorklist(t), transfer.ExplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Zero(t, len(data)%2)

	ds, err := NewDataset(WithElement(tag.PatientName, "A"))
	require.NoError(t, err)
	data, err = Encode(ds, transfer.ExplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(data[6:8]))
	assert.Equal(t, []byte("A "), data[8:])
}

func TestEncode_ShortLengthOverflow(t *testing.T) {
	ds, err := NewDataset(WithElementVR(tag.New(0x0009, 0x1010), vr.US, make([]uint16, 40000)))
	require.NoError(t, err)

	_, err = Encode(ds, transfer.ExplicitVRLittleEndian)
	var invalid *InvalidValueError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, tag.New(0x0009, 0x1010), invalid.Tag)

	// Implicit VR always carries a 32-bit length
	_, err = Encode(ds, transfer.ImplicitVRLittleEndian)
	assert.NoError(t, err)
}

func TestEncode_UnsupportedSyntax(t *testing.T) {
	ds := sampleWorklist(t)
	for _, ts := range []transfer.Syntax{transfer.ExplicitVRBigEndian, transfer.DeflatedExplicitVR} {
		_, err := Encode(ds, ts)
		var unsupported *UnsupportedEncodingError
		assert.True(t, errors.As(err, &unsupported), ts.Name())
	}
}

func TestEncode_RejectsDelimiterElements(t *testing.T) {
	ds := &Dataset{}
	ds.Set(&Element{Tag: tag.Item, VR: vr.OB, Value: []byte{}})
	_, err := Encode(ds, transfer.ExplicitVRLittleEndian)
	var invalid *InvalidValueError
	assert.True(t, errors.As(err, &invalid))
}

func TestEncode_MissingVRUsesDictionary(t *testing.T) {
	ds := &Dataset{}
	ds.Set(&Element{Tag: tag.PatientID, Value: "ID"})
	got, err := Encode(ds, transfer.ExplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Equal(t, []byte("LO"), got[4:6])

	ds.Set(&Element{Tag: tag.New(0x0009, 0x1001), Value: "x"})
	_, err = Encode(ds, transfer.ExplicitVRLittleEndian)
	var unknown *UnknownTagError
	assert.True(t, errors.As(err, &unknown))
}

func TestEncodeTo_CountsBytes(t *testing.T) {
	ds := sampleWorklist(t)
	var buf bytes.Buffer
	n, err := EncodeTo(&buf, ds, transfer.ExplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	// Encoding is pure: a second pass gives identical bytes
	again, err := Encode(ds, transfer.ExplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), again)
}
