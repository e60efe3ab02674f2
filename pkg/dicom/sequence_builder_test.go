package dicom

import (
	"errors"
	"testing"

	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceBuilder_Basic(t *testing.T) {
	builder := NewSequenceBuilder(tag.ReferencedStudySequence)

	builder.AddItem(
		WithElement(tag.ReferencedSOPClassUID, "1.2.840.10008.3.1.2.3.1"),
		WithElement(tag.ReferencedSOPInstanceUID, "1.2.3.4.5"),
	).AddItem(
		WithElement(tag.ReferencedSOPClassUID, "1.2.840.10008.3.1.2.3.1"),
		WithElement(tag.ReferencedSOPInstanceUID, "1.2.3.4.6"),
	)

	opt, err := builder.Build()
	require.NoError(t, err)

	ds, err := NewDataset(
		WithElement(tag.PatientID, "PAT-001"),
		opt,
	)
	require.NoError(t, err)

	items := GetSequenceItems(ds, tag.ReferencedStudySequence)
	require.Len(t, items, 2)
	assert.Equal(t, "1.2.3.4.5", items[0].GetString(tag.ReferencedSOPInstanceUID))
	assert.Equal(t, "1.2.3.4.6", items[1].GetString(tag.ReferencedSOPInstanceUID))
}

func TestSequenceBuilder_ScheduledStep(t *testing.T) {
	sps := NewSequenceBuilder(tag.ScheduledProcedureStepSequence)
	sps.AddItem(
		WithElement(tag.Modality, "CR"),
		WithElement(tag.ScheduledProcedureStepID, "SPS001"),
		WithSequence(tag.ScheduledProtocolCodeSequence),
	)
	opt, err := sps.Build()
	require.NoError(t, err)
	ds, err := NewDataset(opt)
	require.NoError(t, err)

	items := GetSequenceItems(ds, tag.ScheduledProcedureStepSequence)
	require.Len(t, items, 1)
	assert.Equal(t, "CR", items[0].GetString(tag.Modality))

	codes := GetSequenceItems(items[0], tag.ScheduledProtocolCodeSequence)
	assert.NotNil(t, codes)
	assert.Empty(t, codes)
}

func TestSequenceBuilder_Empty(t *testing.T) {
	opt, err := NewSequenceBuilder(tag.ReferencedStudySequence).Build()
	require.NoError(t, err)
	ds, err := NewDataset(opt)
	require.NoError(t, err)

	items := GetSequenceItems(ds, tag.ReferencedStudySequence)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSequenceBuilder_BuildCopiesItems(t *testing.T) {
	builder := NewSequenceBuilder(tag.ReferencedStudySequence)
	builder.AddItem(WithElement(tag.ReferencedSOPInstanceUID, "1.2.3.1"))
	opt, err := builder.Build()
	require.NoError(t, err)

	builder.AddItem(WithElement(tag.ReferencedSOPInstanceUID, "1.2.3.2"))
	ds, err := NewDataset(opt)
	require.NoError(t, err)
	assert.Len(t, GetSequenceItems(ds, tag.ReferencedStudySequence), 1)
}

func TestSequenceBuilder_ErrorHandling(t *testing.T) {
	builder := NewSequenceBuilder(tag.ScheduledProcedureStepSequence)

	builder.AddItem(WithElement(tag.Modality, "CR"))
	builder.AddItem(WithElement(tag.New(0x0009, 0x1001), "private"))
	builder.AddItem(WithElement(tag.ScheduledProcedureStepStartDate, "2024-01-15"))

	_, err := builder.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 error(s)")
	var unknown *UnknownTagError
	assert.True(t, errors.As(err, &unknown))
}
