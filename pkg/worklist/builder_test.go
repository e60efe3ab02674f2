package worklist

import (
	"errors"
	"testing"
	"time"

	"github.com/jpfielding/worklist.go/pkg/dicom"
	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/jpfielding/worklist.go/pkg/dicom/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedUIDs struct{ uid string }

func (f fixedUIDs) NewUID() string { return f.uid }

var fixedNow = time.Date(2024, 1, 15, 14, 30, 45, 123456789, time.UTC)

func fakeOpts() []Option {
	return []Option{
		WithClock(ClockFunc(func() time.Time { return fixedNow })),
		WithUIDGenerator(fixedUIDs{uid: "2.25.42"}),
	}
}

func minimalFields() Fields {
	return Fields{
		PatientID:       "TEST123",
		AccessionNumber: "ACC001",
		Modality:        "CR",
		PatientName:     "TEST^PATIENT",
		StepID:          "SPS001",
	}
}

func step(t *testing.T, ds *dicom.Dataset) *dicom.Dataset {
	t.Helper()
	items := dicom.GetSequenceItems(ds, tag.ScheduledProcedureStepSequence)
	require.Len(t, items, 1)
	return items[0]
}

func TestBuild_Scenario(t *testing.T) {
	ds, err := Build(minimalFields(), fakeOpts()...)
	require.NoError(t, err)

	data, err := dicom.Encode(ds, transfer.ImplicitVRLittleEndian)
	require.NoError(t, err)
	decoded, err := dicom.Decode(data, transfer.ImplicitVRLittleEndian)
	require.NoError(t, err)

	assert.Equal(t, "TEST123", decoded.GetString(tag.PatientID))
	sps := step(t, decoded)
	assert.Equal(t, "CR", sps.GetString(tag.Modality))
	assert.Equal(t, "SPS001", sps.GetString(tag.ScheduledProcedureStepID))

	codes := dicom.GetSequenceItems(sps, tag.ScheduledProtocolCodeSequence)
	assert.NotNil(t, codes)
	assert.Empty(t, codes)
}

func TestBuild_Defaults(t *testing.T) {
	ds, err := Build(minimalFields(), fakeOpts()...)
	require.NoError(t, err)

	assert.Equal(t, "2.25.42", ds.GetString(tag.StudyInstanceUID))
	assert.Equal(t, PriorityRoutine, ds.GetString(tag.RequestedProcedurePriority))
	assert.Equal(t, DefaultCharacterSet, ds.GetString(tag.SpecificCharacterSet))

	sps := step(t, ds)
	assert.Equal(t, "20240115", sps.GetString(tag.ScheduledProcedureStepStartDate))
	assert.Equal(t, "143045", sps.GetString(tag.ScheduledProcedureStepStartTime))

	// Type 2 attributes are present even when empty
	for _, tg := range []tag.Tag{tag.PatientBirthDate, tag.PatientSex, tag.ReferringPhysicianName} {
		elem, ok := ds.Get(tg)
		require.True(t, ok, tg.String())
		assert.True(t, elem.IsEmpty())
	}
}

func TestBuild_ExplicitValuesWin(t *testing.T) {
	f := TestFields()
	f.ScheduledDate = "20240301"
	f.StudyInstanceUID = "1.2.3.4"
	f.Priority = "urgent"
	f.Sex = "f"

	ds, err := Build(f, fakeOpts()...)
	require.NoError(t, err)

	assert.Equal(t, "1.2.3.4", ds.GetString(tag.StudyInstanceUID))
	assert.Equal(t, PriorityUrgent, ds.GetString(tag.RequestedProcedurePriority))
	assert.Equal(t, "F", ds.GetString(tag.PatientSex))
	assert.Equal(t, "TEST^PATIENT^ONE", ds.GetString(tag.PatientName))
	assert.Equal(t, "19800101", ds.GetString(tag.PatientBirthDate))
	assert.Equal(t, "RP001", ds.GetString(tag.RequestedProcedureID))

	sps := step(t, ds)
	assert.Equal(t, "20240301", sps.GetString(tag.ScheduledProcedureStepStartDate))
	assert.Equal(t, "090000", sps.GetString(tag.ScheduledProcedureStepStartTime))
	assert.Equal(t, "SMARTBOX", sps.GetString(tag.ScheduledStationAETitle))
	assert.Equal(t, "DR^SMITH", sps.GetString(tag.ScheduledPerformingPhysicianName))
}

func TestBuild_MissingRequired(t *testing.T) {
	tests := []struct {
		field string
		clear func(*Fields)
	}{
		{"patientId", func(f *Fields) { f.PatientID = "" }},
		{"accessionNumber", func(f *Fields) { f.AccessionNumber = " " }},
		{"modality", func(f *Fields) { f.Modality = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := minimalFields()
			tt.clear(&f)
			_, err := Build(f, fakeOpts()...)
			var missing *MissingRequiredFieldError
			require.True(t, errors.As(err, &missing), "got %v", err)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestBuild_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Fields)
		tag    tag.Tag
	}{
		{"priority", func(f *Fields) { f.Priority = "STAT" }, tag.RequestedProcedurePriority},
		{"sex", func(f *Fields) { f.Sex = "X" }, tag.PatientSex},
		{"birth date", func(f *Fields) { f.BirthDate = "1980-01-01" }, tag.PatientBirthDate},
		{"scheduled date", func(f *Fields) { f.ScheduledDate = "20241301" }, tag.ScheduledProcedureStepStartDate},
		{"scheduled time", func(f *Fields) { f.ScheduledTime = "9am" }, tag.ScheduledProcedureStepStartTime},
		{"study uid", func(f *Fields) { f.StudyInstanceUID = "1.02.3" }, tag.StudyInstanceUID},
		{"long patient id", func(f *Fields) { f.PatientID = "0123456789012345678901234567890123456789012345678901234567890123456789" }, tag.PatientID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := minimalFields()
			tt.modify(&f)
			_, err := Build(f, fakeOpts()...)
			var invalid *dicom.InvalidValueError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.tag, invalid.Tag)
		})
	}
}

func TestBuild_RoundTrip(t *testing.T) {
	ds, err := Build(TestFields(), fakeOpts()...)
	require.NoError(t, err)
	for _, ts := range []transfer.Syntax{transfer.ExplicitVRLittleEndian, transfer.ImplicitVRLittleEndian} {
		t.Run(ts.Name(), func(t *testing.T) {
			data, err := dicom.Encode(ds, ts)
			require.NoError(t, err)
			got, err := dicom.Decode(data, ts)
			require.NoError(t, err)
			assert.Equal(t, ds, got)
		})
	}
}

func TestBuild_Validates(t *testing.T) {
	ds, err := Build(TestFields(), fakeOpts()...)
	require.NoError(t, err)
	result := dicom.ValidateWorklist(ds)
	assert.True(t, result.IsValid(), "%v", result.Errors)
}

func TestBuild_DefaultCollaborators(t *testing.T) {
	a, err := Build(minimalFields())
	require.NoError(t, err)
	b, err := Build(minimalFields())
	require.NoError(t, err)
	assert.NotEqual(t, a.GetString(tag.StudyInstanceUID), b.GetString(tag.StudyInstanceUID))
	assert.Regexp(t, `^2\.25\.\d+$`, a.GetString(tag.StudyInstanceUID))
}

func TestFileName(t *testing.T) {
	ds, err := Build(Fields{PatientID: "P", AccessionNumber: "ACC/001 x", Modality: "MR"}, fakeOpts()...)
	require.NoError(t, err)
	assert.Equal(t, "out/ACC_001_x.wl", FileName("out", ds, ".wl"))
}
