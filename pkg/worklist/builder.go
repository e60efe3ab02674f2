package worklist

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jpfielding/worklist.go/pkg/dicom"
	"github.com/jpfielding/worklist.go/pkg/dicom/module"
	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/jpfielding/worklist.go/pkg/dicom/vr"
	"github.com/jpfielding/worklist.go/pkg/uid"
)

// MissingRequiredFieldError is returned when an entry lacks a field every
// schedulable worklist item needs
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required worklist field %q", e.Field)
}

// Clock supplies the current time for date and time defaults
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the local wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Option configures a Builder
type Option func(*Builder)

// WithClock replaces the clock used for the scheduled date and time defaults
func WithClock(c Clock) Option {
	return func(b *Builder) {
		b.clock = c
	}
}

// WithUIDGenerator replaces the generator used when no Study Instance UID is given
func WithUIDGenerator(g uid.Generator) Option {
	return func(b *Builder) {
		b.uids = g
	}
}

// Builder assembles Modality Worklist datasets from entry fields
type Builder struct {
	clock Clock
	uids  uid.Generator
}

// New creates a Builder using the system clock and 2.25 UUID UIDs unless overridden
func New(opts ...Option) *Builder {
	b := &Builder{clock: SystemClock{}, uids: uid.UUIDGenerator{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles a worklist dataset with a default Builder
func Build(f Fields, opts ...Option) (*dicom.Dataset, error) {
	return New(opts...).Build(f)
}

// Build returns a dataset holding the patient, imaging service request and
// requested procedure attributes plus a Scheduled Procedure Step Sequence with
// exactly one item, which carries an empty Scheduled Protocol Code Sequence.
func (b *Builder) Build(f Fields) (*dicom.Dataset, error) {
	required := []struct{ name, value string }{
		{"patientId", f.PatientID},
		{"accessionNumber", f.AccessionNumber},
		{"modality", f.Modality},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, &MissingRequiredFieldError{Field: r.name}
		}
	}

	now := b.clock.Now()
	priority, err := normalizePriority(f.Priority)
	if err != nil {
		return nil, err
	}
	sex, err := normalizeSex(f.Sex)
	if err != nil {
		return nil, err
	}
	birthDate, err := module.ParseDate(f.BirthDate)
	if err != nil {
		return nil, &dicom.InvalidValueError{Tag: tag.PatientBirthDate, VR: vr.DA, Reason: err.Error()}
	}

	scheduledDate := module.NewDate(now)
	if f.ScheduledDate != "" {
		if scheduledDate, err = module.ParseDate(f.ScheduledDate); err != nil {
			return nil, &dicom.InvalidValueError{Tag: tag.ScheduledProcedureStepStartDate, VR: vr.DA, Reason: err.Error()}
		}
	} else {
		slog.Debug("defaulting scheduled date", "date", scheduledDate.String())
	}
	scheduledTime := module.NewTime(now.Truncate(time.Second))
	if f.ScheduledTime != "" {
		if scheduledTime, err = module.ParseTime(f.ScheduledTime); err != nil {
			return nil, &dicom.InvalidValueError{Tag: tag.ScheduledProcedureStepStartTime, VR: vr.TM, Reason: err.Error()}
		}
	} else {
		slog.Debug("defaulting scheduled time", "time", scheduledTime.String())
	}

	studyUID := strings.TrimSpace(f.StudyInstanceUID)
	if studyUID == "" {
		studyUID = b.uids.NewUID()
		slog.Debug("generated study instance uid", "uid", studyUID)
	}
	if err := uid.Validate(studyUID); err != nil {
		return nil, &dicom.InvalidValueError{Tag: tag.StudyInstanceUID, VR: vr.UI, Reason: err.Error()}
	}

	sop := module.NewSOPCommonModule()
	if f.CharacterSet != "" {
		sop.SpecificCharacterSet = f.CharacterSet
	}
	patient := module.PatientModule{
		PatientName:      module.ParsePersonName(f.PatientName),
		PatientID:        strings.TrimSpace(f.PatientID),
		PatientBirthDate: birthDate,
		PatientSex:       sex,
	}
	request := module.ImagingServiceRequestModule{
		AccessionNumber:        strings.TrimSpace(f.AccessionNumber),
		ReferringPhysicianName: module.ParsePersonName(f.ReferringPhysician),
	}
	procedure := module.RequestedProcedureModule{
		RequestedProcedureID:          f.ProcedureID,
		RequestedProcedureDescription: f.ProcedureDescription,
		StudyInstanceUID:              studyUID,
		RequestedProcedurePriority:    priority,
	}
	step := module.ScheduledProcedureStepModule{
		Modality:                          strings.ToUpper(strings.TrimSpace(f.Modality)),
		ScheduledStationAETitle:           f.ScheduledAET,
		ScheduledProcedureStepStartDate:   scheduledDate,
		ScheduledProcedureStepStartTime:   scheduledTime,
		ScheduledPerformingPhysicianName:  module.ParsePersonName(f.PerformingPhysician),
		ScheduledProcedureStepDescription: f.StepDescription,
		ScheduledProcedureStepID:          f.StepID,
		ScheduledStationName:              f.ScheduledStationName,
		ScheduledProcedureStepStatus:      strings.ToUpper(f.StepStatus),
	}

	sps := dicom.NewSequenceBuilder(tag.ScheduledProcedureStepSequence)
	sps.AddItem(
		dicom.WithModule(&step),
		dicom.WithSequence(tag.ScheduledProtocolCodeSequence),
	)
	spsOpt, err := sps.Build()
	if err != nil {
		return nil, err
	}

	ds, err := dicom.NewDataset(
		dicom.WithModule(&sop),
		dicom.WithModule(&patient),
		dicom.WithModule(&request),
		dicom.WithModule(&procedure),
		spsOpt,
	)
	if err != nil {
		return nil, fmt.Errorf("building worklist %s: %w", request.AccessionNumber, err)
	}
	return ds, nil
}

func normalizePriority(p string) (string, error) {
	p = strings.ToUpper(strings.TrimSpace(p))
	switch p {
	case "":
		return PriorityRoutine, nil
	case PriorityRoutine, PriorityNormal, PriorityHigh, PriorityUrgent:
		return p, nil
	}
	return "", &dicom.InvalidValueError{
		Tag:    tag.RequestedProcedurePriority,
		VR:     vr.SH,
		Reason: fmt.Sprintf("priority %q is not one of ROUTINE, NORMAL, HIGH, URGENT", p),
	}
}

func normalizeSex(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "", "M", "F", "O":
		return s, nil
	}
	return "", &dicom.InvalidValueError{Tag: tag.PatientSex, VR: vr.CS, Reason: fmt.Sprintf("sex %q is not M, F or O", s)}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName returns "<dir>/<accession><ext>" for a built dataset, with
// characters unsafe in file names replaced by '_'
func FileName(dir string, ds *dicom.Dataset, ext string) string {
	name := unsafeFileChars.ReplaceAllString(dicom.GetAccessionNumber(ds), "_")
	if name == "" {
		name = "worklist"
	}
	return filepath.Join(dir, name+ext)
}
