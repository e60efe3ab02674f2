// Package dicom provides a native Go implementation for encoding and decoding
// DICOM Modality Worklist (MWL) datasets and Part 10 files.
//
// The package provides:
//   - Dataset construction with dictionary-checked value representations
//   - Implicit and Explicit VR Little Endian encoding and decoding
//   - Part 10 file assembly with File Meta Information
//   - Attribute type validation of worklist items
//
// Basic usage:
//
//	ds, err := dicom.NewDataset(
//		dicom.WithElement(tag.PatientID, "TEST123"),
//		dicom.WithElement(tag.PatientName, "TEST^PATIENT"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := dicom.WriteFile("entry.wl", ds, dicom.ExplicitVRLittleEndian, true); err != nil {
//		log.Fatal(err)
//	}
//
//	f, err := dicom.ReadFile("entry.wl", dicom.ImplicitVRLittleEndian)
package dicom

import (
	"strings"

	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/jpfielding/worklist.go/pkg/dicom/transfer"
)

// Re-export commonly used types from subpackages
type (
	// TransferSyntax represents a DICOM transfer syntax
	TransferSyntax = transfer.Syntax
)

// Transfer syntax constants
const (
	ExplicitVRLittleEndian = transfer.ExplicitVRLittleEndian
	ImplicitVRLittleEndian = transfer.ImplicitVRLittleEndian
)

// SOP Class UIDs
const (
	ModalityWorklistFindUID = "1.2.840.10008.5.1.4.31"
)

// GetExtension returns the conventional worklist file extension
func GetExtension() string {
	return ".wl"
}

// ReadBuffer parses a Part 10 file or bare dataset stream held in memory.
// Bare streams are read as Implicit VR Little Endian.
func ReadBuffer(data []byte) (*Dataset, error) {
	f, err := Parse(data, ImplicitVRLittleEndian)
	if err != nil {
		return nil, err
	}
	return f.Dataset, nil
}

// IsWorklist returns true if the dataset carries a Scheduled Procedure Step Sequence
func IsWorklist(ds *Dataset) bool {
	_, ok := ds.Get(tag.ScheduledProcedureStepSequence)
	return ok
}

// GetModality returns the modality from the first scheduled procedure step,
// falling back to a top-level Modality
func GetModality(ds *Dataset) string {
	for _, item := range GetSequenceItems(ds, tag.ScheduledProcedureStepSequence) {
		if m := strings.TrimSpace(item.GetString(tag.Modality)); m != "" {
			return m
		}
	}
	return strings.TrimSpace(ds.GetString(tag.Modality))
}

// GetPatientID returns the patient ID (0010,0020)
func GetPatientID(ds *Dataset) string {
	return strings.TrimSpace(ds.GetString(tag.PatientID))
}

// GetAccessionNumber returns the accession number (0008,0050)
func GetAccessionNumber(ds *Dataset) string {
	return strings.TrimSpace(ds.GetString(tag.AccessionNumber))
}

// GetStudyInstanceUID returns the study instance UID (0020,000D)
func GetStudyInstanceUID(ds *Dataset) string {
	return strings.TrimSpace(ds.GetString(tag.StudyInstanceUID))
}

// GetTransferSyntax returns the transfer syntax declared in a meta dataset
func GetTransferSyntax(meta *Dataset) TransferSyntax {
	if s := meta.GetString(tag.TransferSyntaxUID); s != "" {
		return transfer.FromUID(s)
	}
	return ExplicitVRLittleEndian // Default
}
