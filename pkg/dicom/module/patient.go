package module

import "github.com/jpfielding/worklist.go/pkg/dicom/tag"

// PatientModule represents the Patient Module attributes returned in a worklist item
type PatientModule struct {
	PatientName      PersonName
	PatientID        string
	PatientBirthDate Date
	PatientSex       string // M, F, O
	PatientComments  string
}

// ToTags emits the Type 2 attributes even when empty, as worklist matching expects them
func (m *PatientModule) ToTags() []IODElement {
	els := []IODElement{
		{Tag: tag.PatientName, Value: m.PatientName.String()},
		{Tag: tag.PatientID, Value: m.PatientID},
		{Tag: tag.PatientBirthDate, Value: m.PatientBirthDate.String()},
		{Tag: tag.PatientSex, Value: m.PatientSex},
	}
	return optional(els, tag.PatientComments, m.PatientComments)
}

// SetPatientName sets the patient's name
func (m *PatientModule) SetPatientName(first, last, middle, prefix, suffix string) {
	m.PatientName = PersonName{
		GivenName:  first,
		FamilyName: last,
		MiddleName: middle,
		Prefix:     prefix,
		Suffix:     suffix,
	}
}
