package module

import "github.com/jpfielding/worklist.go/pkg/dicom/tag"

// SOPCommonModule holds the character set and, for stored objects, the SOP identity
type SOPCommonModule struct {
	SOPClassUID          string
	SOPInstanceUID       string
	SpecificCharacterSet string
}

func NewSOPCommonModule() SOPCommonModule {
	return SOPCommonModule{
		SpecificCharacterSet: "ISO_IR 100", // Latin 1
	}
}

func (m *SOPCommonModule) ToTags() []IODElement {
	var els []IODElement
	els = optional(els, tag.SpecificCharacterSet, m.SpecificCharacterSet)
	els = optional(els, tag.SOPClassUID, m.SOPClassUID)
	return optional(els, tag.SOPInstanceUID, m.SOPInstanceUID)
}
