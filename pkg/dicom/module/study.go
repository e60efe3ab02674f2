package module

import "github.com/jpfielding/worklist.go/pkg/dicom/tag"

// ImagingServiceRequestModule carries the order-level attributes of a worklist item
type ImagingServiceRequestModule struct {
	AccessionNumber        string
	ReferringPhysicianName PersonName
	RequestingPhysician    PersonName
	Comments               string
}

func (m *ImagingServiceRequestModule) ToTags() []IODElement {
	els := []IODElement{
		{Tag: tag.AccessionNumber, Value: m.AccessionNumber},
		{Tag: tag.ReferringPhysicianName, Value: m.ReferringPhysicianName.String()},
	}
	els = optional(els, tag.RequestingPhysician, m.RequestingPhysician.String())
	return optional(els, tag.ImagingServiceRequestComments, m.Comments)
}

// RequestedProcedureModule identifies the procedure and the study it will produce
type RequestedProcedureModule struct {
	RequestedProcedureID          string
	RequestedProcedureDescription string
	StudyInstanceUID              string
	RequestedProcedurePriority    string
}

func (m *RequestedProcedureModule) ToTags() []IODElement {
	return []IODElement{
		{Tag: tag.StudyInstanceUID, Value: m.StudyInstanceUID},
		{Tag: tag.RequestedProcedureDescription, Value: m.RequestedProcedureDescription},
		{Tag: tag.RequestedProcedureID, Value: m.RequestedProcedureID},
		{Tag: tag.RequestedProcedurePriority, Value: m.RequestedProcedurePriority},
	}
}
