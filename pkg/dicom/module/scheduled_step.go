package module

import "github.com/jpfielding/worklist.go/pkg/dicom/tag"

// ScheduledProcedureStepModule is one item of the Scheduled Procedure Step Sequence (0040,0100)
type ScheduledProcedureStepModule struct {
	Modality                          string
	ScheduledStationAETitle           string
	ScheduledProcedureStepStartDate   Date
	ScheduledProcedureStepStartTime   Time
	ScheduledPerformingPhysicianName  PersonName
	ScheduledProcedureStepDescription string
	ScheduledProcedureStepID          string
	ScheduledStationName              string
	ScheduledProcedureStepLocation    string
	ScheduledProcedureStepStatus      string
}

// ToTags omits the Scheduled Protocol Code Sequence; the item builder adds it
func (m *ScheduledProcedureStepModule) ToTags() []IODElement {
	els := []IODElement{
		{Tag: tag.Modality, Value: m.Modality},
		{Tag: tag.ScheduledStationAETitle, Value: m.ScheduledStationAETitle},
		{Tag: tag.ScheduledProcedureStepStartDate, Value: m.ScheduledProcedureStepStartDate.String()},
		{Tag: tag.ScheduledProcedureStepStartTime, Value: m.ScheduledProcedureStepStartTime.String()},
		{Tag: tag.ScheduledPerformingPhysicianName, Value: m.ScheduledPerformingPhysicianName.String()},
		{Tag: tag.ScheduledProcedureStepDescription, Value: m.ScheduledProcedureStepDescription},
		{Tag: tag.ScheduledProcedureStepID, Value: m.ScheduledProcedureStepID},
	}
	els = optional(els, tag.ScheduledStationName, m.ScheduledStationName)
	els = optional(els, tag.ScheduledProcedureStepLocation, m.ScheduledProcedureStepLocation)
	return optional(els, tag.ScheduledProcedureStepStatus, m.ScheduledProcedureStepStatus)
}
