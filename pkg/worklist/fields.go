package worklist

// Fields is one worklist entry as supplied by an order system or entry file.
// Empty values are omitted from the dataset or replaced by a default.
type Fields struct {
	PatientName          string `yaml:"patientName" json:"patientName,omitempty"`
	PatientID            string `yaml:"patientId" json:"patientId,omitempty"`
	BirthDate            string `yaml:"birthDate" json:"birthDate,omitempty"` // YYYYMMDD
	Sex                  string `yaml:"sex" json:"sex,omitempty"`             // M, F, O
	AccessionNumber      string `yaml:"accessionNumber" json:"accessionNumber,omitempty"`
	StudyInstanceUID     string `yaml:"studyInstanceUid" json:"studyInstanceUid,omitempty"`
	ReferringPhysician   string `yaml:"referringPhysician" json:"referringPhysician,omitempty"`
	ProcedureDescription string `yaml:"procedureDescription" json:"procedureDescription,omitempty"`
	ProcedureID          string `yaml:"procedureId" json:"procedureId,omitempty"`
	Priority             string `yaml:"priority" json:"priority,omitempty"`
	Modality             string `yaml:"modality" json:"modality,omitempty"`
	ScheduledAET         string `yaml:"scheduledAET" json:"scheduledAET,omitempty"`
	ScheduledStationName string `yaml:"scheduledStationName" json:"scheduledStationName,omitempty"`
	ScheduledDate        string `yaml:"scheduledDate" json:"scheduledDate,omitempty"` // YYYYMMDD
	ScheduledTime        string `yaml:"scheduledTime" json:"scheduledTime,omitempty"` // HHMMSS
	PerformingPhysician  string `yaml:"performingPhysician" json:"performingPhysician,omitempty"`
	StepDescription      string `yaml:"stepDescription" json:"stepDescription,omitempty"`
	StepID               string `yaml:"stepId" json:"stepId,omitempty"`
	StepStatus           string `yaml:"stepStatus" json:"stepStatus,omitempty"`
	CharacterSet         string `yaml:"characterSet" json:"characterSet,omitempty"`
}

// Requested procedure priorities (0040,1003)
const (
	PriorityRoutine = "ROUTINE"
	PriorityNormal  = "NORMAL"
	PriorityHigh    = "HIGH"
	PriorityUrgent  = "URGENT"
)

// DefaultCharacterSet is Latin 1
const DefaultCharacterSet = "ISO_IR 100"

// TestFields returns the canned chest X-ray entry used to check a modality's worklist query.
// The scheduled date is left empty so it follows the builder's clock.
func TestFields() Fields {
	return Fields{
		PatientName:          "TEST^PATIENT^ONE",
		PatientID:            "TEST123",
		BirthDate:            "19800101",
		Sex:                  "M",
		AccessionNumber:      "ACC001",
		ProcedureDescription: "Chest X-Ray PA and LAT",
		ProcedureID:          "RP001",
		Priority:             PriorityRoutine,
		Modality:             "CR",
		ScheduledAET:         "SMARTBOX",
		ScheduledTime:        "090000",
		PerformingPhysician:  "DR^SMITH",
		StepDescription:      "Chest X-Ray PA and LAT",
		StepID:               "SPS001",
	}
}
