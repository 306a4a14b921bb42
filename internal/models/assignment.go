package models

// PodAssignment identifies a pod membership by the human-readable keys the
// API accepts. The same shape is echoed back on success.
type PodAssignment struct {
	OrganizationName string `json:"organization_name"`
	BatchName        string `json:"batch_name"`
	PodName          string `json:"pod_name"`
	MemberEmail      string `json:"member_email"`
}

// BatchAssignment identifies a batch/concept pairing by name.
type BatchAssignment struct {
	OrganizationName string `json:"organization_name"`
	BatchName        string `json:"batch_name"`
	ConceptName      string `json:"concept_name"`
}

// PodProgram is an orguser's view of one pod: the pod itself, the mentors
// assigned to it and the concepts assigned to its batch.
type PodProgram struct {
	Pod       Pod       `json:"pod"`
	BatchName string    `json:"batch_name"`
	Mentors   []Mentor  `json:"mentors"`
	Concepts  []Concept `json:"concepts"`
}

// UserProgram is the full program view for one orguser.
type UserProgram struct {
	Email            string       `json:"email"`
	OrganizationName string       `json:"organization_name"`
	Pods             []PodProgram `json:"pods"`
}
