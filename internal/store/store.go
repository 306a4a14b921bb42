package store

// Stores bundles the per-entity store interfaces so the server can be wired
// against one handle regardless of backend.
type Stores struct {
	Organizations OrganizationStore
	Batches       BatchStore
	Pods          PodStore
	Users         UserStore
	Mentors       MentorStore
	Concepts      ConceptStore
	Assignments   AssignmentStore
}
