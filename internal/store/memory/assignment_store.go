package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

// AssignmentStore implements store.AssignmentStore using in-memory storage.
// The DB-wide mutex makes resolve, admission checks and the mutation one
// atomic unit, matching the transactional PostgreSQL backend.
type AssignmentStore struct {
	db *DB
}

// NewAssignmentStore creates a new in-memory assignment store.
func NewAssignmentStore(db *DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

type resolvedTarget struct {
	org   *models.Organization
	batch *models.Batch
	pod   *models.Pod
}

// resolveBatch resolves organization and batch names, checking active flags.
// Callers must hold the DB lock.
func (s *AssignmentStore) resolveBatch(orgName, batchName string) (*resolvedTarget, error) {
	t := &resolvedTarget{}

	for _, org := range s.db.organizations {
		if org.Name == orgName && org.IsActive {
			t.org = org
			break
		}
	}
	if t.org == nil {
		return nil, store.ErrOrganizationNotFound
	}

	for _, b := range s.db.batches {
		if b.OrgID == t.org.OrgID && b.Name == batchName && b.IsActive {
			t.batch = b
			break
		}
	}
	if t.batch == nil {
		return nil, store.ErrBatchNotFound
	}

	return t, nil
}

// resolvePod resolves the full org/batch/pod name chain. Callers must hold
// the DB lock.
func (s *AssignmentStore) resolvePod(a *models.PodAssignment) (*resolvedTarget, error) {
	t, err := s.resolveBatch(a.OrganizationName, a.BatchName)
	if err != nil {
		return nil, err
	}

	for _, p := range s.db.pods {
		if p.BatchID == t.batch.BatchID && p.Name == a.PodName && p.IsActive {
			t.pod = p
			break
		}
	}
	if t.pod == nil {
		return nil, store.ErrPodNotFound
	}

	return t, nil
}

// resolveOrguser finds an active orguser of the organization by email.
// Callers must hold the DB lock.
func (s *AssignmentStore) resolveOrguser(email string, orgID uuid.UUID) (uuid.UUID, error) {
	for _, u := range s.db.users {
		if u.Email == email && u.Role == models.RoleOrguser && u.IsActive &&
			u.OrgID != nil && *u.OrgID == orgID {
			return u.UserID, nil
		}
	}
	return uuid.Nil, store.ErrUserNotFound
}

// batchUserCount counts distinct orgusers across all pods of a batch.
// Callers must hold the DB lock.
func (s *AssignmentStore) batchUserCount(batchID uuid.UUID) int {
	seen := make(map[uuid.UUID]bool)
	for podID, userSet := range s.db.podUsers {
		pod, exists := s.db.pods[podID]
		if !exists || pod.BatchID != batchID {
			continue
		}
		for userID := range userSet {
			seen[userID] = true
		}
	}
	return len(seen)
}

// AssignUserToPod assigns an orguser to a pod, enforcing both capacity
// ceilings. Pod ceiling is checked before batch ceiling.
func (s *AssignmentStore) AssignUserToPod(ctx context.Context, a *models.PodAssignment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	t, err := s.resolvePod(a)
	if err != nil {
		return err
	}

	userID, err := s.resolveOrguser(a.MemberEmail, t.org.OrgID)
	if err != nil {
		return err
	}

	// An orguser belongs to at most one pod per batch.
	for podID, userSet := range s.db.podUsers {
		pod, exists := s.db.pods[podID]
		if !exists || pod.BatchID != t.batch.BatchID || !userSet[userID] {
			continue
		}
		if podID == t.pod.PodID {
			return fmt.Errorf("%w: orguser already assigned to this pod", store.ErrAlreadyAssigned)
		}
		return store.ErrAlreadyInBatch
	}

	if len(s.db.podUsers[t.pod.PodID]) >= t.org.MaxUsersPerPod {
		return fmt.Errorf("%w of %d", store.ErrPodCapacityExceeded, t.org.MaxUsersPerPod)
	}

	if s.batchUserCount(t.batch.BatchID) >= t.org.MaxUsersPerBatch {
		return fmt.Errorf("%w of %d", store.ErrBatchCapacityExceeded, t.org.MaxUsersPerBatch)
	}

	if s.db.podUsers[t.pod.PodID] == nil {
		s.db.podUsers[t.pod.PodID] = make(map[uuid.UUID]bool)
	}
	s.db.podUsers[t.pod.PodID][userID] = true

	return nil
}

// RemoveUserFromPod removes an orguser from a pod.
func (s *AssignmentStore) RemoveUserFromPod(ctx context.Context, a *models.PodAssignment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	t, err := s.resolvePod(a)
	if err != nil {
		return err
	}

	userID, err := s.resolveOrguser(a.MemberEmail, t.org.OrgID)
	if err != nil {
		return err
	}

	if !s.db.podUsers[t.pod.PodID][userID] {
		return fmt.Errorf("%w: orguser not assigned to this pod", store.ErrNotAssigned)
	}
	delete(s.db.podUsers[t.pod.PodID], userID)

	return nil
}

// AssignMentorToPod assigns a mentor to a pod.
func (s *AssignmentStore) AssignMentorToPod(ctx context.Context, a *models.PodAssignment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	t, err := s.resolvePod(a)
	if err != nil {
		return err
	}

	var mentorID uuid.UUID
	found := false
	for _, m := range s.db.mentors {
		if m.Email == a.MemberEmail && m.IsActive {
			mentorID = m.MentorID
			found = true
			break
		}
	}
	if !found {
		return store.ErrMentorNotFound
	}

	if s.db.podMentors[t.pod.PodID][mentorID] {
		return fmt.Errorf("%w: mentor already assigned to this pod", store.ErrAlreadyAssigned)
	}

	if s.db.podMentors[t.pod.PodID] == nil {
		s.db.podMentors[t.pod.PodID] = make(map[uuid.UUID]bool)
	}
	s.db.podMentors[t.pod.PodID][mentorID] = true

	return nil
}

// RemoveMentorFromPod removes a mentor from a pod.
func (s *AssignmentStore) RemoveMentorFromPod(ctx context.Context, a *models.PodAssignment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	t, err := s.resolvePod(a)
	if err != nil {
		return err
	}

	var mentorID uuid.UUID
	found := false
	for _, m := range s.db.mentors {
		if m.Email == a.MemberEmail {
			mentorID = m.MentorID
			found = true
			break
		}
	}
	if !found {
		return store.ErrMentorNotFound
	}

	if !s.db.podMentors[t.pod.PodID][mentorID] {
		return fmt.Errorf("%w: mentor not assigned to this pod", store.ErrNotAssigned)
	}
	delete(s.db.podMentors[t.pod.PodID], mentorID)

	return nil
}

// AssignConceptToBatch assigns a concept to a batch.
func (s *AssignmentStore) AssignConceptToBatch(ctx context.Context, a *models.BatchAssignment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	t, err := s.resolveBatch(a.OrganizationName, a.BatchName)
	if err != nil {
		return err
	}

	var conceptID uuid.UUID
	found := false
	for _, c := range s.db.concepts {
		if c.Name == a.ConceptName && c.IsActive {
			conceptID = c.ConceptID
			found = true
			break
		}
	}
	if !found {
		return store.ErrConceptNotFound
	}

	if s.db.batchConcepts[t.batch.BatchID][conceptID] {
		return fmt.Errorf("%w: concept already assigned to this batch", store.ErrAlreadyAssigned)
	}

	if s.db.batchConcepts[t.batch.BatchID] == nil {
		s.db.batchConcepts[t.batch.BatchID] = make(map[uuid.UUID]bool)
	}
	s.db.batchConcepts[t.batch.BatchID][conceptID] = true

	return nil
}

// RemoveConceptFromBatch removes a concept from a batch.
func (s *AssignmentStore) RemoveConceptFromBatch(ctx context.Context, a *models.BatchAssignment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	t, err := s.resolveBatch(a.OrganizationName, a.BatchName)
	if err != nil {
		return err
	}

	var conceptID uuid.UUID
	found := false
	for _, c := range s.db.concepts {
		if c.Name == a.ConceptName {
			conceptID = c.ConceptID
			found = true
			break
		}
	}
	if !found {
		return store.ErrConceptNotFound
	}

	if !s.db.batchConcepts[t.batch.BatchID][conceptID] {
		return fmt.Errorf("%w: concept not assigned to this batch", store.ErrNotAssigned)
	}
	delete(s.db.batchConcepts[t.batch.BatchID], conceptID)

	return nil
}

// ListPodUsers returns the orgusers assigned to an active pod.
func (s *AssignmentStore) ListPodUsers(ctx context.Context, podID uuid.UUID) ([]*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	pod, exists := s.db.pods[podID]
	if !exists || !pod.IsActive {
		return nil, store.ErrPodNotFound
	}

	var users []*models.User
	for userID := range s.db.podUsers[podID] {
		if u, ok := s.db.users[userID]; ok && u.Role == models.RoleOrguser {
			clone := *u
			users = append(users, &clone)
		}
	}

	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })

	return users, nil
}

// ListPodMentors returns the mentors assigned to an active pod.
func (s *AssignmentStore) ListPodMentors(ctx context.Context, podID uuid.UUID) ([]*models.Mentor, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	pod, exists := s.db.pods[podID]
	if !exists || !pod.IsActive {
		return nil, store.ErrPodNotFound
	}

	var mentors []*models.Mentor
	for mentorID := range s.db.podMentors[podID] {
		if m, ok := s.db.mentors[mentorID]; ok {
			clone := *m
			mentors = append(mentors, &clone)
		}
	}

	sort.Slice(mentors, func(i, j int) bool { return mentors[i].Name < mentors[j].Name })

	return mentors, nil
}

// ListPodConcepts returns the active concepts assigned to the batch an
// active pod belongs to.
func (s *AssignmentStore) ListPodConcepts(ctx context.Context, podID uuid.UUID) ([]*models.Concept, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	pod, exists := s.db.pods[podID]
	if !exists || !pod.IsActive {
		return nil, store.ErrPodNotFound
	}

	batch, exists := s.db.batches[pod.BatchID]
	if !exists || !batch.IsActive {
		return nil, store.ErrBatchNotFound
	}

	var concepts []*models.Concept
	for conceptID := range s.db.batchConcepts[batch.BatchID] {
		if c, ok := s.db.concepts[conceptID]; ok && c.IsActive {
			clone := *c
			concepts = append(concepts, &clone)
		}
	}

	sort.Slice(concepts, func(i, j int) bool { return concepts[i].Name < concepts[j].Name })

	return concepts, nil
}

// GetUserProgram returns an active orguser's pods with each pod's mentors
// and the concepts of its batch.
func (s *AssignmentStore) GetUserProgram(ctx context.Context, email string) (*models.UserProgram, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var user *models.User
	for _, u := range s.db.users {
		if u.Email == email && u.Role == models.RoleOrguser && u.IsActive {
			user = u
			break
		}
	}
	if user == nil || user.OrgID == nil {
		return nil, store.ErrUserNotFound
	}

	org, exists := s.db.organizations[*user.OrgID]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	program := &models.UserProgram{
		Email:            user.Email,
		OrganizationName: org.Name,
	}

	var pods []*models.Pod
	for podID, userSet := range s.db.podUsers {
		pod, ok := s.db.pods[podID]
		if !ok || !userSet[user.UserID] || !pod.IsActive {
			continue
		}
		batch, ok := s.db.batches[pod.BatchID]
		if !ok || !batch.IsActive {
			continue
		}
		pods = append(pods, pod)
	}
	sort.Slice(pods, func(i, j int) bool { return pods[i].Name < pods[j].Name })

	for _, pod := range pods {
		pp := models.PodProgram{
			Pod:       *pod,
			BatchName: s.db.batches[pod.BatchID].Name,
		}

		for mentorID := range s.db.podMentors[pod.PodID] {
			if m, ok := s.db.mentors[mentorID]; ok && m.IsActive {
				pp.Mentors = append(pp.Mentors, *m)
			}
		}
		sort.Slice(pp.Mentors, func(i, j int) bool { return pp.Mentors[i].Name < pp.Mentors[j].Name })

		for conceptID := range s.db.batchConcepts[pod.BatchID] {
			if c, ok := s.db.concepts[conceptID]; ok && c.IsActive {
				pp.Concepts = append(pp.Concepts, *c)
			}
		}
		sort.Slice(pp.Concepts, func(i, j int) bool { return pp.Concepts[i].Name < pp.Concepts[j].Name })

		program.Pods = append(program.Pods, pp)
	}

	return program, nil
}
