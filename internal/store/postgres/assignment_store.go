package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

// assignMaxTries bounds retries of the assignment transaction when the
// database reports a serialization conflict or deadlock.
const assignMaxTries = 3

// AssignmentStore implements store.AssignmentStore using PostgreSQL.
//
// Every mutating operation runs resolve, admission checks and the insert or
// delete inside one transaction. Assignments lock the batch row FOR UPDATE,
// which serializes concurrent assignments into the same batch so the counted
// rows cannot change between the capacity read and the insert.
type AssignmentStore struct {
	pool *pgxpool.Pool
}

// NewAssignmentStore creates a new PostgreSQL-backed assignment store.
func NewAssignmentStore(pool *pgxpool.Pool) *AssignmentStore {
	return &AssignmentStore{
		pool: pool,
	}
}

// inTx runs fn inside a transaction, retrying on transient transaction
// failures. Any other error rolls back and is returned as-is.
func (s *AssignmentStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	op := func() (struct{}, error) {
		err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, fn)
		if err != nil {
			if isRetryableTxError(err) {
				log.Warn().Err(err).Msg("Assignment transaction conflict, retrying")
				return struct{}{}, err
			}
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(assignMaxTries),
	)
	return err
}

// resolvedTarget carries the IDs and ceilings resolved from the
// human-readable assignment keys.
type resolvedTarget struct {
	orgID            uuid.UUID
	batchID          uuid.UUID
	podID            uuid.UUID
	maxUsersPerBatch int
	maxUsersPerPod   int
}

// resolveBatch resolves organization and batch names, checking active flags.
// When lockBatch is set the batch row is locked FOR UPDATE for the remainder
// of the transaction.
func resolveBatch(ctx context.Context, tx pgx.Tx, orgName, batchName string, lockBatch bool) (*resolvedTarget, error) {
	t := &resolvedTarget{}

	err := tx.QueryRow(ctx, `
		SELECT org_id, max_users_per_batch, max_users_per_pod
		FROM organizations
		WHERE name = $1 AND is_active
	`, orgName).Scan(&t.orgID, &t.maxUsersPerBatch, &t.maxUsersPerPod)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	}

	batchQuery := `
		SELECT batch_id
		FROM batches
		WHERE batch_name = $1 AND org_id = $2 AND is_active
	`
	if lockBatch {
		batchQuery += ` FOR UPDATE`
	}
	err = tx.QueryRow(ctx, batchQuery, batchName, t.orgID).Scan(&t.batchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to resolve batch: %w", err)
	}

	return t, nil
}

// resolvePod resolves the full org/batch/pod name chain.
func resolvePod(ctx context.Context, tx pgx.Tx, a *models.PodAssignment, lockBatch bool) (*resolvedTarget, error) {
	t, err := resolveBatch(ctx, tx, a.OrganizationName, a.BatchName, lockBatch)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		SELECT pod_id
		FROM pods
		WHERE pod_name = $1 AND batch_id = $2 AND is_active
	`, a.PodName, t.batchID).Scan(&t.podID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrPodNotFound
		}
		return nil, fmt.Errorf("failed to resolve pod: %w", err)
	}

	return t, nil
}

// resolveOrguser resolves an active orguser of the organization by email.
func resolveOrguser(ctx context.Context, tx pgx.Tx, email string, orgID uuid.UUID) (uuid.UUID, error) {
	var userID uuid.UUID
	err := tx.QueryRow(ctx, `
		SELECT user_id
		FROM users
		WHERE email = $1 AND role = $2 AND org_id = $3 AND is_active
	`, email, models.RoleOrguser, orgID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, store.ErrUserNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve orguser: %w", err)
	}
	return userID, nil
}

// AssignUserToPod assigns an orguser to a pod, enforcing both capacity
// ceilings. Pod ceiling is checked before batch ceiling; when both are at
// capacity the pod error surfaces.
func (s *AssignmentStore) AssignUserToPod(ctx context.Context, a *models.PodAssignment) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		t, err := resolvePod(ctx, tx, a, true)
		if err != nil {
			return err
		}

		userID, err := resolveOrguser(ctx, tx, a.MemberEmail, t.orgID)
		if err != nil {
			return err
		}

		// An orguser belongs to at most one pod per batch.
		var existingPod uuid.UUID
		err = tx.QueryRow(ctx, `
			SELECT pu.pod_id
			FROM pod_users pu
			JOIN pods p ON pu.pod_id = p.pod_id
			WHERE p.batch_id = $1 AND pu.user_id = $2
		`, t.batchID, userID).Scan(&existingPod)
		switch {
		case err == nil:
			if existingPod == t.podID {
				return fmt.Errorf("%w: orguser already assigned to this pod", store.ErrAlreadyAssigned)
			}
			return store.ErrAlreadyInBatch
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("failed to check batch membership: %w", err)
		}

		var podCount int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM pod_users WHERE pod_id = $1
		`, t.podID).Scan(&podCount)
		if err != nil {
			return fmt.Errorf("failed to count pod users: %w", err)
		}
		if podCount >= t.maxUsersPerPod {
			return fmt.Errorf("%w of %d", store.ErrPodCapacityExceeded, t.maxUsersPerPod)
		}

		var batchCount int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(DISTINCT pu.user_id)
			FROM pod_users pu
			JOIN pods p ON pu.pod_id = p.pod_id
			WHERE p.batch_id = $1
		`, t.batchID).Scan(&batchCount)
		if err != nil {
			return fmt.Errorf("failed to count batch users: %w", err)
		}
		if batchCount >= t.maxUsersPerBatch {
			return fmt.Errorf("%w of %d", store.ErrBatchCapacityExceeded, t.maxUsersPerBatch)
		}

		// The unique index is the authoritative duplicate check.
		_, err = tx.Exec(ctx, `
			INSERT INTO pod_users (pod_id, user_id) VALUES ($1, $2)
		`, t.podID, userID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: orguser already assigned to this pod", store.ErrAlreadyAssigned)
			}
			return fmt.Errorf("failed to assign orguser to pod: %w", err)
		}

		log.Info().
			Str("pod_id", t.podID.String()).
			Str("user_id", userID.String()).
			Str("batch_name", a.BatchName).
			Msg("Assigned orguser to pod")

		return nil
	})
}

// RemoveUserFromPod removes an orguser from a pod.
func (s *AssignmentStore) RemoveUserFromPod(ctx context.Context, a *models.PodAssignment) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		t, err := resolvePod(ctx, tx, a, false)
		if err != nil {
			return err
		}

		userID, err := resolveOrguser(ctx, tx, a.MemberEmail, t.orgID)
		if err != nil {
			return err
		}

		result, err := tx.Exec(ctx, `
			DELETE FROM pod_users WHERE pod_id = $1 AND user_id = $2
		`, t.podID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove orguser from pod: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("%w: orguser not assigned to this pod", store.ErrNotAssigned)
		}

		log.Info().
			Str("pod_id", t.podID.String()).
			Str("user_id", userID.String()).
			Msg("Removed orguser from pod")

		return nil
	})
}

// AssignMentorToPod assigns a mentor to a pod. Mentor assignments are not
// subject to capacity ceilings.
func (s *AssignmentStore) AssignMentorToPod(ctx context.Context, a *models.PodAssignment) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		t, err := resolvePod(ctx, tx, a, false)
		if err != nil {
			return err
		}

		var mentorID uuid.UUID
		err = tx.QueryRow(ctx, `
			SELECT mentor_id FROM mentors WHERE mentor_email = $1 AND is_active
		`, a.MemberEmail).Scan(&mentorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return store.ErrMentorNotFound
			}
			return fmt.Errorf("failed to resolve mentor: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO pod_mentors (pod_id, mentor_id) VALUES ($1, $2)
		`, t.podID, mentorID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: mentor already assigned to this pod", store.ErrAlreadyAssigned)
			}
			return fmt.Errorf("failed to assign mentor to pod: %w", err)
		}

		log.Info().
			Str("pod_id", t.podID.String()).
			Str("mentor_id", mentorID.String()).
			Msg("Assigned mentor to pod")

		return nil
	})
}

// RemoveMentorFromPod removes a mentor from a pod. The mentor is resolved
// without the active filter so inactive mentors can still be unassigned.
func (s *AssignmentStore) RemoveMentorFromPod(ctx context.Context, a *models.PodAssignment) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		t, err := resolvePod(ctx, tx, a, false)
		if err != nil {
			return err
		}

		var mentorID uuid.UUID
		err = tx.QueryRow(ctx, `
			SELECT mentor_id FROM mentors WHERE mentor_email = $1
		`, a.MemberEmail).Scan(&mentorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return store.ErrMentorNotFound
			}
			return fmt.Errorf("failed to resolve mentor: %w", err)
		}

		result, err := tx.Exec(ctx, `
			DELETE FROM pod_mentors WHERE pod_id = $1 AND mentor_id = $2
		`, t.podID, mentorID)
		if err != nil {
			return fmt.Errorf("failed to remove mentor from pod: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("%w: mentor not assigned to this pod", store.ErrNotAssigned)
		}

		log.Info().
			Str("pod_id", t.podID.String()).
			Str("mentor_id", mentorID.String()).
			Msg("Removed mentor from pod")

		return nil
	})
}

// AssignConceptToBatch assigns a concept to a batch.
func (s *AssignmentStore) AssignConceptToBatch(ctx context.Context, a *models.BatchAssignment) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		t, err := resolveBatch(ctx, tx, a.OrganizationName, a.BatchName, false)
		if err != nil {
			return err
		}

		var conceptID uuid.UUID
		err = tx.QueryRow(ctx, `
			SELECT concept_id FROM concepts WHERE concept_name = $1 AND is_active
		`, a.ConceptName).Scan(&conceptID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return store.ErrConceptNotFound
			}
			return fmt.Errorf("failed to resolve concept: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO batch_concepts (batch_id, concept_id) VALUES ($1, $2)
		`, t.batchID, conceptID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: concept already assigned to this batch", store.ErrAlreadyAssigned)
			}
			return fmt.Errorf("failed to assign concept to batch: %w", err)
		}

		log.Info().
			Str("batch_id", t.batchID.String()).
			Str("concept_id", conceptID.String()).
			Msg("Assigned concept to batch")

		return nil
	})
}

// RemoveConceptFromBatch removes a concept from a batch.
func (s *AssignmentStore) RemoveConceptFromBatch(ctx context.Context, a *models.BatchAssignment) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		t, err := resolveBatch(ctx, tx, a.OrganizationName, a.BatchName, false)
		if err != nil {
			return err
		}

		var conceptID uuid.UUID
		err = tx.QueryRow(ctx, `
			SELECT concept_id FROM concepts WHERE concept_name = $1
		`, a.ConceptName).Scan(&conceptID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return store.ErrConceptNotFound
			}
			return fmt.Errorf("failed to resolve concept: %w", err)
		}

		result, err := tx.Exec(ctx, `
			DELETE FROM batch_concepts WHERE batch_id = $1 AND concept_id = $2
		`, t.batchID, conceptID)
		if err != nil {
			return fmt.Errorf("failed to remove concept from batch: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("%w: concept not assigned to this batch", store.ErrNotAssigned)
		}

		log.Info().
			Str("batch_id", t.batchID.String()).
			Str("concept_id", conceptID.String()).
			Msg("Removed concept from batch")

		return nil
	})
}

// requireActivePod verifies a pod exists and is active, returning its batch ID.
func (s *AssignmentStore) requireActivePod(ctx context.Context, podID uuid.UUID) (uuid.UUID, error) {
	var batchID uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT batch_id FROM pods WHERE pod_id = $1 AND is_active
	`, podID).Scan(&batchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, store.ErrPodNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to check pod: %w", err)
	}
	return batchID, nil
}

// ListPodUsers returns the orgusers assigned to an active pod.
func (s *AssignmentStore) ListPodUsers(ctx context.Context, podID uuid.UUID) ([]*models.User, error) {
	if _, err := s.requireActivePod(ctx, podID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT u.user_id, u.role, u.org_id, u.email, u.username, u.first_name,
			u.last_name, u.password_hash, u.is_active, u.created_at, u.updated_at
		FROM users u
		JOIN pod_users pu ON u.user_id = pu.user_id
		WHERE pu.pod_id = $1 AND u.role = $2
		ORDER BY u.email
	`, podID, models.RoleOrguser)
	if err != nil {
		return nil, fmt.Errorf("failed to list pod users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pod user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pod users: %w", err)
	}

	return users, nil
}

// ListPodMentors returns the mentors assigned to an active pod.
func (s *AssignmentStore) ListPodMentors(ctx context.Context, podID uuid.UUID) ([]*models.Mentor, error) {
	if _, err := s.requireActivePod(ctx, podID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT m.mentor_id, m.mentor_name, m.mentor_email, m.is_active, m.created_at, m.updated_at
		FROM mentors m
		JOIN pod_mentors pm ON m.mentor_id = pm.mentor_id
		WHERE pm.pod_id = $1
		ORDER BY m.mentor_name
	`, podID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pod mentors: %w", err)
	}
	defer rows.Close()

	var mentors []*models.Mentor
	for rows.Next() {
		var m models.Mentor
		err := rows.Scan(&m.MentorID, &m.Name, &m.Email, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pod mentor: %w", err)
		}
		mentors = append(mentors, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pod mentors: %w", err)
	}

	return mentors, nil
}

// ListPodConcepts returns the active concepts assigned to the batch an
// active pod belongs to.
func (s *AssignmentStore) ListPodConcepts(ctx context.Context, podID uuid.UUID) ([]*models.Concept, error) {
	batchID, err := s.requireActivePod(ctx, podID)
	if err != nil {
		return nil, err
	}

	var active bool
	err = s.pool.QueryRow(ctx, `
		SELECT is_active FROM batches WHERE batch_id = $1
	`, batchID).Scan(&active)
	if err != nil {
		return nil, fmt.Errorf("failed to check batch: %w", err)
	}
	if !active {
		return nil, store.ErrBatchNotFound
	}

	rows, err := s.pool.Query(ctx, `
		SELECT c.concept_id, c.concept_name, c.is_active, c.created_at, c.updated_at
		FROM concepts c
		JOIN batch_concepts bc ON c.concept_id = bc.concept_id
		WHERE bc.batch_id = $1 AND c.is_active
		ORDER BY c.concept_name
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pod concepts: %w", err)
	}
	defer rows.Close()

	var concepts []*models.Concept
	for rows.Next() {
		var c models.Concept
		err := rows.Scan(&c.ConceptID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pod concept: %w", err)
		}
		concepts = append(concepts, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pod concepts: %w", err)
	}

	return concepts, nil
}

// GetUserProgram returns an active orguser's pods with each pod's mentors and
// the concepts of its batch.
func (s *AssignmentStore) GetUserProgram(ctx context.Context, email string) (*models.UserProgram, error) {
	var userID uuid.UUID
	program := &models.UserProgram{Email: email}

	err := s.pool.QueryRow(ctx, `
		SELECT u.user_id, o.name
		FROM users u
		JOIN organizations o ON u.org_id = o.org_id
		WHERE u.email = $1 AND u.role = $2 AND u.is_active
	`, email, models.RoleOrguser).Scan(&userID, &program.OrganizationName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve orguser: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT p.pod_id, p.batch_id, p.pod_name, p.is_active, p.created_at, p.updated_at, b.batch_name
		FROM pod_users pu
		JOIN pods p ON pu.pod_id = p.pod_id
		JOIN batches b ON p.batch_id = b.batch_id
		WHERE pu.user_id = $1 AND p.is_active AND b.is_active
		ORDER BY b.batch_name, p.pod_name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user pods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pp models.PodProgram
		err := rows.Scan(
			&pp.Pod.PodID,
			&pp.Pod.BatchID,
			&pp.Pod.Name,
			&pp.Pod.IsActive,
			&pp.Pod.CreatedAt,
			&pp.Pod.UpdatedAt,
			&pp.BatchName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user pod: %w", err)
		}
		program.Pods = append(program.Pods, pp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user pods: %w", err)
	}

	for i := range program.Pods {
		pp := &program.Pods[i]

		mentors, err := s.ListPodMentors(ctx, pp.Pod.PodID)
		if err != nil {
			return nil, err
		}
		for _, m := range mentors {
			if m.IsActive {
				pp.Mentors = append(pp.Mentors, *m)
			}
		}

		concepts, err := s.ListPodConcepts(ctx, pp.Pod.PodID)
		if err != nil {
			return nil, err
		}
		for _, c := range concepts {
			pp.Concepts = append(pp.Concepts, *c)
		}
	}

	return program, nil
}
