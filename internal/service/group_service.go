// Package service implements the application logic between the HTTP
// handlers and the store: group and participant management plus the toss
// orchestration around the assignment engine.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/santaswap/internal/models"
	"github.com/mmynk/santaswap/internal/storage"
	"github.com/mmynk/santaswap/internal/toss"
)

// GroupService manages gift-exchange groups and runs tosses.
type GroupService struct {
	store storage.Store

	// mu guards tossLocks. Each group gets its own lock so concurrent
	// tosses on one group serialize while different groups never contend.
	mu        sync.Mutex
	tossLocks map[string]*sync.Mutex
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{
		store:     store,
		tossLocks: make(map[string]*sync.Mutex),
	}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, name, description string) (*models.Group, error) {
	group := &models.Group{
		Name:        name,
		Description: description,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name)
	return group, nil
}

// GetGroup retrieves a group with its participants.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// ListGroups retrieves all groups without participants.
func (s *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.store.ListGroups(ctx)
}

// UpdateGroup updates a group's name and description and returns the
// updated group.
func (s *GroupService) UpdateGroup(ctx context.Context, groupID, name, description string) (*models.Group, error) {
	group := &models.Group{
		ID:          groupID,
		Name:        name,
		Description: description,
	}
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group updated", "group_id", groupID)
	return s.store.GetGroup(ctx, groupID)
}

// DeleteGroup removes a group and all its participants.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string) error {
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return err
	}

	// The group is gone; its toss lock can go too.
	s.mu.Lock()
	delete(s.tossLocks, groupID)
	s.mu.Unlock()

	slog.Info("Group deleted", "group_id", groupID)
	return nil
}

// AddParticipant adds a participant to a group.
func (s *GroupService) AddParticipant(ctx context.Context, groupID, name, wish string) (*models.Participant, error) {
	participant := &models.Participant{
		GroupID: groupID,
		Name:    name,
		Wish:    wish,
	}
	if err := s.store.AddParticipant(ctx, participant); err != nil {
		return nil, err
	}

	slog.Info("Participant added", "group_id", groupID, "participant_id", participant.ID)
	return participant, nil
}

// DeleteParticipant removes a participant from a group.
func (s *GroupService) DeleteParticipant(ctx context.Context, groupID, participantID string) error {
	if err := s.store.DeleteParticipant(ctx, groupID, participantID); err != nil {
		return err
	}

	slog.Info("Participant deleted", "group_id", groupID, "participant_id", participantID)
	return nil
}

// GetRecipient returns the recipient assigned to a participant.
func (s *GroupService) GetRecipient(ctx context.Context, groupID, participantID string) (*models.Participant, error) {
	return s.store.GetRecipient(ctx, groupID, participantID)
}

// Toss draws a fresh assignment for the group: every participant is given
// exactly one other participant as gift recipient. Any previous
// assignment is overwritten. Returns the group with the new recipients
// populated.
//
// Tosses on the same group serialize; the stored state always corresponds
// to exactly one toss's complete output.
func (s *GroupService) Toss(ctx context.Context, groupID string) (*models.Group, error) {
	start := time.Now()

	lock := s.tossLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	ids, err := s.store.ListParticipantIDs(ctx, groupID)
	if err != nil {
		tossTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}

	assignment, err := toss.Toss(ids)
	if err != nil {
		switch {
		case errors.Is(err, toss.ErrInsufficientParticipants):
			tossTotal.WithLabelValues("conflict").Inc()
			slog.Info("Toss rejected", "group_id", groupID, "participants", len(ids))
		case errors.Is(err, toss.ErrInvariantViolation):
			tossTotal.WithLabelValues("error").Inc()
			slog.Error("Toss produced invalid assignment", "group_id", groupID, "participants", len(ids))
		default:
			tossTotal.WithLabelValues("error").Inc()
			slog.Error("Toss failed", "group_id", groupID, "error", err)
		}
		return nil, err
	}

	if err := s.store.ApplyAssignment(ctx, groupID, assignment); err != nil {
		tossTotal.WithLabelValues("error").Inc()
		slog.Error("Failed to persist assignment", "group_id", groupID, "error", err)
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		tossTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	tossTotal.WithLabelValues("ok").Inc()
	tossDuration.Observe(time.Since(start).Seconds())
	slog.Info("Toss completed",
		"group_id", groupID,
		"participants", len(ids),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return group, nil
}

// tossLock returns the mutex serializing tosses for one group.
func (s *GroupService) tossLock(groupID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.tossLocks[groupID]
	if !ok {
		lock = &sync.Mutex{}
		s.tossLocks[groupID] = lock
	}
	return lock
}
