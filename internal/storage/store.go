// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/santaswap/internal/models"
)

var (
	// ErrNotFound is returned when a referenced group or participant does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoRecipient is returned by GetRecipient when the participant
	// exists but no toss has assigned them a recipient yet.
	ErrNoRecipient = errors.New("participant has no recipient yet")
)

// Store defines the interface for group and participant storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateGroup persists a new group. The group's ID and CreatedAt
	// fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, including its participants in
	// insertion order. Returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups without their participants.
	ListGroups(ctx context.Context) ([]models.Group, error)

	// UpdateGroup updates a group's name and description.
	// Returns ErrNotFound if the group does not exist.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and, by cascade, all its participants.
	// Returns ErrNotFound if the group does not exist.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddParticipant adds a participant to the group named by
	// participant.GroupID, with no recipient. The participant's ID and
	// CreatedAt fields are populated by the store. Returns ErrNotFound if
	// the group does not exist.
	AddParticipant(ctx context.Context, participant *models.Participant) error

	// DeleteParticipant removes a participant from a group and clears any
	// recipient references pointing at them. Returns ErrNotFound if the
	// group or participant does not exist.
	DeleteParticipant(ctx context.Context, groupID, participantID string) error

	// ListParticipantIDs returns the IDs of a group's participants in
	// insertion order. Returns ErrNotFound if the group does not exist.
	ListParticipantIDs(ctx context.Context, groupID string) ([]string, error)

	// ApplyAssignment sets each participant's recipient according to the
	// giver-to-recipient mapping, in a single transaction: either every
	// participant's recipient updates or none do.
	ApplyAssignment(ctx context.Context, groupID string, assignment map[string]string) error

	// GetRecipient returns the participant assigned as the given
	// participant's recipient. Returns ErrNotFound if the group or
	// participant does not exist, ErrNoRecipient if no toss has run.
	GetRecipient(ctx context.Context, groupID, participantID string) (*models.Participant, error)

	// Close releases any resources held by the store.
	Close() error
}
