package models

// Group represents a gift-exchange group.
// A group exclusively owns its participants: deleting the group deletes
// them, and recipient links never cross group boundaries.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Office 2026", "Family").
	Name string

	// Description is an optional free-text description.
	Description string

	// Participants is the group's member list in insertion order.
	// Populated by GetGroup; left nil by ListGroups.
	Participants []Participant

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
