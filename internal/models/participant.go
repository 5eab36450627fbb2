package models

// Participant represents one member of a gift-exchange group.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// GroupID is the group this participant belongs to. Participants are
	// never moved between groups.
	GroupID string

	// Name is the participant's display name.
	Name string

	// Wish is the participant's optional gift wish.
	Wish string

	// RecipientID references another participant in the same group, or is
	// empty if no toss has assigned one yet. It is a weak reference: the
	// store clears it when the referenced participant is deleted.
	RecipientID string

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64
}
