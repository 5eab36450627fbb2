// Package toss implements the gift-assignment engine: given the
// participants of a group, it produces a derangement of them — a mapping
// where every participant gives to exactly one other participant, every
// participant receives exactly once, and nobody is assigned to themself.
package toss

import (
	"errors"
	"math/rand"
)

// MinParticipants is the smallest group a toss accepts. With two
// participants the only derangement is the forced mutual swap, and with
// fewer none exists, so anything below three is rejected outright.
const MinParticipants = 3

// maxAttempts bounds the rejection-sampling loop. A uniform permutation
// is a derangement with probability ~1/e, so the loop normally exits
// within a handful of attempts; the bound only matters under a badly
// biased randomness source.
const maxAttempts = 100

var (
	// ErrInsufficientParticipants is returned when fewer than
	// MinParticipants IDs are supplied.
	ErrInsufficientParticipants = errors.New("toss requires at least 3 participants")

	// ErrInvariantViolation is returned when a produced assignment fails
	// self-verification. It indicates a bug in this package, never a
	// caller error.
	ErrInvariantViolation = errors.New("toss produced an invalid assignment")
)

// Toss computes a random derangement of the given participant IDs and
// returns it as a giver-to-recipient mapping. The input IDs must be
// distinct; the result maps every ID to a different ID, with every ID
// appearing exactly once as a recipient.
//
// Toss is pure: it never touches storage, and repeated calls on the same
// input are independent draws.
func Toss(ids []string) (map[string]string, error) {
	if len(ids) < MinParticipants {
		return nil, ErrInsufficientParticipants
	}

	recipients := make([]string, len(ids))
	copy(recipients, ids)

	// Rejection sampling: shuffle until no participant lands on itself.
	// Accepted permutations are uniform over all derangements.
	for attempt := 0; attempt < maxAttempts; attempt++ {
		rand.Shuffle(len(recipients), func(i, j int) {
			recipients[i], recipients[j] = recipients[j], recipients[i]
		})
		if isDerangement(ids, recipients) {
			return buildAssignment(ids, recipients)
		}
	}

	// Attempt budget exhausted. Rotating the last shuffled order by one
	// position maps each ID to the next, which cannot produce a fixed
	// point for distinct IDs, so termination is guaranteed even under a
	// degenerate randomness source.
	assignment := make(map[string]string, len(recipients))
	for i, giver := range recipients {
		assignment[giver] = recipients[(i+1)%len(recipients)]
	}
	if err := verify(ids, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// isDerangement reports whether no position maps an ID to itself.
func isDerangement(ids, recipients []string) bool {
	for i := range ids {
		if ids[i] == recipients[i] {
			return false
		}
	}
	return true
}

// buildAssignment zips givers and recipients into a map and verifies it.
func buildAssignment(ids, recipients []string) (map[string]string, error) {
	assignment := make(map[string]string, len(ids))
	for i, giver := range ids {
		assignment[giver] = recipients[i]
	}
	if err := verify(ids, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// verify checks that assignment is a fixed-point-free bijection over ids:
// every ID appears exactly once as a giver and exactly once as a
// recipient, and no ID maps to itself.
func verify(ids []string, assignment map[string]string) error {
	if len(assignment) != len(ids) {
		return ErrInvariantViolation
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		recipient, ok := assignment[id]
		if !ok || recipient == id || seen[recipient] {
			return ErrInvariantViolation
		}
		seen[recipient] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return ErrInvariantViolation
		}
	}
	return nil
}
