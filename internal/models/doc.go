// Package models defines the core domain models for Santaswap.
//
// # Models
//
//   - Group: A gift-exchange group owning a set of participants
//   - Participant: A member of one group, optionally holding a wish and,
//     after a toss, a recipient reference
//
// # Design Principles
//
// 1. **Avoid circular references**: recipients are ID strings resolved
// through the group's participant collection, never pointers between
// participant values
// 2. **Store-owned identity**: IDs and timestamps are generated by the
// storage layer on insert, not by callers
// 3. **Weak recipient links**: a recipient reference never outlives the
// participant it points to; the store clears dangling references on delete
package models
