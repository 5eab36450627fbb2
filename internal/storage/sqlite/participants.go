package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/santaswap/internal/models"
	"github.com/mmynk/santaswap/internal/storage"
)

// AddParticipant inserts a participant into its group with no recipient.
func (s *SQLiteStore) AddParticipant(ctx context.Context, participant *models.Participant) error {
	if err := s.groupExists(ctx, participant.GroupID); err != nil {
		return err
	}

	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	if participant.CreatedAt == 0 {
		participant.CreatedAt = time.Now().Unix()
	}
	participant.RecipientID = ""

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (id, group_id, name, wish, recipient_id, created_at) VALUES (?, ?, ?, ?, NULL, ?)",
		participant.ID, participant.GroupID, participant.Name, participant.Wish, participant.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	return nil
}

// DeleteParticipant removes a participant from a group. Recipient links
// pointing at the deleted participant are nulled by the schema's
// ON DELETE SET NULL.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, groupID, participantID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM participants WHERE id = ? AND group_id = ?",
		participantID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("participant %s in group %s: %w", participantID, groupID, storage.ErrNotFound)
	}

	return nil
}

// ListParticipantIDs returns a group's participant IDs in insertion order.
func (s *SQLiteStore) ListParticipantIDs(ctx context.Context, groupID string) ([]string, error) {
	if err := s.groupExists(ctx, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM participants WHERE group_id = ? ORDER BY rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participant ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan participant id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participant ids: %w", err)
	}

	return ids, nil
}

// ApplyAssignment writes a full giver-to-recipient mapping for one group
// in a single transaction. A reader either sees the previous assignment
// for every participant or the new one for every participant, never a mix.
func (s *SQLiteStore) ApplyAssignment(ctx context.Context, groupID string, assignment map[string]string) error {
	if err := s.groupExists(ctx, groupID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for giverID, recipientID := range assignment {
		result, err := tx.ExecContext(ctx,
			"UPDATE participants SET recipient_id = ? WHERE id = ? AND group_id = ?",
			recipientID, giverID, groupID,
		)
		if err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check recipient update: %w", err)
		}
		// A giver vanished between the toss and the write; roll the whole
		// assignment back rather than persist a partial one.
		if affected == 0 {
			return fmt.Errorf("participant %s in group %s: %w", giverID, groupID, storage.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignment: %w", err)
	}

	return nil
}

// GetRecipient returns the participant assigned to the given participant.
func (s *SQLiteStore) GetRecipient(ctx context.Context, groupID, participantID string) (*models.Participant, error) {
	var recipientID sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT recipient_id FROM participants WHERE id = ? AND group_id = ?",
		participantID, groupID,
	).Scan(&recipientID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("participant %s in group %s: %w", participantID, groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if !recipientID.Valid {
		return nil, fmt.Errorf("participant %s: %w", participantID, storage.ErrNoRecipient)
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, name, wish, recipient_id, created_at FROM participants WHERE id = ?",
		recipientID.String,
	)
	recipient, err := scanParticipant(row)
	if err == sql.ErrNoRows {
		// The recipient link is nulled when its target is deleted, so a
		// dangling reference here means the store is corrupted.
		return nil, fmt.Errorf("recipient %s: %w", recipientID.String, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}

	return recipient, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanParticipant reads one participant row, mapping a NULL recipient to
// the empty string.
func scanParticipant(row scanner) (*models.Participant, error) {
	participant := &models.Participant{}
	var recipientID sql.NullString
	err := row.Scan(
		&participant.ID,
		&participant.GroupID,
		&participant.Name,
		&participant.Wish,
		&recipientID,
		&participant.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if recipientID.Valid {
		participant.RecipientID = recipientID.String
	}
	return participant, nil
}
