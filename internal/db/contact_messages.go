package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/portfolio-site/internal/types"
)

const contactMessageColumns = `id, name, email, COALESCE(phone, ''), message, status, detail, created_at`

// RecordContactMessage stores one submission together with its relay outcome
func (db *DB) RecordContactMessage(ctx context.Context, draft types.ContactDraft, status, detail string) error {
	if !IsValidStatus(status) {
		return fmt.Errorf("invalid contact message status: %s", status)
	}

	var phone *string
	if draft.Phone != "" {
		phone = &draft.Phone
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO contact_messages (id, name, email, phone, message, status, detail)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), draft.Name, draft.Email, phone, draft.Message, status, detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record contact message: %w", err)
	}
	return nil
}

// GetContactMessage retrieves a contact message by ID. Returns nil when not found.
func (db *DB) GetContactMessage(ctx context.Context, id uuid.UUID) (*ContactMessage, error) {
	var m ContactMessage
	err := db.pool.QueryRow(ctx,
		`SELECT `+contactMessageColumns+` FROM contact_messages WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Status, &m.Detail, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}
	return &m, nil
}

// ListContactMessages retrieves contact messages, newest first, with optional filters
func (db *DB) ListContactMessages(ctx context.Context, filters ContactMessageFilters) ([]ContactMessage, error) {
	filters = filters.normalize()

	query := `SELECT ` + contactMessageColumns + ` FROM contact_messages WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}
	if filters.Email != "" {
		query += fmt.Sprintf(" AND email ILIKE $%d", argNum)
		args = append(args, filters.Email)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	messages := []ContactMessage{}
	for rows.Next() {
		var m ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Status, &m.Detail, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return messages, nil
}

// CountContactMessagesByStatus returns the number of stored messages per status
func (db *DB) CountContactMessagesByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := db.pool.Query(ctx, `SELECT status, COUNT(*) FROM contact_messages GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count contact messages: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int, len(ValidStatuses))
	for _, s := range ValidStatuses {
		counts[s] = 0
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// DeleteContactMessage removes a contact message
func (db *DB) DeleteContactMessage(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact message: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("contact message not found: %s", id)
	}
	return nil
}
