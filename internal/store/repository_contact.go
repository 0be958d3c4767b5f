package store

import (
	"context"
	"fmt"

	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

type contactRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewContactRepository creates a SQLite-backed ContactRepository.
func NewContactRepository(db *DB) ContactRepository {
	return &contactRepository{
		db:     db,
		logger: db.logger.GetChildLogger("contactRepository"),
	}
}

func (r *contactRepository) GetAllContacts(ctx context.Context) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, getAllContacts)
	if err != nil {
		r.logger.Err(err).Str("func", "GetAllContacts").Msg("error querying contacts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Tag); err != nil {
			r.logger.Err(err).Str("func", "GetAllContacts").Msg("error scanning contact row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return contacts, nil
}

func (r *contactRepository) SaveContact(ctx context.Context, contact models.Contact) error {
	_, err := r.db.ExecContext(ctx, saveContact, contact.ID, contact.Name, contact.Tag)
	if err != nil {
		r.logger.Err(err).Str("func", "SaveContact").Str("contactID", contact.ID).Msg("error saving contact")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
