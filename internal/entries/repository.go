// Package entries owns journal entry persistence. Entry content is
// encrypted at rest; the repository is the only place ciphertext is
// handled, so every caller sees plaintext.
package entries

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BekzhanK1/moodlog-backend/internal/crypto"
	"github.com/BekzhanK1/moodlog-backend/internal/models"
)

// Repository reads and writes journal entries for a single-tenant user
// scope. All queries are filtered by user ID; entries are never visible
// across users.
type Repository struct {
	db        *gorm.DB
	encryptor *crypto.ContentEncryptor
}

// NewRepository creates a Repository.
func NewRepository(db *gorm.DB, encryptor *crypto.ContentEncryptor) *Repository {
	return &Repository{db: db, encryptor: encryptor}
}

// Create encrypts the entry content and persists the entry.
func (r *Repository) Create(ctx context.Context, entry *models.Entry) error {
	ciphertext, err := r.encryptor.Encrypt(entry.Content)
	if err != nil {
		return fmt.Errorf("failed to encrypt entry content: %w", err)
	}
	entry.Content = ciphertext

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}

	// Hand the caller back the plaintext it gave us.
	plaintext, err := r.encryptor.Decrypt(entry.Content)
	if err != nil {
		return fmt.Errorf("failed to decrypt entry content: %w", err)
	}
	entry.Content = plaintext
	return nil
}

// EntriesInRange returns the user's non-draft entries created within
// [start, end], decrypted and ordered by creation time ascending.
func (r *Repository) EntriesInRange(ctx context.Context, userID uint, start, end time.Time) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_draft = false AND created_at >= ? AND created_at <= ?", userID, start, end).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	for i := range entries {
		plaintext, err := r.encryptor.Decrypt(entries[i].Content)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt entry %d: %w", entries[i].ID, err)
		}
		entries[i].Content = plaintext
	}
	return entries, nil
}

// RatedEntriesInRange returns the user's non-draft entries with a mood
// rating in [start, end]. Content is not selected, so no decryption
// happens; this is the fast path for mood aggregation.
func (r *Repository) RatedEntriesInRange(ctx context.Context, userID uint, start, end time.Time) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.WithContext(ctx).
		Select("id", "user_id", "title", "mood_rating", "tags", "created_at").
		Where("user_id = ? AND is_draft = false AND mood_rating IS NOT NULL AND created_at >= ? AND created_at <= ?", userID, start, end).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rated entries: %w", err)
	}
	return entries, nil
}

// Get returns one of the user's entries by ID, decrypted.
func (r *Repository) Get(ctx context.Context, userID, entryID uint) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&entry, entryID).Error
	if err != nil {
		return nil, err
	}

	plaintext, err := r.encryptor.Decrypt(entry.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt entry %d: %w", entry.ID, err)
	}
	entry.Content = plaintext
	return &entry, nil
}

// Delete soft-deletes one of the user's entries.
func (r *Repository) Delete(ctx context.Context, userID, entryID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Entry{}, entryID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
