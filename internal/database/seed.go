package database

import (
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BekzhanK1/moodlog-backend/internal/crypto"
	"github.com/BekzhanK1/moodlog-backend/internal/models"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists. Entry content goes through the
// same encryptor the app uses, so the read path works against seeded rows.
func SeedDevData(db *gorm.DB, encryptor *crypto.ContentEncryptor, logger *slog.Logger) error {
	var existingUser models.User
	result := db.Where("email = ?", "dev@moodlog.local").First(&existingUser)
	if result.Error == nil {
		logger.Info("Seed data already exists, skipping")
		return nil
	}

	user := models.User{
		Email:    "dev@moodlog.local",
		Name:     "Dev User",
		Timezone: "Europe/Moscow",
		Locale:   "ru",
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	rating := func(v float64) *float64 { return &v }
	now := time.Now().UTC()

	samples := []struct {
		daysAgo int
		title   string
		content string
		mood    *float64
		tags    string
	}{
		{6, "Тяжелый понедельник", "Весь день ушёл на разбор завалов после выходных, к вечеру совсем без сил.", rating(-1.0), `["работа","усталость"]`},
		{4, "Обычный день", "Ничего особенного, немного почитал вечером.", rating(0.5), `["чтение"]`},
		{2, "Прогулка", "Долго гуляли в парке, давно не чувствовал себя так спокойно.", rating(1.5), `["прогулка","отдых"]`},
		{1, "Черновик", "Надо дописать мысль про отпуск...", nil, ""},
	}

	for _, s := range samples {
		ciphertext, err := encryptor.Encrypt(s.content)
		if err != nil {
			return err
		}
		entry := models.Entry{
			UserID:  user.ID,
			Title:   s.title,
			Content: ciphertext,
			IsDraft: s.mood == nil && s.tags == "",
		}
		if s.mood != nil {
			processed := now.AddDate(0, 0, -s.daysAgo)
			entry.MoodRating = s.mood
			entry.AIProcessedAt = &processed
			entry.Tags = datatypes.JSON([]byte(s.tags))
		}
		if err := db.Create(&entry).Error; err != nil {
			return err
		}
		// Backdate so the entries land inside the current week/month windows.
		db.Model(&entry).Update("created_at", now.AddDate(0, 0, -s.daysAgo))
	}

	logger.Info("Seeded dev data", "users", 1, "entries", len(samples))
	return nil
}
