package generation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/BekzhanK1/moodlog-backend/internal/models"
)

func TestNewPromptBuilder(t *testing.T) {
	b, err := NewPromptBuilder()
	require.NoError(t, err)
	assert.Equal(t, "ru", b.DefaultLocale())
	assert.Equal(t, "русский", b.LanguageName("ru"))
	assert.Equal(t, "English", b.LanguageName("en"))
	assert.Equal(t, "русский", b.LanguageName("xx"), "unknown locale falls back")
}

func TestBuildPrompt(t *testing.T) {
	b, err := NewPromptBuilder()
	require.NoError(t, err)

	mood := 1.5
	processed := time.Date(2025, time.July, 2, 10, 0, 0, 0, time.UTC)
	e := models.Entry{
		UserID:        1,
		Title:         "Прогулка",
		Content:       "Долго гуляли в парке.",
		MoodRating:    &mood,
		Tags:          datatypes.JSON([]byte(`["прогулка","отдых"]`)),
		AIProcessedAt: &processed,
	}
	e.CreatedAt = time.Date(2025, time.July, 2, 9, 0, 0, 0, time.UTC)

	system, prompt := b.Build("ru", "Неделя 27, 2025", []models.Entry{e})

	assert.NotEmpty(t, system)
	assert.Contains(t, prompt, "Неделя 27, 2025")
	assert.Contains(t, prompt, "date: 2025-07-02")
	assert.Contains(t, prompt, "title: Прогулка")
	assert.Contains(t, prompt, "mood: 1.5")
	assert.Contains(t, prompt, "tags: прогулка, отдых")
	assert.Contains(t, prompt, "Долго гуляли в парке.")
}

func TestBuildPromptSkipsMissingFields(t *testing.T) {
	b, err := NewPromptBuilder()
	require.NoError(t, err)

	e := models.Entry{UserID: 1, Content: "просто текст"}
	e.CreatedAt = time.Date(2025, time.July, 3, 9, 0, 0, 0, time.UTC)

	_, prompt := b.Build("ru", "Неделя 27, 2025", []models.Entry{e})
	assert.NotContains(t, prompt, "title:")
	assert.NotContains(t, prompt, "mood:")
	assert.NotContains(t, prompt, "tags:")
	assert.Contains(t, prompt, "просто текст")
}

func TestBuildPromptMalformedTags(t *testing.T) {
	b, err := NewPromptBuilder()
	require.NoError(t, err)

	e := models.Entry{UserID: 1, Content: "текст", Tags: datatypes.JSON([]byte(`{"oops":1}`))}
	e.CreatedAt = time.Now()

	_, prompt := b.Build("ru", "Июнь 2025", []models.Entry{e})
	assert.NotContains(t, prompt, "tags:", "malformed tags are dropped, not fatal")
}

func TestBuildPromptLocaleFallback(t *testing.T) {
	b, err := NewPromptBuilder()
	require.NoError(t, err)

	ruSystem, _ := b.Build("ru", "Июнь 2025", nil)
	fallbackSystem, _ := b.Build("de", "Июнь 2025", nil)
	assert.Equal(t, ruSystem, fallbackSystem)

	enSystem, _ := b.Build("en", "June 2025", nil)
	assert.NotEqual(t, ruSystem, enSystem)
}
