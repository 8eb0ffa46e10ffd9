package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"

	"github.com/BekzhanK1/moodlog-backend/internal/generation"
	"github.com/BekzhanK1/moodlog-backend/internal/models"
	"github.com/BekzhanK1/moodlog-backend/internal/period"
)

// EntrySource provides the journal entries feeding a generation run.
// Implementations must return non-draft entries with decrypted content,
// created within [start, end] inclusive.
type EntrySource interface {
	EntriesInRange(ctx context.Context, userID uint, start, end time.Time) ([]models.Entry, error)
}

// TextGenerator is the external generation collaborator.
type TextGenerator interface {
	Generate(ctx context.Context, req generation.GenerateRequest) (generation.Result, error)
}

// Generator orchestrates insight generation: eligibility gate, idempotent
// short-circuit, entry gathering, the generation call and the atomic
// persist. Duplicate concurrent requests for the same key are collapsed
// onto one in-flight generation; the store's unique index guarantees a
// single persisted row regardless.
type Generator struct {
	store   Store
	entries EntrySource
	gen     TextGenerator
	prompts *generation.PromptBuilder
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
	flight  singleflight.Group
}

// GeneratorOption customizes a Generator.
type GeneratorOption func(*Generator)

// WithClock overrides the time source. Used by the scheduler sweep and in
// tests; production code keeps the default.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// WithTimeout overrides the per-call generation timeout.
func WithTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) { g.timeout = d }
}

// NewGenerator wires a Generator with its collaborators.
func NewGenerator(store Store, entries EntrySource, gen TextGenerator, prompts *generation.PromptBuilder, logger *slog.Logger, opts ...GeneratorOption) *Generator {
	g := &Generator{
		store:   store,
		entries: entries,
		gen:     gen,
		prompts: prompts,
		logger:  logger,
		timeout: 60 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Get returns the persisted insight for the key, or nil when none exists.
// Reads bypass the eligibility gate.
func (g *Generator) Get(ctx context.Context, userID uint, insightType, periodKey string) (*models.Insight, error) {
	if _, err := parsePeriod(insightType, periodKey); err != nil {
		return nil, err
	}
	return g.store.GetIfExists(ctx, userID, insightType, periodKey)
}

// List pages through the user's insights, newest first.
func (g *Generator) List(ctx context.Context, userID uint, insightType string, page, perPage int) ([]models.Insight, int64, error) {
	return g.store.List(ctx, userID, insightType, page, perPage)
}

// Generate produces the insight for (user, type, period key), or returns
// the existing one. Generation happens at most once per key: a persisted
// insight short-circuits before any collaborator call, concurrent
// duplicates share one flight, and the store insert is create-if-absent.
func (g *Generator) Generate(ctx context.Context, user models.User, insightType, periodKey string) (*models.Insight, error) {
	p, err := parsePeriod(insightType, periodKey)
	if err != nil {
		return nil, err
	}

	if err := CheckEligibility(g.now(), p).IneligibleError(); err != nil {
		return nil, err
	}

	if existing, err := g.store.GetIfExists(ctx, user.ID, insightType, p.Key); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	flightKey := fmt.Sprintf("%d/%s/%s", user.ID, insightType, p.Key)
	v, err, _ := g.flight.Do(flightKey, func() (interface{}, error) {
		return g.generate(ctx, user, p)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Insight), nil
}

func (g *Generator) generate(ctx context.Context, user models.User, p period.Period) (*models.Insight, error) {
	// A racing request may have finished while we waited for the flight.
	if existing, err := g.store.GetIfExists(ctx, user.ID, string(p.Type), p.Key); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	// End of the period is inclusive through the last day.
	rangeEnd := p.End.AddDate(0, 0, 1).Add(-time.Nanosecond)
	entries, err := g.entries.EntriesInRange(ctx, user.ID, p.Start, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrInsufficientData
	}

	locale := user.Locale
	if locale == "" {
		locale = g.prompts.DefaultLocale()
	}
	label := p.Label(locale)
	system, prompt := g.prompts.Build(locale, label, entries)

	genCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.gen.Generate(genCtx, generation.GenerateRequest{
		System:   system,
		Prompt:   prompt,
		Language: g.prompts.LanguageName(locale),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrGenerationTimeout, g.timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerationUpstream, err)
	}

	periodInfo := generation.PeriodInfo{Type: string(p.Type), Label: label, Key: p.Key}

	var structured generation.StructuredInsight
	if result.IsFallback() {
		g.logger.Warn("Generation response failed validation, storing plain-text fallback",
			"user_id", user.ID, "period_key", p.Key)
		structured = generation.NewFallbackInsight(periodInfo, locale, result.Raw)
	} else {
		structured = *result.Parsed
		structured.Period = periodInfo
		if structured.Language == "" {
			structured.Language = locale
		}
	}

	content, err := json.Marshal(structured)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal insight content: %w", err)
	}

	insight := &models.Insight{
		UserID:      user.ID,
		Type:        string(p.Type),
		PeriodKey:   p.Key,
		PeriodLabel: label,
		Content:     datatypes.JSON(content),
	}

	persisted, err := g.store.CreateIfAbsent(ctx, insight)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Insight generated",
		"user_id", user.ID,
		"type", p.Type,
		"period_key", p.Key,
		"entries", len(entries),
		"fallback", result.IsFallback(),
	)

	return persisted, nil
}

// parsePeriod resolves and validates a period key. Keys naming a period
// that does not exist (week 53 of a 52-week year) surface as insufficient
// data: there is nothing to aggregate for them.
func parsePeriod(insightType, periodKey string) (period.Period, error) {
	t, err := period.ParseType(insightType)
	if err != nil {
		return period.Period{}, err
	}
	p, err := period.Parse(t, periodKey)
	if err != nil {
		if errors.Is(err, period.ErrNoSuchPeriod) {
			return period.Period{}, ErrInsufficientData
		}
		return period.Period{}, err
	}
	return p, nil
}
