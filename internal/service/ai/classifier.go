package ai

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/film-robo-go/internal/constants"
	"github.com/kapu/film-robo-go/internal/domain"
	"github.com/kapu/film-robo-go/internal/prompt"
	"github.com/kapu/film-robo-go/internal/util"
	"github.com/kapu/film-robo-go/pkg/errors"
)

// TextGenerator is the part of ModelManager the classifier depends on.
type TextGenerator interface {
	Generate(ctx context.Context, req TextRequest) (*GenerateResult, error)
}

// GenreClassifier asks a language model to map a free-text movie wish onto
// catalog genre ids.
type GenreClassifier struct {
	generator     TextGenerator
	promptBuilder *prompt.PromptBuilder
	template      prompt.TemplateName
	logger        *zap.Logger
}

func NewGenreClassifier(generator TextGenerator, promptBuilder *prompt.PromptBuilder, logger *zap.Logger) *GenreClassifier {
	if promptBuilder == nil {
		promptBuilder = prompt.NewPromptBuilder()
	}
	return &GenreClassifier{
		generator:     generator,
		promptBuilder: promptBuilder,
		template:      prompt.TemplateGenreClassifier,
		logger:        logger,
	}
}

// Classify returns the genre ids named by the model. An answer without any
// usable id is an empty set, not an error.
func (c *GenreClassifier) Classify(ctx context.Context, query string) (domain.GenreIDSet, error) {
	if c.generator == nil {
		return nil, errors.NewClassificationError("AI provider not configured", "none", errors.ReasonMissingCredentials, nil)
	}

	sanitized := util.SanitizeInput(query, constants.AIInputLimits.MaxQueryLength)

	req := TextRequest{
		System:    c.buildSystemPrompt(),
		User:      prompt.GenreClassifierUserMessage(prompt.GenreClassifierUserData{UserQuery: sanitized}),
		Preset:    PresetPrecise,
		Overrides: &ModelConfig{MaxOutputTokens: constants.ClassifierConfig.MaxOutputTokens},
		SessionID: "film-robo-" + uuid.NewString(),
	}

	result, err := c.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	ids := ParseGenreIDs(result.Text)

	c.logger.Info("AI genre classification",
		zap.String("session_id", req.SessionID),
		zap.String("provider", result.Metadata.Provider),
		zap.String("model", result.Metadata.Model),
		zap.String("reply", util.TruncateString(result.Text, 80)),
		zap.Ints("genre_ids", ids.Ints()),
	)

	for _, id := range ids {
		if !domain.IsKnownGenreID(id) {
			c.logger.Debug("Classifier returned id outside the catalog", zap.Int("genre_id", id))
		}
	}

	return ids, nil
}

func (c *GenreClassifier) buildSystemPrompt() string {
	data := NewGenreClassifierData(domain.GenreCatalog())

	text, err := c.promptBuilder.Render(c.template, data)
	if err != nil {
		tplErr := errors.NewClassificationError("genre classifier template unavailable", "prompt", errors.ReasonTemplate, err)
		c.logger.Error("Failed to render genre classifier template, using fallback",
			zap.String("reason", tplErr.Reason),
			zap.Error(tplErr),
		)
		return prompt.FallbackGenreClassifierPrompt(data)
	}
	return text
}

// NewGenreClassifierData converts the catalog into template data.
func NewGenreClassifierData(catalog []domain.GenreDefinition) prompt.GenreClassifierData {
	data := prompt.GenreClassifierData{
		Categories: make([]prompt.GenreCategoryData, 0, len(catalog)),
	}

	for _, def := range catalog {
		ids := make([]string, len(def.GenreIDs))
		for i, id := range def.GenreIDs {
			ids[i] = strconv.Itoa(id)
		}
		data.Categories = append(data.Categories, prompt.GenreCategoryData{
			Name:        def.Category.String(),
			Description: def.Description,
			IDList:      strings.Join(ids, ", "),
		})
	}

	// "lustiger Weltraumfilm" -> first comedy id plus first sci-fi id
	var example []string
	for _, category := range []domain.GenreCategory{domain.GenreComedy, domain.GenreSciFiFantasy} {
		if def, ok := domain.LookupGenre(category); ok && len(def.GenreIDs) > 0 {
			example = append(example, strconv.Itoa(def.GenreIDs[0]))
		}
	}
	data.ExampleAnswer = strings.Join(example, ",")

	return data
}

// ParseGenreIDs splits a comma-separated reply, dropping tokens that are not integers.
func ParseGenreIDs(text string) domain.GenreIDSet {
	parts := strings.Split(text, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return domain.NewGenreIDSet(ids...)
}
