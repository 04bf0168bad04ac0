package ai

// ModelPreset represents the model usage preset
type ModelPreset string

// PresetPrecise gives deterministic, short replies for classification.
const PresetPrecise ModelPreset = "precise"

// ModelConfig holds sampling parameters shared by all providers.
type ModelConfig struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int
}

// TextRequest is a single-turn completion: a system instruction plus one user message.
type TextRequest struct {
	System    string
	User      string
	Preset    ModelPreset
	Overrides *ModelConfig
	// SessionID correlates provider logs for one request.
	SessionID string
}

// GenerateMetadata contains metadata about the generation
type GenerateMetadata struct {
	Provider string
	Model    string
}

type GenerateResult struct {
	Text     string
	Metadata GenerateMetadata
}

// GetPresetConfig returns the sampling configuration for a preset. Classification
// is the only use, so every preset maps to the precise configuration.
func GetPresetConfig(_ ModelPreset) ModelConfig {
	return ModelConfig{
		Temperature:     0,
		TopP:            1,
		MaxOutputTokens: 64,
	}
}

func resolveModelConfig(req TextRequest) ModelConfig {
	config := GetPresetConfig(req.Preset)
	if req.Overrides == nil {
		return config
	}
	if req.Overrides.Temperature > 0 {
		config.Temperature = req.Overrides.Temperature
	}
	if req.Overrides.TopP > 0 {
		config.TopP = req.Overrides.TopP
	}
	if req.Overrides.MaxOutputTokens > 0 {
		config.MaxOutputTokens = req.Overrides.MaxOutputTokens
	}
	return config
}
