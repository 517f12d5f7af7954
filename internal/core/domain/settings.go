package domain

// AIProvider identifies a model provider.
type AIProvider string

// Supported providers.
const (
	AIProviderGemini AIProvider = "gemini"
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// EmbeddingDimensions returns the known vector sizes per embedding
// model. Models absent from the map use the configured fallback.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-004":     768,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// APIKey is the provider API key. Usually supplied via environment
	// variable rather than the config file.
	APIKey string `toml:"api_key,omitempty"`

	// Dimensions overrides the model's default vector size.
	Dimensions int `toml:"dimensions,omitempty"`
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.IsValid() && e.APIKey != ""
}

// VectorDimensions resolves the effective embedding dimensionality.
func (e EmbeddingSettings) VectorDimensions() int {
	if e.Dimensions > 0 {
		return e.Dimensions
	}
	if d := EmbeddingDimensions()[e.Model]; d > 0 {
		return d
	}
	return 768
}

// TextSettings holds text generation provider configuration.
type TextSettings struct {
	// Provider is the text model provider.
	Provider AIProvider `toml:"provider"`

	// Model is the text model name.
	Model string `toml:"model"`

	// APIKey is the provider API key.
	APIKey string `toml:"api_key,omitempty"`
}

// IsConfigured returns true if the text provider is set up.
func (t TextSettings) IsConfigured() bool {
	return t.Provider.IsValid() && t.APIKey != ""
}

// ImageSettings holds image generation provider configuration.
type ImageSettings struct {
	// Provider is the image model provider. Only Gemini renders
	// images.
	Provider AIProvider `toml:"provider"`

	// Model is the image model name.
	Model string `toml:"model"`

	// APIKey is the provider API key.
	APIKey string `toml:"api_key,omitempty"`
}

// IsConfigured returns true if the image provider is set up.
func (i ImageSettings) IsConfigured() bool {
	return i.Provider.IsValid() && i.APIKey != ""
}

// RetrievalSettings tunes the retrieval pipeline.
type RetrievalSettings struct {
	// TopK is the nearest-neighbour fetch size.
	TopK int `toml:"top_k"`

	// MinRelevance is the similarity floor for grounding passages.
	MinRelevance float64 `toml:"min_relevance"`

	// PassageBudget bounds total passage characters per prompt.
	PassageBudget int `toml:"passage_budget"`
}

// ChunkingSettings tunes document splitting.
type ChunkingSettings struct {
	// Size is the chunk window in characters.
	Size int `toml:"size"`

	// Overlap is how many characters consecutive chunks share.
	Overlap int `toml:"overlap"`
}

// LimitSettings bounds provider usage.
type LimitSettings struct {
	// MaxConcurrent caps in-flight provider calls process-wide.
	MaxConcurrent int `toml:"max_concurrent"`

	// QueueTimeoutSeconds is how long a request may wait for a slot.
	QueueTimeoutSeconds int `toml:"queue_timeout_seconds"`

	// HistoryWindow is how many conversation turns go into a prompt.
	HistoryWindow int `toml:"history_window"`

	// ContextBudget bounds the assembled prompt in characters.
	ContextBudget int `toml:"context_budget"`
}

// AppSettings is the full application configuration.
type AppSettings struct {
	// DataDir is where the metadata database, vector index and prompt
	// overrides live. Empty means ~/.studybuddy.
	DataDir string `toml:"data_dir,omitempty"`

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings `toml:"embedding"`

	// Text holds text generation provider settings.
	Text TextSettings `toml:"text"`

	// Image holds image generation provider settings.
	Image ImageSettings `toml:"image"`

	// Retrieval holds retrieval settings.
	Retrieval RetrievalSettings `toml:"retrieval"`

	// Chunking holds chunking settings.
	Chunking ChunkingSettings `toml:"chunking"`

	// Limits holds provider usage limits.
	Limits LimitSettings `toml:"limits"`
}

// DefaultAppSettings returns settings with sensible defaults.
// Provider API keys are left unconfigured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderGemini,
			Model:    "text-embedding-004",
		},
		Text: TextSettings{
			Provider: AIProviderGemini,
			Model:    "gemini-2.5-flash",
		},
		Image: ImageSettings{
			Provider: AIProviderGemini,
			Model:    "gemini-2.0-flash-preview-image-generation",
		},
		Retrieval: RetrievalSettings{
			TopK:          5,
			MinRelevance:  0.30,
			PassageBudget: 6000,
		},
		Chunking: ChunkingSettings{
			Size:    1000,
			Overlap: 200,
		},
		Limits: LimitSettings{
			MaxConcurrent:       4,
			QueueTimeoutSeconds: 30,
			HistoryWindow:       6,
			ContextBudget:       12000,
		},
	}
}
