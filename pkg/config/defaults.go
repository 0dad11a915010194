package config

const (
	defaultAPIListen       = ":8080"
	defaultClientAPITarget = "http://localhost:8080"

	defaultVectorProvider   = "chroma"
	defaultVectorTarget     = "http://localhost:8000"
	defaultVectorCollection = "video_keywords"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "all-minilm"
	defaultEmbeddingDimensions = 384

	defaultMemoryProvider = "local"

	defaultChatModel   = "gpt-4o-mini"
	defaultChatPersona = "Talk as if you were speaking in first person about your own memories and experiences."

	defaultSpeechVoice = "21m00Tcm4TlvDq8ikWAM"
	defaultSpeechModel = "eleven_multilingual_v2"

	defaultVideoTarget = "https://api.twelvelabs.io"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Target:     defaultVectorTarget,
			Collection: defaultVectorCollection,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Memory: MemoryConfig{
			Provider: defaultMemoryProvider,
			Enabled:  true,
		},
		Chat: ChatConfig{
			Model:   defaultChatModel,
			Persona: defaultChatPersona,
		},
		Speech: SpeechConfig{
			Voice: defaultSpeechVoice,
			Model: defaultSpeechModel,
		},
		Video: VideoConfig{
			Target: defaultVideoTarget,
		},
	}
}
