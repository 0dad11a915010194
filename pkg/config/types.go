package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent reverie configuration stored as
// config.toml in the .reverie/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	API         APIConfig         `toml:"api"`
	Client      ClientConfig      `toml:"client"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Memory      MemoryConfig      `toml:"memory"`
	Chat        ChatConfig        `toml:"chat"`
	Speech      SpeechConfig      `toml:"speech"`
	Video       VideoConfig       `toml:"video"`
}

// StorageConfig holds the analysis-record database settings.
type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to the running
// API server. Values are full URLs (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// MemoryConfig holds long-term memory layer settings.
type MemoryConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Enabled  bool   `toml:"enabled,omitempty"`
}

// ChatConfig holds LLM conversation settings.
type ChatConfig struct {
	Model   string `toml:"model,omitempty"`
	Persona string `toml:"persona,omitempty"`
}

// SpeechConfig holds text-to-speech settings.
type SpeechConfig struct {
	Voice string `toml:"voice,omitempty"`
	Model string `toml:"model,omitempty"`
}

// VideoConfig holds video understanding provider settings.
type VideoConfig struct {
	IndexID string `toml:"index_id,omitempty"`
	Target  string `toml:"target,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.target": {
		get: func(c *Config) string { return c.VectorStore.Target },
		set: func(c *Config, v string) error { c.VectorStore.Target = v; return nil },
	},
	"vector_store.collection": {
		get: func(c *Config) string { return c.VectorStore.Collection },
		set: func(c *Config, v string) error { c.VectorStore.Collection = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
	"memory.provider": {
		get: func(c *Config) string { return c.Memory.Provider },
		set: func(c *Config, v string) error { c.Memory.Provider = v; return nil },
	},
	"memory.target": {
		get: func(c *Config) string { return c.Memory.Target },
		set: func(c *Config, v string) error { c.Memory.Target = v; return nil },
	},
	"memory.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.Memory.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for memory.enabled: %w", err)
			}
			c.Memory.Enabled = b
			return nil
		},
	},
	"chat.model": {
		get: func(c *Config) string { return c.Chat.Model },
		set: func(c *Config, v string) error { c.Chat.Model = v; return nil },
	},
	"chat.persona": {
		get: func(c *Config) string { return c.Chat.Persona },
		set: func(c *Config, v string) error { c.Chat.Persona = v; return nil },
	},
	"speech.voice": {
		get: func(c *Config) string { return c.Speech.Voice },
		set: func(c *Config, v string) error { c.Speech.Voice = v; return nil },
	},
	"speech.model": {
		get: func(c *Config) string { return c.Speech.Model },
		set: func(c *Config, v string) error { c.Speech.Model = v; return nil },
	},
	"video.index_id": {
		get: func(c *Config) string { return c.Video.IndexID },
		set: func(c *Config, v string) error { c.Video.IndexID = v; return nil },
	},
	"video.target": {
		get: func(c *Config) string { return c.Video.Target },
		set: func(c *Config, v string) error { c.Video.Target = v; return nil },
	},
}
