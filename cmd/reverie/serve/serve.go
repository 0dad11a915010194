// Package servecmder provides the serve command that runs the reverie API
// server with every configured backend wired in.
package servecmder

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reverielabs/reverie/api"
	mcpsrv "github.com/reverielabs/reverie/api/mcp"
	"github.com/reverielabs/reverie/pkg/atlas"
	"github.com/reverielabs/reverie/pkg/chat"
	"github.com/reverielabs/reverie/pkg/config"
	"github.com/reverielabs/reverie/pkg/embeddings"
	embeddingutils "github.com/reverielabs/reverie/pkg/embeddings/utils"
	"github.com/reverielabs/reverie/pkg/logger"
	"github.com/reverielabs/reverie/pkg/memstore"
	memlocal "github.com/reverielabs/reverie/pkg/memstore/local"
	memstoreutils "github.com/reverielabs/reverie/pkg/memstore/utils"
	recordsqlite "github.com/reverielabs/reverie/pkg/records/sqlite"
	"github.com/reverielabs/reverie/pkg/speech/elevenlabs"
	"github.com/reverielabs/reverie/pkg/vector"
	vectorutils "github.com/reverielabs/reverie/pkg/vector/utils"
	"github.com/reverielabs/reverie/pkg/videoai/twelvelabs"
)

const serveLongDesc string = `Run the reverie API server.

The server exposes the embedding geometry pipeline plus the optional chat,
speech, video, and analysis-record surfaces. Optional backends activate
when their API keys are present in the environment:

  OPENAI_API_KEY       chat completions (and openai embeddings)
  ELEVENLABS_API_KEY   text-to-speech narration
  TWELVELABS_API_KEY   video indexing and analysis
  MEM0_API_KEY         hosted long-term memory (memory.provider = "mem0")

Flag values fall back to environment variables (REVERIE_ prefix), then to
config.toml in the .reverie/ directory, then to built-in defaults.`

const serveShortDesc string = "Run the reverie API server"

// serveFlags is the flag registry for the serve command. Names, shorthands,
// and viper keys live here so they cannot drift from the config layer.
var serveFlags = config.FlagSet{
	config.FlagAPIListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "api.listen",
		Description: "Address for the API server to listen on",
	},
	config.FlagSQLite: {
		Name:        "sqlite",
		Shorthand:   "s",
		ViperKey:    "storage.sqlite_path",
		Description: "Path to the analysis-record SQLite database",
	},
	config.FlagVectorStoreProv: {
		Name:        "vector-store-provider",
		ViperKey:    "vector_store.provider",
		Description: "Vector store backend (chroma, sqlitevec, qdrant)",
	},
	config.FlagVectorStoreTgt: {
		Name:        "vector-store-target",
		ViperKey:    "vector_store.target",
		Description: "Vector store URL or path",
	},
	config.FlagVectorStoreColl: {
		Name:        "vector-store-collection",
		ViperKey:    "vector_store.collection",
		Description: "Vector store collection name",
	},
	config.FlagEmbeddingProv: {
		Name:        "embedding-provider",
		ViperKey:    "embedding.provider",
		Description: "Embedding backend (ollama, openai)",
	},
	config.FlagEmbeddingTgt: {
		Name:        "embedding-target",
		ViperKey:    "embedding.target",
		Description: "Embedding provider URL",
	},
	config.FlagEmbeddingModel: {
		Name:        "embedding-model",
		Shorthand:   "m",
		ViperKey:    "embedding.model",
		Description: "Embedding model name",
	},
	config.FlagEmbeddingDims: {
		Name:        "embedding-dimensions",
		ViperKey:    "embedding.dimensions",
		Description: "Embedding vector dimensionality",
	},
	config.FlagMemoryProv: {
		Name:        "memory-provider",
		ViperKey:    "memory.provider",
		Description: "Long-term memory backend (local, mem0)",
	},
	config.FlagChatModel: {
		Name:        "chat-model",
		ViperKey:    "chat.model",
		Description: "Chat completion model name",
	},
	config.FlagSpeechVoice: {
		Name:        "speech-voice",
		ViperKey:    "speech.voice",
		Description: "ElevenLabs voice id",
	},
	config.FlagVideoIndex: {
		Name:        "video-index",
		ViperKey:    "video.index_id",
		Description: "Twelve Labs index id",
	},
}

var serveFlagKeys = []string{
	config.FlagAPIListen,
	config.FlagSQLite,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagVectorStoreColl,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagMemoryProv,
	config.FlagChatModel,
	config.FlagSpeechVoice,
	config.FlagVideoIndex,
}

type ServeCommander struct {
	listen         string
	sqlitePath     string
	vectorProvider string
	vectorTarget   string
	collection     string
	embedProvider  string
	embedTarget    string
	embedModel     string
	embedDims      uint
	memoryProvider string
	chatModel      string
	speechVoice    string
	videoIndex     string

	debug   bool
	logFile string
	viper   *viper.Viper
	logger  *slog.Logger
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, serveFlags, serveFlagKeys)
			cmder.viper = v

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, serveFlags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, serveFlags, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, serveFlags, config.FlagVectorStoreColl, &cmder.collection)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingProv, &cmder.embedProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingModel, &cmder.embedModel)
	config.AddUintFlag(cmd, serveFlags, config.FlagEmbeddingDims, &cmder.embedDims)
	config.AddStringFlag(cmd, serveFlags, config.FlagMemoryProv, &cmder.memoryProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagChatModel, &cmder.chatModel)
	config.AddStringFlag(cmd, serveFlags, config.FlagSpeechVoice, &cmder.speechVoice)
	config.AddStringFlag(cmd, serveFlags, config.FlagVideoIndex, &cmder.videoIndex)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(true),
	)

	if c.logFile != "" {
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		c.logger = logger.Multi(c.logger, logger.New(
			logger.WithDebug(c.debug),
			logger.WithJSON(true),
			logger.WithWriter(f),
		))
	}

	embedder, err := c.newEmbedder()
	if err != nil {
		return err
	}

	store, err := c.newVectorDriver()
	if err != nil {
		return err
	}
	defer store.Close()

	atlasService := atlas.New(embedder, store,
		atlas.WithLogger(c.logger),
		atlas.WithCollectionName(c.viper.GetString("vector_store.collection")),
		atlas.WithModelName(c.viper.GetString("embedding.model")),
	)

	memDriver := c.newMemoryDriver()

	services := api.Services{
		Atlas: atlasService,
		Chat:  c.newChatService(memDriver),
	}

	if synth := c.newSynthesizer(); synth != nil {
		services.Speech = synth
	}
	if provider := c.newVideoProvider(); provider != nil {
		services.Video = provider
	}

	if path := c.viper.GetString("storage.sqlite_path"); path != "" {
		records, err := recordsqlite.New(path)
		if err != nil {
			return fmt.Errorf("opening analysis records: %w", err)
		}
		defer records.Close()
		services.Records = records
		c.logger.Info("analysis records enabled", "path", path)
	}

	mcpServer, err := mcpsrv.NewServer(mcpsrv.Config{
		Atlas:        atlasService,
		MemoryDriver: memDriver,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}
	services.MCP = mcpServer.Handler()

	listen := c.viper.GetString("api.listen")
	server := api.NewServer(api.Config{ListenAddr: listen}, services, c.logger)

	c.logger.Info("starting api server",
		"listen", listen,
		"vector_store", c.viper.GetString("vector_store.provider"),
		"embedding", c.viper.GetString("embedding.provider"),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}

func (c *ServeCommander) newEmbedder() (embeddings.Embedder, error) {
	return embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: c.viper.GetString("embedding.provider"),
		TargetURL:    c.viper.GetString("embedding.target"),
		Model:        c.viper.GetString("embedding.model"),
		APIKey:       os.Getenv("OPENAI_API_KEY"),
	})
}

func (c *ServeCommander) newVectorDriver() (vector.Driver, error) {
	return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType: c.viper.GetString("vector_store.provider"),
		TargetURL:    c.viper.GetString("vector_store.target"),
		APIKey:       os.Getenv("QDRANT_API_KEY"),
		Collection:   c.viper.GetString("vector_store.collection"),
		Dimensions:   c.viper.GetUint("embedding.dimensions"),
		Logger:       c.logger,
	})
}

func (c *ServeCommander) newMemoryDriver() memstore.Driver {
	if !c.viper.GetBool("memory.enabled") {
		return memlocal.NewDriver(memlocal.Config{Enabled: false})
	}

	driver, err := memstoreutils.NewDriver(memstoreutils.NewDriverOpts{
		ProviderType: c.viper.GetString("memory.provider"),
		Enabled:      true,
		Target:       c.viper.GetString("memory.target"),
		APIKey:       os.Getenv("MEM0_API_KEY"),
		Logger:       c.logger,
	})
	if err != nil {
		c.logger.Warn("memory provider unavailable, falling back to local memory", "error", err)
		return memlocal.NewDriver(memlocal.Config{Enabled: true})
	}
	return driver
}

func (c *ServeCommander) newChatService(memDriver memstore.Driver) *chat.Service {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		c.logger.Warn("OPENAI_API_KEY not set, chat disabled")
		return nil
	}

	client := goopenai.NewClient(key)
	return chat.New(client,
		chat.WithLogger(c.logger),
		chat.WithMemory(memDriver),
		chat.WithModel(c.viper.GetString("chat.model")),
		chat.WithPersona(c.viper.GetString("chat.persona")),
	)
}

func (c *ServeCommander) newSynthesizer() *elevenlabs.Synthesizer {
	key := os.Getenv("ELEVENLABS_API_KEY")
	if key == "" {
		c.logger.Warn("ELEVENLABS_API_KEY not set, speech disabled")
		return nil
	}

	synth, err := elevenlabs.NewSynthesizer(elevenlabs.Config{
		APIKey: key,
		Voice:  c.viper.GetString("speech.voice"),
		Model:  c.viper.GetString("speech.model"),
	})
	if err != nil {
		c.logger.Warn("speech disabled", "error", err)
		return nil
	}
	return synth
}

func (c *ServeCommander) newVideoProvider() *twelvelabs.Client {
	key := os.Getenv("TWELVELABS_API_KEY")
	indexID := c.viper.GetString("video.index_id")
	if key == "" || indexID == "" {
		c.logger.Warn("TWELVELABS_API_KEY or video index not set, video disabled")
		return nil
	}

	client, err := twelvelabs.NewClient(twelvelabs.Config{
		APIKey:  key,
		IndexID: indexID,
		BaseURL: c.viper.GetString("video.target"),
	})
	if err != nil {
		c.logger.Warn("video disabled", "error", err)
		return nil
	}
	return client
}
