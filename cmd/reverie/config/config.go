// Package configcmder provides the config command for managing persistent
// reverie configuration stored in the .reverie/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent reverie configuration.

Configuration is stored as config.toml in the .reverie/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  api.listen, storage.sqlite_path, client.api_target,
  vector_store.provider, vector_store.target, vector_store.collection,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  memory.provider, memory.target, memory.enabled,
  chat.model, chat.persona,
  speech.voice, speech.model,
  video.index_id, video.target

Use subcommands to get, set, or list configuration values:
  reverie config set <key> <value>    Set a configuration value
  reverie config get <key>            Get a configuration value
  reverie config list                 List all configuration values

Examples:
  reverie config set vector_store.provider chroma
  reverie config set embedding.model nomic-embed-text
  reverie config get embedding.model
  reverie config list`

const configShortDesc string = "Manage persistent reverie configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
