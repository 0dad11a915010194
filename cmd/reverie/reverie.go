// Package reveriecmder
package reveriecmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/reverielabs/reverie/cmd/reverie/config"
	servecmder "github.com/reverielabs/reverie/cmd/reverie/serve"
	versioncmder "github.com/reverielabs/reverie/cmd/version"
)

const reverieLongDesc string = `Reverie turns indexed videos into a navigable memory space.

Run services using:
  reverie serve        Run the API server
  reverie config       Manage persistent configuration`

const reverieShortDesc string = "Reverie - Video Memory Atlas"

func NewReverieCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reverie",
		Short: reverieShortDesc,
		Long:  reverieLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .reverie/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
