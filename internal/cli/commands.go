// filepath: internal/cli/commands.go
package cli

import (
	"fmt"
	"lanupload/internal/config"
	"os"

	"github.com/spf13/cobra"
)

// initConfigCmd writes a config file holding every default value.
var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	// The file to be written must not be required to exist or be valid.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(cfgFile); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
		}
		if err := config.SaveConfig(cfgFile, config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Default configuration written to %s\n", cfgFile)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lanupload %s\n", Version)
	},
}

func init() {
	initConfigCmd.Flags().Bool("force", false, "Overwrite an existing file.")
}
