// cmd/init.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/repohub/repohub/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file populated with the defaults (scan depth, per-repo
timeout, ignore patterns) so it can be edited by hand. Refuses to overwrite
an existing file unless --force is given.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := config.Save(config.NewConfig(), path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", path)
	return nil
}
