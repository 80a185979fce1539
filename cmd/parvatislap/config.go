package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parvatislap/lapas/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to --config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := writeDefaultConfig(configPath, configForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
		return nil
	},
}

var errConfigExists = errors.New("config file already exists (use --force to overwrite)")

// writeDefaultConfig saves the built-in defaults. Environment overrides are
// never written.
func writeDefaultConfig(path string, force bool) error {
	if path == "" {
		return errors.New("no config path given")
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, errConfigExists)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
	}
	return config.Default().Save(path)
}
