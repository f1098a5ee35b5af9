// ABOUTME: Config command for inspecting and creating the config file.
// ABOUTME: Shows the effective settings after flags are applied.

package main

import (
	"fmt"

	"github.com/harper/pinboard/internal/config"
	"github.com/harper/pinboard/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n", configPath(cmd))
		fmt.Print(string(data))
		fmt.Printf("# store path: %s\n", cfg.StorePath())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a default config file",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path := configPath(cmd)

		if !force && config.ExistsAt(path) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.SaveTo(path, config.Default()); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Wrote %s", path)))
		return nil
	},
}

func configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.Path()
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
