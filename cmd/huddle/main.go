package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huddleai/huddle/internal/version"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:     "huddle",
		Short:   "Huddle chat-bot plugin framework",
		Version: version.GetInfo(),
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to huddle.toml")

	root.AddCommand(newServeCommand())
	root.AddCommand(newTokenCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return os.Getenv("CONFIG_PATH")
}
