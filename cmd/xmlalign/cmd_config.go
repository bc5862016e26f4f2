package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xmlalign/project"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  `Display the configuration file in effect for the current directory and the settings it resolves to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig()
		},
	}

	return cmd
}

func runConfig() error {
	proj, err := project.Load()
	if err != nil {
		return err
	}

	cfg := proj.Config
	configPath := proj.ConfigPath
	if configPath == "" {
		configPath = "(none, using defaults)"
	}

	validate := cfg.Validate == nil || *cfg.Validate

	fmt.Printf("Config:     %s\n", configPath)
	fmt.Printf("Root:       %s\n", proj.RootDir)
	fmt.Printf("Indent:     %q\n", cfg.IndentUnit())
	fmt.Printf("Content:    %s\n", cfg.Content)
	fmt.Printf("Undefined:  %s\n", cfg.Undefined)
	fmt.Printf("Validate:   %t\n", validate)
	fmt.Printf("Newline:    %t\n", cfg.FinalNewline)
	fmt.Printf("Extensions: %s\n", strings.Join(cfg.Extensions, " "))

	return nil
}
