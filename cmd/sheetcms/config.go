package main

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newConfigCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.Wrap(toml.NewEncoder(cmd.OutOrStdout()).Encode(s.config), "encoding config")
		},
	}
}
