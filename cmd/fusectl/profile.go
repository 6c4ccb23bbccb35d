package main

import (
	"github.com/spf13/cobra"

	"expediente/internal/fusion/service"
	"expediente/internal/platform/config"
)

func newProfileCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile [path]",
		Short: "Validate a fusion profile and print the effective settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.validateOutput(); err != nil {
				return err
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			profile, err := config.LoadProfile(path)
			if err != nil {
				return err
			}
			if _, err := service.SettingsFromProfile(profile); err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), root.output, profile)
		},
	}
}
