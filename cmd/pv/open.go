package main

import (
	"github.com/Zuo-Peng/profile-verifier/internal/open"
	"github.com/spf13/cobra"
)

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Open a profile's LinkedIn URL in the browser ($BROWSER)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.profile(id)
			if err != nil {
				return err
			}
			return open.Profile(r)
		},
	}
}
