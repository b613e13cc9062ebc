package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Zuo-Peng/profile-verifier/internal/render"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show verification progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireProfiles(); err != nil {
				return err
			}

			if meta := a.sess.Metadata(); meta != nil {
				fmt.Printf("Session:   %s\n", meta.ID)
				fmt.Printf("Started:   %s\n", meta.StartedAt.Local().Format(time.DateTime))
				fmt.Printf("Updated:   %s\n", meta.LastUpdated.Local().Format(time.DateTime))
			}
			fmt.Print(render.Stats(a.sess.Stats(), render.Options{Color: stdoutIsTerminal()}))
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the loaded profiles and all verifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			a.sess.Reset(cmd.Context())
			fmt.Fprintln(os.Stderr, "Session reset.")
			return nil
		},
	}
}
