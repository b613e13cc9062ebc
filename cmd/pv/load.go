package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/profile-verifier/internal/scan"
	"github.com/spf13/cobra"
)

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file|dir>",
		Short: "Upload a profile file, replacing the current session",
		Long: `Parses a comma-separated file with the header columns
  firstname, lastname, organization, linkedin_url
and starts a new verification session. Given a directory, the newest .csv
file in it is used. Rows missing a first name, last name or URL are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scan.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.sess.UploadFile(cmd.Context(), path)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Loaded %d profiles from %s", len(res.Records), path)
			if res.Skipped > 0 {
				fmt.Fprintf(os.Stderr, " (%d rows skipped)", res.Skipped)
			}
			fmt.Fprintln(os.Stderr)
			if meta := a.sess.Metadata(); meta != nil {
				fmt.Fprintf(os.Stderr, "Session %s\n", meta.ID)
			}
			return nil
		},
	}
}
