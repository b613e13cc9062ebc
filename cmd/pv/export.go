package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/profile-verifier/internal/open"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var dir string
	var toStdout, openAfter bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the verification results file",
		Long: `Writes profile_verification_results_<YYYY-MM-DD>.csv with the columns
  firstname, lastname, organization, linkedin_url, name_match, verification_status, verified_at
into the export directory (config export_dir, or --dir).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if toStdout {
				text, err := a.sess.ExportText()
				if err != nil {
					return err
				}
				fmt.Println(text)
				return nil
			}

			if dir == "" {
				dir = a.cfg.ExportDir
			}
			path, err := a.sess.Export(cmd.Context(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Exported %d profiles to %s\n", a.sess.Stats().Total, path)

			if openAfter {
				return open.File(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default: export_dir from config)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the results instead of writing a file")
	cmd.Flags().BoolVar(&openAfter, "open", false, "Open the written file in $EDITOR")

	return cmd
}
