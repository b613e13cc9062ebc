package main

import (
	"fmt"

	"github.com/Zuo-Peng/profile-verifier/internal/tui"
	"github.com/spf13/cobra"
)

func reviewCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review profiles interactively",
		Long: `Opens a TUI over the current session. With no profiles loaded, it lists
the .csv files in --dir to pick from.

Keys: y/n verify, h/l previous/next, up/dn move, space mark, a mark all,
Y/N verify marked, / find, o open, c copy URL, e export, R reset, esc quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stdoutIsTerminal() {
				return fmt.Errorf("review needs a terminal; use pv list / pv verify instead")
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(a.sess, tui.Options{
				ExportDir: a.cfg.ExportDir,
				ScanDir:   dir,
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to pick a profile file from")

	return cmd
}
