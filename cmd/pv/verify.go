package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
	"github.com/Zuo-Peng/profile-verifier/internal/session"
	"github.com/spf13/cobra"
)

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id> <yes|no>",
		Short: "Record whether a profile matches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := profile.ParseStatus(args[1])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.sess.Select(id); err != nil {
				return err
			}
			r, err := a.sess.Verify(cmd.Context(), status)
			if err != nil {
				return err
			}

			nameMatch := string(r.NameMatch)
			if nameMatch == "" {
				nameMatch = "-"
			}
			fmt.Printf("%d %s: %s (name match: %s)\n", r.ID, r.FullName(), r.VerificationStatus, nameMatch)
			if next, ok := a.sess.Current(); ok && next.ID != r.ID {
				fmt.Fprintf(os.Stderr, "Next pending: %d %s\n", next.ID, next.FullName())
			}
			return nil
		},
	}
}

func bulkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bulk <yes|no> <id>...",
		Short: "Record the same status for several profiles",
		Long:  `Unknown ids are reported and skipped; the remaining profiles are still updated.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := profile.ParseStatus(args[0])
			if err != nil {
				return err
			}
			ids := make([]int, 0, len(args)-1)
			for _, s := range args[1:] {
				id, err := parseID(s)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.sess.BulkVerify(cmd.Context(), ids, status)
			if err != nil {
				return err
			}

			fmt.Printf("Updated %d profiles to %s\n", out.Updated, status)
			if out.Failed > 0 {
				fmt.Fprintf(os.Stderr, "%d updates failed:\n", out.Failed)
				for _, e := range out.Errors {
					fmt.Fprintf(os.Stderr, "  %s\n", session.UserMessage(e))
				}
			}
			return nil
		},
	}
}
