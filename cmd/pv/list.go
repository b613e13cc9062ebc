package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
	"github.com/Zuo-Peng/profile-verifier/internal/render"
	"github.com/Zuo-Peng/profile-verifier/internal/search"
	"github.com/spf13/cobra"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
)

func colorizeSnippet(snippet string, color bool) string {
	if !color {
		snippet = strings.ReplaceAll(snippet, ">>>", "")
		return strings.ReplaceAll(snippet, "<<<", "")
	}
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	return strings.ReplaceAll(snippet, "<<<", sColorReset)
}

func statusFlag(s string) (profile.Status, error) {
	if s == "" {
		return "", nil
	}
	return profile.ParseStatus(s)
}

func listCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the loaded profiles as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := statusFlag(status)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireProfiles(); err != nil {
				return err
			}

			var records []profile.Record
			for _, r := range search.Find(a.sess.Profiles(), search.Options{Status: st, Limit: limit}) {
				records = append(records, r.Record)
			}
			if len(records) == 0 {
				fmt.Fprintln(os.Stderr, "No profiles match.")
				return nil
			}

			fmt.Print(render.Table(records, render.Options{
				Color: stdoutIsTerminal(),
				Width: terminalWidth(),
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending/yes/no)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max rows (0 = no limit)")

	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one profile",
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
			fmt.Print(render.Detail(r, render.Options{
				Color: stdoutIsTerminal(),
				Width: terminalWidth(),
			}))
			return nil
		},
	}
}

func findCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Find profiles by name, organization or URL",
		Long: `Every word of the query must appear in the profile's name, organization
or LinkedIn URL. Output is TSV:
  id, status, name, organization, url, matched text`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := statusFlag(status)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireProfiles(); err != nil {
				return err
			}

			results := search.Find(a.sess.Profiles(), search.Options{
				Query:  strings.Join(args, " "),
				Status: st,
				Limit:  limit,
			})
			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			color := stdoutIsTerminal()
			for _, res := range results {
				r := res.Record
				// first field stays plain so it can be piped into pv show
				fmt.Printf("%d\t%s\t%s\t%s\t%s\t%s\n",
					r.ID,
					render.StatusLabel(r.VerificationStatus, color),
					r.FullName(),
					r.Organization,
					r.LinkedInURL,
					colorizeSnippet(res.Snippet, color),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending/yes/no)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
