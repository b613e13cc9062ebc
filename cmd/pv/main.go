package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Zuo-Peng/profile-verifier/internal/session"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

// configPath overrides ~/.config/pv/config.toml when set.
var configPath string

func main() {
	// PV_* overrides may live in a .env next to the input files
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	rootCmd := &cobra.Command{
		Use:           "pv",
		Short:         "Profile Verifier - review uploaded LinkedIn profiles and export the results",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/pv/config.toml)")

	rootCmd.AddCommand(loadCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(findCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(bulkCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

// errorText prefers the coded user message; errors without one (flags,
// config) are printed as-is.
func errorText(err error) string {
	msg := session.UserMessage(err)
	if msg.Code == "ERR000" {
		return "Error: " + err.Error()
	}
	return msg.String()
}
