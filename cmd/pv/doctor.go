package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Zuo-Peng/profile-verifier/internal/scan"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: config, DB and saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			fmt.Printf("  Matcher:       %s\n", cfg.Matcher)
			fmt.Printf("  Max file size: %d bytes\n", cfg.MaxFileSize)
			fmt.Printf("  Log:           %s (%s, %s)\n", cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
			checkDir("Export dir", cfg.ExportDir)

			fmt.Println("\n=== Input files ===")
			files, err := scan.ScanCSV(".")
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				fmt.Printf("  CSV files in current dir: %d\n", len(files))
				if len(files) > 0 {
					fmt.Printf("  Newest: %s\n", files[0].Path)
				}
			}

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'pv load <file>' first)")
				return nil
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			count, err := a.db.ProfileCount()
			if err != nil {
				return fmt.Errorf("count profiles: %w", err)
			}
			fmt.Printf("  Saved profiles: %d\n", count)

			fmt.Println("\n=== Session ===")
			meta := a.sess.Metadata()
			if meta == nil {
				fmt.Println("  No active session")
			} else {
				fmt.Printf("  ID:        %s\n", meta.ID)
				fmt.Printf("  State:     %s\n", a.sess.State())
				fmt.Printf("  Progress:  %d/%d verified, %d remaining\n", meta.VerifiedCount, meta.TotalProfiles, meta.Remaining())
				fmt.Printf("  Started:   %s\n", meta.StartedAt.Local().Format(time.DateTime))
				fmt.Printf("  Updated:   %s\n", meta.LastUpdated.Local().Format(time.DateTime))
				if count != meta.TotalProfiles {
					fmt.Printf("  Status: MISMATCH (saved=%d, metadata=%d)\n", count, meta.TotalProfiles)
				} else {
					fmt.Println("  Status: OK")
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Printf("\n=== DB Size: %.1f KB ===\n", float64(info.Size())/1024)
			}
			return nil
		},
	}
}
