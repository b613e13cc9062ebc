package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Zuo-Peng/profile-verifier/internal/config"
	"github.com/Zuo-Peng/profile-verifier/internal/logging"
	"github.com/Zuo-Peng/profile-verifier/internal/match"
	"github.com/Zuo-Peng/profile-verifier/internal/profile"
	"github.com/Zuo-Peng/profile-verifier/internal/session"
	"github.com/Zuo-Peng/profile-verifier/internal/state"
	"golang.org/x/term"
)

// app is what every command needs: config, the state DB and a resumed
// session.
type app struct {
	cfg      *config.Config
	db       *state.DB
	sess     *session.Session
	closeLog func() error
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Load()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return config.LoadFrom(home, configPath)
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	closeLog, err := logging.Setup(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	db, err := state.OpenDB(cfg.DBPath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open db: %w", err)
	}

	matcher, ok := match.ByName(cfg.Matcher)
	if !ok {
		db.Close()
		closeLog()
		return nil, fmt.Errorf("unknown matcher %q", cfg.Matcher)
	}

	sess := session.New(profile.NewStore(matcher),
		session.WithPersister(db),
		session.WithLogger(slog.Default()),
		session.WithMaxFileSize(cfg.MaxFileSize),
	)
	if err := sess.Resume(ctx); err != nil {
		slog.Warn("resume session", "error", err)
	}

	return &app{cfg: cfg, db: db, sess: sess, closeLog: closeLog}, nil
}

func (a *app) Close() {
	a.db.Close()
	a.closeLog()
}

// requireProfiles fails with session.ErrNoProfiles when nothing is loaded.
func (a *app) requireProfiles() error {
	if a.sess.State() == session.StateEmpty {
		return session.ErrNoProfiles
	}
	return nil
}

func (a *app) profile(id int) (profile.Record, error) {
	if err := a.sess.Select(id); err != nil {
		return profile.Record{}, err
	}
	r, _ := a.sess.Current()
	return r, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid profile id %q", s)
	}
	return id, nil
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func terminalWidth() int {
	if !stdoutIsTerminal() {
		return 0
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}

func checkDir(name, path string) {
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
