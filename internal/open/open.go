package open

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
)

// Profile opens the record's LinkedIn URL in the browser. $BROWSER wins over
// the platform default.
func Profile(r profile.Record) error {
	target, err := normalizeURL(r.LinkedInURL)
	if err != nil {
		return fmt.Errorf("profile %d: %w", r.ID, err)
	}
	cmd := browserCommand(runtime.GOOS, os.Getenv("BROWSER"), target)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	// the browser outlives us; don't wait on it
	go cmd.Wait()
	return nil
}

// File opens path in $EDITOR, falling back to less.
func File(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %s", path)
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}
	cmd := editorCommand(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", raw)
	}
	return u.String(), nil
}

func browserCommand(goos, browser, target string) *exec.Cmd {
	if browser != "" {
		return exec.Command(browser, target)
	}
	switch goos {
	case "darwin":
		return exec.Command("open", target)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return exec.Command("xdg-open", target)
	}
}

func editorCommand(editor, path string) *exec.Cmd {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return exec.Command(editor, "+2", path)
	case strings.Contains(editor, "code"):
		return exec.Command(editor, "--goto", path+":2")
	case strings.Contains(editor, "less"):
		return exec.Command(editor, "-S", path)
	default:
		return exec.Command(editor, path)
	}
}
