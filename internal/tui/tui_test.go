package tui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zuo-Peng/profile-verifier/internal/match"
	"github.com/Zuo-Peng/profile-verifier/internal/profile"
	"github.com/Zuo-Peng/profile-verifier/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

const sample = `firstname,lastname,organization,linkedin_url
Jane,Doe,Acme,https://linkedin.com/in/jane-doe
John,Roe,Initech,https://linkedin.com/in/john-roe
Ann,Lee,,https://linkedin.com/in/ann-lee
`

func newSession(t *testing.T) *session.Session {
	t.Helper()
	return session.New(profile.NewStore(match.Fixed(profile.NameMatchYes)),
		session.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func loadedModel(t *testing.T) model {
	t.Helper()
	sess := newSession(t)
	if _, err := sess.Upload(context.Background(), "in.csv", strings.NewReader(sample)); err != nil {
		t.Fatal(err)
	}
	m := initialModel(sess, Options{ExportDir: t.TempDir(), ScanDir: t.TempDir()})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and runs any operation it starts to completion.
func press(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if cmd == nil {
		return m
	}
	if done, ok := cmd().(opDoneMsg); ok {
		if !m.busy {
			t.Fatal("operation started without the busy flag")
		}
		next, _ = m.Update(done)
		m = next.(model)
	}
	return m
}

func TestVerifyKeyAdvances(t *testing.T) {
	m := loadedModel(t)
	if m.mode != modeReview || m.selectedID != 1 {
		t.Fatalf("mode=%v selected=%d", m.mode, m.selectedID)
	}

	m = press(t, m, runes("y"))
	if m.busy {
		t.Error("still busy after the operation finished")
	}
	if m.records[0].VerificationStatus != profile.StatusYes {
		t.Errorf("status = %q", m.records[0].VerificationStatus)
	}
	if m.selectedID != 2 || m.cursor != 1 {
		t.Errorf("selected=%d cursor=%d, want 2/1", m.selectedID, m.cursor)
	}
	if !strings.Contains(m.status, "Jane Doe marked yes") {
		t.Errorf("status = %q", m.status)
	}
}

func TestNavigationKeys(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.selectedID != 3 {
		t.Errorf("after 3x down selected = %d, want 3", m.selectedID)
	}
	m = press(t, m, runes("h"))
	if m.selectedID != 2 {
		t.Errorf("after h selected = %d, want 2", m.selectedID)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.selectedID != 1 {
		t.Errorf("after 2x left selected = %d, want 1", m.selectedID)
	}
}

func TestMarkAndBulk(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if len(m.marked) != 2 || !m.marked[1] || !m.marked[2] {
		t.Fatalf("marked = %v", m.marked)
	}

	m = press(t, m, runes("N"))
	if len(m.marked) != 0 {
		t.Errorf("marks not cleared: %v", m.marked)
	}
	if m.stats.NoMatches != 2 || m.stats.Pending != 1 {
		t.Errorf("stats = %+v", m.stats)
	}
	if m.selectedID != 3 {
		t.Errorf("selected = %d, want 3", m.selectedID)
	}
}

func TestBulkWithoutMarks(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, runes("Y"))
	if m.stats.Verified != 0 || !strings.Contains(m.status, "Mark profiles") {
		t.Errorf("stats=%+v status=%q", m.stats, m.status)
	}
}

func TestFind(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, runes("/"))
	if m.mode != modeFind {
		t.Fatalf("mode = %v", m.mode)
	}
	for _, r := range "initech" {
		next, _ := m.Update(runes(string(r)))
		m = next.(model)
	}
	m = press(t, m, debounceTickMsg{query: "initech"})
	if len(m.visible) != 1 || m.records[m.visible[0]].ID != 2 {
		t.Fatalf("visible = %v", m.visible)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeReview || m.selectedID != 2 {
		t.Errorf("mode=%v selected=%d", m.mode, m.selectedID)
	}

	m = press(t, m, runes("/"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.query != "" || len(m.visible) != 3 {
		t.Errorf("esc did not clear the filter: query=%q visible=%d", m.query, len(m.visible))
	}
}

func TestExportKey(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, runes("e"))
	if m.statusErr {
		t.Fatalf("export failed: %s", m.status)
	}
	path := strings.TrimPrefix(m.status, "Exported to ")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file: %v", err)
	}
}

func TestResetConfirm(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, runes("R"))
	if m.mode != modeConfirmReset {
		t.Fatalf("mode = %v", m.mode)
	}
	m = press(t, m, runes("x"))
	if m.mode != modeReview || len(m.records) != 3 {
		t.Fatalf("reset not cancelled: mode=%v records=%d", m.mode, len(m.records))
	}

	m = press(t, m, runes("R"))
	m = press(t, m, runes("y"))
	if m.mode != modeFiles || len(m.records) != 0 {
		t.Errorf("after reset: mode=%v records=%d", m.mode, len(m.records))
	}
}

func TestFilePicker(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "people.csv"), []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	m := initialModel(newSession(t), Options{ScanDir: dir})
	if m.mode != modeFiles || len(m.files) != 1 {
		t.Fatalf("mode=%v files=%d", m.mode, len(m.files))
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeReview || len(m.records) != 3 {
		t.Fatalf("after load: mode=%v records=%d status=%q", m.mode, len(m.records), m.status)
	}
	if m.status != "Loaded 3 profiles" {
		t.Errorf("status = %q", m.status)
	}
}

func TestErrorsUseUserMessages(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.csv"), []byte("name,url\nx,y\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := initialModel(newSession(t), Options{ScanDir: dir})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.statusErr || !strings.Contains(m.status, "PARSE002") {
		t.Errorf("status = %q", m.status)
	}
	if m.mode != modeFiles {
		t.Errorf("mode = %v, want file picker", m.mode)
	}
}

func TestViewRenders(t *testing.T) {
	m := loadedModel(t)
	out := m.View()
	for _, want := range []string{"3 profiles", "Jane Doe", "Initech"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
