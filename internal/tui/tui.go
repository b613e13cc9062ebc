package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Zuo-Peng/profile-verifier/internal/open"
	"github.com/Zuo-Peng/profile-verifier/internal/profile"
	"github.com/Zuo-Peng/profile-verifier/internal/scan"
	"github.com/Zuo-Peng/profile-verifier/internal/search"
	"github.com/Zuo-Peng/profile-verifier/internal/session"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const debounceDelay = 150 * time.Millisecond

type tuiMode int

const (
	modeReview tuiMode = iota
	modeFind
	modeFiles
	modeConfirmReset
)

// Options configures Run.
type Options struct {
	ExportDir string // where e writes the results file
	ScanDir   string // where the file picker looks for CSV files
}

// message types

// opDoneMsg reports the end of a session operation started by run.
type opDoneMsg struct {
	status string
	err    error
}

type debounceTickMsg struct {
	query string
}

// model

type model struct {
	sess *session.Session
	opts Options

	mode       tuiMode
	records    []profile.Record
	visible    []int // indexes into records shown in the list
	selectedID int
	marked     map[int]bool
	stats      profile.Stats

	files      []scan.FileInfo
	fileCursor int

	cursor     int
	listOffset int
	findInput  textinput.Model
	query      string
	detail     viewport.Model
	detailKey  string

	width     int
	height    int
	ready     bool
	quitting  bool
	busy      bool
	status    string
	statusErr bool
}

func initialModel(sess *session.Session, opts Options) model {
	ti := textinput.New()
	ti.Placeholder = "Find by name, organization or URL..."
	ti.Prompt = "/ "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	m := model{
		sess:      sess,
		opts:      opts,
		findInput: ti,
		detail:    viewport.New(0, 0),
	}
	m.sync()
	if sess.State() == session.StateEmpty {
		m.enterFiles()
	}
	return m
}

// Run starts the review TUI and blocks until it exits.
func Run(sess *session.Session, opts Options) error {
	if opts.ScanDir == "" {
		opts.ScanDir = "."
	}
	m := initialModel(sess, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// Init is a no-op; everything is loaded by initialModel.
func (m model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.detail = newViewport(m.detailWidth(), m.panelHeight())
		m.detailKey = ""
		m.refreshDetail()
		return m, nil

	case opDoneMsg:
		m.busy = false
		m.setStatus(msg.status, msg.err)
		m.sync()
		if m.sess.State() == session.StateEmpty {
			m.enterFiles()
		} else if m.mode == modeFiles {
			m.mode = modeReview
		}
		return m, nil

	case debounceTickMsg:
		if msg.query == m.query {
			m.applyFilter()
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeFind:
			return m.handleFindKey(msg)
		case modeFiles:
			return m.handleFilesKey(msg)
		case modeConfirmReset:
			return m.handleConfirmKey(msg)
		}
		return m.handleReviewKey(msg)
	}
	return m, nil
}

func (m model) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	// one operation at a time; the session is not shared across goroutines
	if m.busy {
		return m, nil
	}
	m.status = ""

	switch {
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, keys.Prev):
		m.sess.Previous()
		m.sync()
	case key.Matches(msg, keys.Next):
		m.sess.Next()
		m.sync()

	case key.Matches(msg, keys.Yes):
		return m.verify(profile.StatusYes)
	case key.Matches(msg, keys.No):
		return m.verify(profile.StatusNo)

	case key.Matches(msg, keys.Mark):
		if m.selectedID != 0 {
			if err := m.sess.ToggleMark(m.selectedID); err != nil {
				m.setStatus("", err)
			}
			m.sync()
		}
	case key.Matches(msg, keys.MarkAll):
		if len(m.sess.Marked()) == len(m.records) {
			m.sess.ClearMarks()
		} else {
			m.sess.MarkAll()
		}
		m.sync()
	case key.Matches(msg, keys.BulkYes):
		return m.bulkVerify(profile.StatusYes)
	case key.Matches(msg, keys.BulkNo):
		return m.bulkVerify(profile.StatusNo)

	case key.Matches(msg, keys.Export):
		sess, dir := m.sess, m.opts.ExportDir
		return m.run("Exporting", func(ctx context.Context) (string, error) {
			path, err := sess.Export(ctx, dir)
			if err != nil {
				return "", err
			}
			return "Exported to " + path, nil
		})

	case key.Matches(msg, keys.Open):
		if cur, ok := m.sess.Current(); ok {
			if err := open.Profile(cur); err != nil {
				m.setStatus("", err)
			} else {
				m.setStatus("Opened "+cur.LinkedInURL, nil)
			}
		}
	case key.Matches(msg, keys.Copy):
		if cur, ok := m.sess.Current(); ok {
			if err := clipboard.WriteAll(cur.LinkedInURL); err != nil {
				m.setStatus("Clipboard unavailable: "+cur.LinkedInURL, nil)
			} else {
				m.setStatus("Copied "+cur.LinkedInURL, nil)
			}
		}

	case key.Matches(msg, keys.Find):
		m.mode = modeFind
		m.findInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Reset):
		m.mode = modeConfirmReset
		m.setStatus("Reset the session and discard all verifications? (y/n)", nil)

	case key.Matches(msg, keys.DetailUp):
		m.detail.LineUp(m.panelHeight() / 2)
	case key.Matches(msg, keys.DetailDown):
		m.detail.LineDown(m.panelHeight() / 2)
	}
	return m, nil
}

func (m model) handleFindKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.findInput.SetValue("")
		m.findInput.Blur()
		m.query = ""
		m.mode = modeReview
		m.applyFilter()
		return m, nil
	case tea.KeyEnter:
		m.findInput.Blur()
		m.mode = modeReview
		m.applyFilter()
		// jump to the first hit
		if len(m.visible) > 0 && !m.busy {
			if err := m.sess.Select(m.records[m.visible[0]].ID); err == nil {
				m.sync()
			}
		}
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.findInput, cmd = m.findInput.Update(msg)
	if q := m.findInput.Value(); q != m.query {
		m.query = q
		return m, tea.Batch(cmd, m.scheduleDebouncedFind(q))
	}
	return m, cmd
}

func (m model) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Up):
		if m.fileCursor > 0 {
			m.fileCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.fileCursor < len(m.files)-1 {
			m.fileCursor++
		}
	case key.Matches(msg, keys.Enter):
		if m.fileCursor < len(m.files) {
			sess, path := m.sess, m.files[m.fileCursor].Path
			return m.run("Loading "+path, func(ctx context.Context) (string, error) {
				res, err := sess.UploadFile(ctx, path)
				if err != nil {
					return "", err
				}
				return loadedStatus(len(res.Records), res.Skipped), nil
			})
		}
	}
	return m, nil
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeReview
	if key.Matches(msg, keys.Yes) || key.Matches(msg, keys.Reset) {
		sess := m.sess
		return m.run("Resetting", func(ctx context.Context) (string, error) {
			sess.Reset(ctx)
			return "Session reset", nil
		})
	}
	m.setStatus("Reset cancelled", nil)
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || m.mode != modeReview || len(m.visible) == 0 {
		return m, nil
	}
	region, row := m.hitTest(msg.X, msg.Y)
	switch {
	case region == regionList && msg.Button == tea.MouseButtonWheelUp:
		if m.listOffset > 0 {
			m.listOffset--
		}
	case region == regionList && msg.Button == tea.MouseButtonWheelDown:
		if m.listOffset < len(m.visible)-m.panelHeight() {
			m.listOffset++
		}
	case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if row >= 0 && row < len(m.visible) && !m.busy {
			if err := m.sess.Select(m.records[m.visible[row]].ID); err == nil {
				m.sync()
			}
		}
	case region == regionDetail && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) verify(status profile.Status) (tea.Model, tea.Cmd) {
	sess := m.sess
	return m.run("Saving", func(ctx context.Context) (string, error) {
		r, err := sess.Verify(ctx, status)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s marked %s", r.FullName(), r.VerificationStatus), nil
	})
}

func (m model) bulkVerify(status profile.Status) (tea.Model, tea.Cmd) {
	ids := m.sess.Marked()
	if len(ids) == 0 {
		m.setStatus("Mark profiles with space first", nil)
		return m, nil
	}
	sess := m.sess
	return m.run("Saving", func(ctx context.Context) (string, error) {
		out, err := sess.BulkVerify(ctx, ids, status)
		if err != nil {
			return "", err
		}
		msg := fmt.Sprintf("%d profiles marked %s", out.Updated, status)
		if out.Failed > 0 {
			msg += fmt.Sprintf(", %d failed", out.Failed)
		}
		return msg, nil
	})
}

// run marks the model busy and performs fn off the update loop. Key handling
// does not touch the session until the matching opDoneMsg arrives.
func (m model) run(label string, fn func(context.Context) (string, error)) (tea.Model, tea.Cmd) {
	m.busy = true
	m.setStatus(label+"...", nil)
	return m, func() tea.Msg {
		status, err := fn(context.Background())
		return opDoneMsg{status: status, err: err}
	}
}

func (m *model) setStatus(status string, err error) {
	if err != nil {
		m.status = session.UserMessage(err).String()
		m.statusErr = true
		return
	}
	m.status = status
	m.statusErr = false
}

// sync copies the session view into the model so View never reads the
// session directly.
func (m *model) sync() {
	m.records = m.sess.Profiles()
	m.stats = m.sess.Stats()
	m.marked = make(map[int]bool)
	for _, id := range m.sess.Marked() {
		m.marked[id] = true
	}
	m.selectedID = 0
	if cur, ok := m.sess.Current(); ok {
		m.selectedID = cur.ID
	}
	m.applyFilter()
}

// applyFilter recomputes the visible rows for the current query and puts the
// cursor on the selected profile.
func (m *model) applyFilter() {
	m.visible = make([]int, 0, len(m.records))
	if m.query == "" {
		for i := range m.records {
			m.visible = append(m.visible, i)
		}
	} else {
		for _, r := range search.Find(m.records, search.Options{Query: m.query}) {
			m.visible = append(m.visible, r.Position)
		}
	}

	m.cursor = -1
	for row, i := range m.visible {
		if m.records[i].ID == m.selectedID {
			m.cursor = row
			break
		}
	}
	m.adjustListScroll(m.panelHeight())
	m.refreshDetail()
}

func (m *model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	row := m.cursor + delta
	if m.cursor < 0 {
		row = 0
	}
	if row < 0 || row >= len(m.visible) {
		return
	}
	if err := m.sess.Select(m.records[m.visible[row]].ID); err != nil {
		m.setStatus("", err)
		return
	}
	m.sync()
}

func (m *model) enterFiles() {
	m.mode = modeFiles
	m.fileCursor = 0
	files, err := scan.ScanCSV(m.opts.ScanDir)
	if err != nil {
		m.files = nil
		m.setStatus("", fmt.Errorf("scan %s: %w", m.opts.ScanDir, err))
		return
	}
	m.files = files
}

func loadedStatus(n, skipped int) string {
	s := fmt.Sprintf("Loaded %d profiles", n)
	if skipped > 0 {
		s += fmt.Sprintf(" (%d rows skipped)", skipped)
	}
	return s
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}
	if m.mode == modeFiles {
		return lipgloss.JoinVertical(lipgloss.Left,
			styleTitle.Render("Select a profile file"),
			m.renderFiles(m.width-2, m.panelHeight()+2),
			m.statusBar(),
		)
	}

	listW := m.listWidth()
	detailW := m.detailWidth()
	panelH := m.panelHeight()

	var top string
	if m.mode == modeFind || m.query != "" {
		top = m.findInput.View()
	} else {
		top = m.header()
	}

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.detail.Width = detailW
	m.detail.Height = panelH
	detailPanel := styleActiveBorder.
		Width(detailW).
		Height(panelH).
		Render(m.detail.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)
	return lipgloss.JoinVertical(lipgloss.Left, top, panels, m.statusBar())
}

func (m model) header() string {
	s := m.stats
	parts := []string{
		fmt.Sprintf("%d profiles", s.Total),
		fmt.Sprintf("%d verified (%d%%)", s.Verified, s.Percent()),
		styleStatusYes.Render(fmt.Sprintf("%d yes", s.Matches)),
		styleStatusNo.Render(fmt.Sprintf("%d no", s.NoMatches)),
		styleStatusPending.Render(fmt.Sprintf("%d pending", s.Pending)),
	}
	if n := len(m.marked); n > 0 {
		parts = append(parts, styleMark.Render(fmt.Sprintf("%d marked", n)))
	}
	return styleStatusBar.Render(strings.Join(parts, " · "))
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 45% for list, minus border padding
	w := m.width*45/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) detailWidth() int {
	if m.width <= 0 {
		return 60
	}
	w := m.width*55/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract header row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionDetail
)

// hitTest maps terminal coordinates to a panel region and visible row.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // header row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + relY
	}
	if x > listBoxRight+1 {
		return regionDetail, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	if m.status != "" {
		if m.statusErr {
			return styleStatusError.Render(m.status)
		}
		return styleStatusBar.Render(m.status)
	}

	var parts []string
	switch m.mode {
	case modeFiles:
		parts = []string{"up/dn choose", "enter load", "esc quit"}
	case modeFind:
		parts = []string{"enter jump", "esc clear"}
	default:
		for _, b := range reviewHelp {
			h := b.Help()
			parts = append(parts, h.Key+" "+h.Desc)
		}
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m model) scheduleDebouncedFind(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}
