package tui

import (
	"fmt"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
	"github.com/Zuo-Peng/profile-verifier/internal/render"
	"github.com/charmbracelet/bubbles/viewport"
)

// refreshDetail renders the selected profile into the detail viewport. The
// key skips re-rendering when nothing shown has changed.
func (m *model) refreshDetail() {
	cur, ok := m.current()
	if !ok {
		m.detail.SetContent("")
		m.detailKey = ""
		return
	}

	key := fmt.Sprintf("%d:%s:%s:%v:%d", cur.ID, cur.VerificationStatus, m.query, m.marked[cur.ID], m.detailWidth())
	if key == m.detailKey {
		return
	}
	content := render.Detail(cur, render.Options{
		Color: true,
		Width: m.detailWidth(),
		Query: m.query,
	})
	if m.marked[cur.ID] {
		content += "\n" + styleMark.Render("* marked for bulk verification") + "\n"
	}
	m.detail.SetContent(content)
	m.detail.GotoTop()
	m.detailKey = key
}

func (m model) current() (profile.Record, bool) {
	for _, r := range m.records {
		if r.ID == m.selectedID {
			return r, true
		}
	}
	return profile.Record{}, false
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
