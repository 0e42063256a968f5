package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"codenerd/internal/completion"
	"codenerd/internal/languageserver"
)

type model struct {
	doc   *buffer
	state *editorState
	pop   *popup
	coord *completion.Coordinator
	mgr   *languageserver.Manager

	width, height int
	statusLine    string
}

func newModel(doc *buffer, state *editorState, pop *popup, coord *completion.Coordinator, mgr *languageserver.Manager) *model {
	return &model{doc: doc, state: state, pop: pop, coord: coord, mgr: mgr}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case popupUpdatedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.state.ActiveView()

	switch {
	case key.Matches(msg, defaultKeyMap.Quit):
		if m.mgr != nil {
			m.mgr.DisconnectAll()
		}
		return m, tea.Quit

	case key.Matches(msg, defaultKeyMap.Leave):
		if m.state.Mode() == completion.ModeInsert {
			m.state.SetMode(completion.ModeNormal)
			m.coord.Hooks.OnModeSwitch(completion.ModeNormal)
		}
		return m, nil

	case key.Matches(msg, defaultKeyMap.ManualTrigger):
		m.coord.Hooks.ManualTrigger()
		return m, nil
	}

	if m.state.Mode() != completion.ModeInsert {
		switch {
		case key.Matches(msg, defaultKeyMap.EnterInsert):
			m.state.SetMode(completion.ModeInsert)
			m.coord.Hooks.OnModeSwitch(completion.ModeInsert)
		case key.Matches(msg, defaultKeyMap.Left):
			m.moveCursor(-1)
		case key.Matches(msg, defaultKeyMap.Right):
			m.moveCursor(1)
		}
		return m, nil
	}

	// Insert mode.
	switch {
	case key.Matches(msg, defaultKeyMap.Backspace):
		if view.Cursor() > 0 {
			m.doc.deleteRange(view.Cursor()-1, view.Cursor())
			m.moveCursor(-1)
		}
		m.coord.Hooks.PostCommand(completion.CommandDeleteCharBackward)
		return m, nil

	case key.Matches(msg, defaultKeyMap.Up):
		if m.pop.IsOpen() {
			m.pop.MoveSelection(-1)
		}
		return m, nil

	case key.Matches(msg, defaultKeyMap.Down):
		if m.pop.IsOpen() {
			m.pop.MoveSelection(1)
		}
		return m, nil

	case key.Matches(msg, defaultKeyMap.Accept):
		if m.pop.IsOpen() {
			m.coord.Filter.ClearCompletions()
		}
		return m, nil

	case msg.Type == tea.KeyRunes, msg.Type == tea.KeySpace:
		for _, r := range msg.Runes {
			m.doc.insertAt(view.Cursor(), r)
			m.moveCursor(1)
			m.coord.Hooks.PostInsertChar(r)
		}
		if msg.Type == tea.KeySpace {
			m.doc.insertAt(view.Cursor(), ' ')
			m.moveCursor(1)
			m.coord.Hooks.PostInsertChar(' ')
		}
		return m, nil
	}

	return m, nil
}

func (m *model) moveCursor(delta int) {
	v, ok := m.state.ActiveView().(*editorView)
	if !ok {
		return
	}
	next := v.cursor + delta
	if next < 0 {
		next = 0
	}
	if next > m.doc.TextLen() {
		next = m.doc.TextLen()
	}
	v.cursor = next
}

func (m *model) View() string {
	var b strings.Builder

	text := m.doc.String()
	cursor := m.state.ActiveView().Cursor()
	if cursor > len(text) {
		cursor = len(text)
	}
	before, after := text[:cursor], text[cursor:]
	b.WriteString(bufferStyle.Render(before + cursorStyle.Render(" ") + after))
	b.WriteString("\n")

	if items, selected, open := m.pop.Snapshot(); open && len(items) > 0 {
		var lines []string
		for i, it := range items {
			line := fmt.Sprintf("%s  (%s)", it.Label, it.Provider)
			if i == selected {
				line = "> " + line
			} else {
				line = "  " + line
			}
			lines = append(lines, line)
		}
		b.WriteString(popupBorderStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	mode := "NORMAL"
	if m.state.Mode() == completion.ModeInsert {
		mode = "INSERT"
	}
	b.WriteString(statusBarStyle.Render(fmt.Sprintf(" %s | %s ", mode, m.doc.Path())))
	return b.String()
}

var _ tea.Model = (*model)(nil)
