package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notion-to-markdown/internal/notion"
)

// ErrAborted reports that the user backed out of a prompt or picker.
var ErrAborted = errors.New("aborted")

var docStyle = lipgloss.NewStyle().Margin(1, 2)

type databaseItem struct {
	db notion.Database
}

func (i databaseItem) Title() string {
	if i.db.Title == "" {
		return "Untitled"
	}
	return i.db.Title
}

func (i databaseItem) Description() string {
	if i.db.Description == "" {
		return i.db.URL
	}
	return i.db.Description + " - " + i.db.URL
}

func (i databaseItem) FilterValue() string { return i.Title() }

type pickerModel struct {
	list   list.Model
	choice *notion.Database
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		if msg.String() == "enter" {
			if item, ok := m.list.SelectedItem().(databaseItem); ok {
				m.choice = &item.db
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	return docStyle.Render(m.list.View())
}

// PickDatabase shows a full screen list of databases and returns the one the
// user confirmed with enter. Quitting the list without a selection returns
// ErrAborted.
func PickDatabase(databases []notion.Database) (notion.Database, error) {
	items := make([]list.Item, 0, len(databases))
	for _, db := range databases {
		items = append(items, databaseItem{db: db})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select a database to export"

	final, err := tea.NewProgram(pickerModel{list: l}, tea.WithAltScreen()).Run()
	if err != nil {
		return notion.Database{}, fmt.Errorf("run database picker: %w", err)
	}
	model, ok := final.(pickerModel)
	if !ok || model.choice == nil {
		return notion.Database{}, ErrAborted
	}
	return *model.choice, nil
}
