package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptTitleStyle = lipgloss.NewStyle().Bold(true).Margin(1, 2, 0)
	promptInputStyle = lipgloss.NewStyle().Margin(1, 2)
	promptHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Margin(0, 2, 1)
)

type promptModel struct {
	title   string
	input   textinput.Model
	aborted bool
}

func (m promptModel) Init() tea.Cmd { return textinput.Blink }

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	return promptTitleStyle.Render(m.title) + "\n" +
		promptInputStyle.Render(m.input.View()) + "\n" +
		promptHelpStyle.Render("enter to confirm, esc to cancel") + "\n"
}

func runPrompt(m promptModel) (string, error) {
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("run prompt: %w", err)
	}
	result, ok := final.(promptModel)
	if !ok || result.aborted {
		return "", ErrAborted
	}
	return strings.TrimSpace(result.input.Value()), nil
}

// PromptToken asks for an integration token with the input masked. An empty
// confirmation counts as an abort.
func PromptToken() (string, error) {
	input := textinput.New()
	input.Placeholder = "secret_..."
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 200
	input.Width = 50
	input.Focus()

	token, err := runPrompt(promptModel{
		title: "Paste your Notion integration token",
		input: input,
	})
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrAborted
	}
	return token, nil
}

// PromptFilename asks where to write the document, falling back to the
// suggested name when the user just presses enter.
func PromptFilename(suggested string) (string, error) {
	input := textinput.New()
	input.Placeholder = suggested
	input.CharLimit = 200
	input.Width = 50
	input.Focus()

	name, err := runPrompt(promptModel{
		title: "Output file",
		input: input,
	})
	if err != nil {
		return "", err
	}
	if name == "" {
		return suggested, nil
	}
	return name, nil
}
