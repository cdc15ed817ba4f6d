package tui

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mark3labs/stylewiz/internal/generator"
	"github.com/mark3labs/stylewiz/internal/tui/theme"
	"github.com/mark3labs/stylewiz/internal/wizard"
)

const (
	fieldModel = iota
	fieldTemperature
	fieldMaxTokens
	fieldCount
)

var configLabels = [fieldCount]string{"Model", "Temperature", "Max tokens"}

// ConfigStep collects the model settings.
type ConfigStep struct {
	inputs [fieldCount]textinput.Model
	focus  int
	width  int
	height int
	err    string
}

// NewConfigStep creates the config step prefilled with model.
func NewConfigStep(model generator.ModelConfig) *ConfigStep {
	s := &ConfigStep{}

	placeholders := [fieldCount]string{"e.g. gpt-4o-mini or llama3.1", "optional, 0-2", "optional"}
	for i := range s.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 100
		ti.SetWidth(50)
		s.inputs[i] = ti
	}
	s.inputs[fieldModel].SetValue(model.ID)
	if model.Temperature != 0 {
		s.inputs[fieldTemperature].SetValue(strconv.FormatFloat(model.Temperature, 'f', -1, 64))
	}
	if model.MaxTokens != 0 {
		s.inputs[fieldMaxTokens].SetValue(strconv.Itoa(model.MaxTokens))
	}
	s.inputs[fieldModel].Focus()
	return s
}

// parseModel validates the inputs and builds the model config.
func parseModel(id, temperature, maxTokens string) (generator.ModelConfig, error) {
	m := generator.ModelConfig{ID: strings.TrimSpace(id)}
	if m.ID == "" {
		return m, fmt.Errorf("model cannot be empty")
	}

	if t := strings.TrimSpace(temperature); t != "" {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil || v < 0 || v > 2 {
			return m, fmt.Errorf("temperature must be a number between 0 and 2")
		}
		m.Temperature = v
	}

	if n := strings.TrimSpace(maxTokens); n != "" {
		v, err := strconv.Atoi(n)
		if err != nil || v < 0 {
			return m, fmt.Errorf("max tokens must be a positive integer")
		}
		m.MaxTokens = v
	}
	return m, nil
}

// Init initializes the config step.
func (s *ConfigStep) Init() tea.Cmd {
	return s.inputs[s.focus].Focus()
}

// Update handles messages for the config step.
func (s *ConfigStep) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "enter":
			return s.Submit()
		case "tab", "down":
			s.setFocus((s.focus + 1) % fieldCount)
			return nil
		case "shift+tab", "up":
			s.setFocus((s.focus + fieldCount - 1) % fieldCount)
			return nil
		default:
			s.err = ""
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return cmd
}

func (s *ConfigStep) setFocus(i int) {
	s.inputs[s.focus].Blur()
	s.focus = i
	s.inputs[s.focus].Focus()
}

// Submit validates the inputs and sends the config output.
func (s *ConfigStep) Submit() tea.Cmd {
	model, err := parseModel(
		s.inputs[fieldModel].Value(),
		s.inputs[fieldTemperature].Value(),
		s.inputs[fieldMaxTokens].Value(),
	)
	if err != nil {
		s.err = err.Error()
		return nil
	}
	s.err = ""
	return func() tea.Msg {
		return NextMsg{Output: wizard.ConfigOutput{Model: model}}
	}
}

// View renders the config step.
func (s *ConfigStep) View() string {
	st := theme.Current().S()

	parts := []string{st.Text.Render("Choose the model that will write the style analysis:"), ""}
	for i, in := range s.inputs {
		box := st.Input
		if i == s.focus {
			box = st.InputActive
		}
		parts = append(parts, st.Label.Render(configLabels[i]), box.Render(in.View()))
	}

	if s.err != "" {
		parts = append(parts, st.Error.Render("✗ "+s.err))
	}
	parts = append(parts, "", renderHintBar("tab", "next field", "enter", "continue", "esc", "quit"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetSize updates the size of the config step.
func (s *ConfigStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	for i := range s.inputs {
		s.inputs[i].SetWidth(max(width-6, 10))
	}
}
