package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/contract-transcode/contract"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = dimStyle
)

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Pick a call and build its data interactively",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.contract()
			if err != nil {
				return err
			}
			p := tea.NewProgram(newInteractiveModel(c, a.cfg.Metadata), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

type modelState int

const (
	stateSelectCall modelState = iota
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	err      error
	contract *contract.Contract
	filename string
	preview  string
	result   string
	calls    []*contract.CallEntry
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

func newInteractiveModel(c *contract.Contract, filename string) *interactiveModel {
	calls := make([]*contract.CallEntry, 0, len(c.Constructors())+len(c.Messages()))
	calls = append(calls, c.Constructors()...)
	calls = append(calls, c.Messages()...)
	return &interactiveModel{
		contract: c,
		filename: filename,
		calls:    calls,
		state:    stateSelectCall,
	}
}

type encodedMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectCall && m.selected > 0 {
				m.selected--
				return m, nil
			}

		case "down", "j":
			if m.state == stateSelectCall && m.selected < len(m.calls)-1 {
				m.selected++
				return m, nil
			}

		case "enter":
			switch m.state {
			case stateSelectCall:
				if len(m.calls) == 0 {
					return m, nil
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.encodeCall
				}
				m.state = stateInputArgs
				m.updatePreview()
				return m, textinput.Blink

			case stateInputArgs:
				return m, m.encodeCall

			case stateShowResult:
				m.reset()
			}
			return m, nil

		case "tab", "shift+tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				step := 1
				if msg.String() == "shift+tab" {
					step = len(m.inputs) - 1
				}
				m.focusIdx = (m.focusIdx + step) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
				return m, nil
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectCall
				m.inputs = nil
				m.preview = ""
			case stateShowResult:
				m.reset()
			}
			return m, nil
		}

	case encodedMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInputArgs {
		var cmd tea.Cmd
		m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
		m.updatePreview()
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelectCall
	m.inputs = nil
	m.preview = ""
	m.result = ""
	m.err = nil
}

func (m *interactiveModel) prepareInputs() {
	e := m.calls[m.selected]
	reg := m.contract.Registry()
	m.inputs = make([]textinput.Model, len(e.Args))
	for i, p := range e.Args {
		ti := textinput.New()
		ti.Placeholder = reg.TypeName(p.Type)
		ti.Prompt = p.Name + ": "
		ti.Width = 60
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) args() []contract.Arg {
	texts := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		texts[i] = in.Value()
	}
	return contract.Positional(texts...)
}

// encode addresses the entry by selector so overloaded labels resolve to
// the picked entry.
func (m *interactiveModel) encode() (*contract.EncodedCall, error) {
	e := m.calls[m.selected]
	sel := e.Selector.String()
	if e.Kind == contract.CallConstructor {
		return m.contract.EncodeConstructor(sel, m.args()...)
	}
	return m.contract.EncodeMessage(sel, m.args()...)
}

func (m *interactiveModel) updatePreview() {
	for _, in := range m.inputs {
		if strings.TrimSpace(in.Value()) == "" {
			m.preview = ""
			return
		}
	}
	call, err := m.encode()
	if err != nil {
		m.preview = errorStyle.Render(err.Error())
		return
	}
	m.preview = dataStyle.Render("0x" + hex.EncodeToString(call.Data))
}

func (m *interactiveModel) encodeCall() tea.Msg {
	call, err := m.encode()
	if err != nil {
		return encodedMsg{err: err}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(call.Entry.Label), dimStyle.Render(call.Entry.Selector.String()))
	for i, p := range call.Entry.Args {
		fmt.Fprintf(&b, "  %s = %s\n", p.Name, m.contract.Format(p.Type, call.Args[i].Value))
	}
	b.WriteString("\n")
	b.WriteString(resultStyle.Render("0x" + hex.EncodeToString(call.Data)))
	return encodedMsg{result: b.String()}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Transcode"))
	b.WriteString(" ")
	b.WriteString(m.contract.Name())
	b.WriteString(dimStyle.Render(" " + m.filename))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectCall:
		if len(m.calls) == 0 {
			b.WriteString("The contract has no constructors or messages.\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			break
		}
		b.WriteString("Select a call to encode:\n\n")
		for i, e := range m.calls {
			line := m.formatCall(e)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter encode • q quit"))

	case stateInputArgs:
		e := m.calls[m.selected]
		b.WriteString(fmt.Sprintf("Encoding %s %s\n\n", e.Kind, labelStyle.Render(e.Label)))
		for _, in := range m.inputs {
			b.WriteString(in.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.preview != "" {
			b.WriteString(m.preview)
			b.WriteString("\n\n")
		}
		b.WriteString(helpStyle.Render("tab next field • enter encode • esc back"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(m.result)
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatCall(e *contract.CallEntry) string {
	reg := m.contract.Registry()
	params := make([]string, len(e.Args))
	for i, p := range e.Args {
		params[i] = p.Name + ": " + typeStyle.Render(reg.TypeName(p.Type))
	}
	ret := ""
	if e.ReturnType != nil {
		ret = " -> " + typeStyle.Render(reg.TypeName(*e.ReturnType))
	}
	kind := "msg "
	if e.Kind == contract.CallConstructor {
		kind = "new "
	}
	return dimStyle.Render(kind) + labelStyle.Render(e.Label) + "(" + strings.Join(params, ", ") + ")" + ret
}
