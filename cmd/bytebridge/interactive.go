package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/internal/layout"
	"github.com/wippyai/bytebridge/schema"
	"github.com/wippyai/bytebridge/wire"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectType modelState = iota
	stateInputHex
	stateShowResult
)

type inspectModel struct {
	err      error
	schema   *schema.Schema
	widths   *layout.Calculator
	source   string
	result   string
	input    textinput.Model
	format   wire.Format
	selected int
	state    modelState
}

func newInspectModel(s *schema.Schema, source string) *inspectModel {
	return &inspectModel{
		schema: s,
		widths: layout.NewCalculator(s),
		source: source,
		format: wire.FormatFlat,
		state:  stateSelectType,
	}
}

type decodedMsg struct {
	err    error
	result string
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputHex {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectType && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectType && m.selected < len(m.schema.Types)-1 {
				m.selected++
			}

		case "f":
			if m.state == stateSelectType {
				m.toggleFormat()
			}

		case "enter":
			switch m.state {
			case stateSelectType:
				if len(m.schema.Types) == 0 {
					return m, nil
				}
				m.prepareInput()
				m.state = stateInputHex
				return m, textinput.Blink

			case stateInputHex:
				return m, m.decode

			case stateShowResult:
				m.reset()
			}
			return m, nil

		case "esc":
			switch m.state {
			case stateInputHex, stateShowResult:
				m.reset()
			}
			return m, nil
		}

	case decodedMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInputHex {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *inspectModel) toggleFormat() {
	if m.format == wire.FormatFlat {
		m.format = wire.FormatMsgpack
	} else {
		m.format = wire.FormatFlat
	}
}

func (m *inspectModel) reset() {
	m.state = stateSelectType
	m.result = ""
	m.err = nil
}

func (m *inspectModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = "hex bytes, e.g. 01 2a 00"
	ti.Prompt = m.schema.Types[m.selected].Name + ": "
	ti.Width = 60
	ti.CharLimit = 0
	ti.Focus()
	m.input = ti
}

func (m *inspectModel) decode() tea.Msg {
	data, err := parseHex(m.input.Value())
	if err != nil {
		return decodedMsg{err: err}
	}
	td := m.schema.Types[m.selected]
	v, err := decodeValue(m.schema, schema.Named(td.Name), m.format, false, data)
	if err != nil {
		return decodedMsg{err: err}
	}
	var b strings.Builder
	if err := writeYAML(&b, v); err != nil {
		return decodedMsg{err: err}
	}
	return decodedMsg{result: strings.TrimRight(b.String(), "\n")}
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ByteBridge Inspector"))
	b.WriteString(" ")
	b.WriteString(m.source)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectType:
		if len(m.schema.Types) == 0 {
			b.WriteString("No types declared.\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			return b.String()
		}
		fmt.Fprintf(&b, "Select a type to decode (%s):\n\n", m.format)
		for i, td := range m.schema.Types {
			line := m.formatType(td)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • f toggle format • enter decode • q quit"))

	case stateInputHex:
		td := m.schema.Types[m.selected]
		fmt.Fprintf(&b, "Decoding %s as %s\n\n", nameStyle.Render(td.Name), m.format)
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter decode • esc back"))

	case stateShowResult:
		td := m.schema.Types[m.selected]
		fmt.Fprintf(&b, "Decoded %s:\n\n", nameStyle.Render(td.Name))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			if k := errors.KindOf(m.err); k != "" {
				b.WriteString("\n")
				b.WriteString(typeStyle.Render("kind: " + string(k)))
			}
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *inspectModel) formatType(td *schema.TypeDef) string {
	var parts []string
	if td.Kind == schema.DefUnion {
		for _, v := range td.Variants {
			parts = append(parts, v.Name)
		}
	} else {
		for _, f := range td.Fields {
			parts = append(parts, f.Name+": "+typeStyle.Render(f.Type.String()))
		}
	}
	sep := ", "
	if td.Kind == schema.DefUnion {
		sep = " | "
	}
	return fmt.Sprintf("%s %s(%s) %s",
		td.Kind, nameStyle.Render(td.Name), strings.Join(parts, sep),
		helpStyle.Render(fmt.Sprintf("min %dB", m.widths.MinWidth(schema.Named(td.Name)))))
}

func runInteractive(s *schema.Schema, source string) error {
	p := tea.NewProgram(newInspectModel(s, source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
