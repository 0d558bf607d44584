package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/contract-transcode/config"
	"github.com/wippyai/contract-transcode/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	dataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD580"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// printer writes command results as JSON or as aligned text, styled when
// the destination is a terminal.
type printer struct {
	w      io.Writer
	json   bool
	styled bool
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{
		w:      w,
		json:   format == config.OutputJSON,
		styled: format == config.OutputPretty && isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// emit writes v as indented JSON in json mode and calls pretty otherwise.
func (p *printer) emit(v any, pretty func(b *strings.Builder)) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	var b strings.Builder
	pretty(&b)
	_, err := io.WriteString(p.w, b.String())
	return err
}

// field writes an aligned "name  value" line.
func (p *printer) field(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "%s %s\n", p.style(dimStyle, fmt.Sprintf("%-10s", name)), value)
}

// jsonValue marshals a value in the literal package's JSON form.
type jsonValue struct {
	v value.Value
}

func (j jsonValue) MarshalJSON() ([]byte, error) {
	return value.MarshalJSON(j.v)
}

// jsonFields marshals fields as an object in field order.
type jsonFields []value.Field

func (f jsonFields) MarshalJSON() ([]byte, error) {
	return value.MarshalJSON(value.NewComposite("", f...))
}
