// Package output provides rendering for CLI command results.
//
// Output adapts to the environment: styled text on a terminal, markdown when
// piped (agent-friendly), or JSON when requested explicitly. Commands obtain
// a Renderer from the command context and never write to stdout directly.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
)

// OutputMode selects how command results are rendered.
type OutputMode string

const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode normalizes a mode string from config or flags. Unknown values fall
// back to auto.
func Mode(s string) OutputMode {
	switch OutputMode(strings.ToLower(s)) {
	case ModeText:
		return ModeText
	case ModeMarkdown:
		return ModeMarkdown
	case ModeJSON:
		return ModeJSON
	default:
		return ModeAuto
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles Styles
}

// NewRenderer creates a renderer, detecting TTY state from the output writer.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = termenv.NewOutput(f).EnvColorProfile() != termenv.Ascii &&
			isTerminal(f)
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state. Used in
// tests to exercise both styled and plain output paths.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	styled := isTTY && (mode == ModeAuto || mode == ModeText)
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: NewStyles(styled),
	}
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// EffectiveMode resolves ModeAuto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether the output is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the underlying output writer, for encoders that stream
// directly (JSON output, exports).
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the underlying error writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the active style set.
func (r *Renderer) Styles() Styles { return r.styles }

// Println writes a line to the output writer.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted output to the output writer.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Header writes a section header at the given level.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		return
	}
	r.Println(r.styles.Header.Render(text))
}

// Success writes a success line.
func (r *Renderer) Success(text string) {
	r.Println(r.styles.Success.Render("✓ " + text))
}

// Warning writes a warning line to the error writer.
func (r *Renderer) Warning(text string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("! "+text))
}

// Error writes an error line to the error writer.
func (r *Renderer) Error(text string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("✗ "+text))
}

// StatusLine writes a one-line item status, e.g. a created file or a class
// in a listing.
func (r *Renderer) StatusLine(name, status, detail string) {
	marker := "•"
	style := r.styles.Muted
	switch status {
	case "success":
		marker = "✓"
		style = r.styles.Success
	case "error":
		marker = "✗"
		style = r.styles.Error
	}
	line := fmt.Sprintf("  %s %s", style.Render(marker), name)
	if detail != "" {
		line += " " + r.styles.Muted.Render(detail)
	}
	r.Println(line)
}

// Table renders a table of rows. Text mode gets a styled terminal table,
// markdown mode a pipe table.
func (r *Renderer) Table(headers []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	headerRow := make(table.Row, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// --- markdown formatting helpers ---

// FormatHeader formats a markdown header at the given level.
func FormatHeader(level int, text string) string {
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue formats a markdown key-value bullet.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s**: %s", key, value)
}

// FormatCodeBlock formats a fenced markdown code block.
func FormatCodeBlock(lang, code string) string {
	return "```" + lang + "\n" + strings.TrimRight(code, "\n") + "\n```"
}
