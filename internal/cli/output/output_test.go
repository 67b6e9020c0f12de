package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"text", ModeText},
		{"MARKDOWN", ModeMarkdown},
		{"json", ModeJSON},
		{"auto", ModeAuto},
		{"", ModeAuto},
		{"nonsense", ModeAuto},
	}
	for _, tt := range tests {
		if got := Mode(tt.in); got != tt.want {
			t.Errorf("Mode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEffectiveMode(t *testing.T) {
	var out, errOut bytes.Buffer

	r := NewRendererWithTTY(&out, &errOut, true, ModeAuto)
	if got := r.EffectiveMode(); got != ModeText {
		t.Errorf("TTY auto mode = %q, want text", got)
	}

	r = NewRendererWithTTY(&out, &errOut, false, ModeAuto)
	if got := r.EffectiveMode(); got != ModeMarkdown {
		t.Errorf("non-TTY auto mode = %q, want markdown", got)
	}

	r = NewRendererWithTTY(&out, &errOut, false, ModeJSON)
	if got := r.EffectiveMode(); got != ModeJSON {
		t.Errorf("explicit json mode = %q, want json", got)
	}
}

func TestRenderer_PlainOutputHasNoANSI(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeMarkdown)

	r.Header(1, "Classes")
	r.Success("saved")
	r.Error("broken")
	r.StatusLine("Shape", "success", "3 fields")

	combined := out.String() + errOut.String()
	if strings.Contains(combined, "\x1b[") {
		t.Errorf("plain output contains ANSI escapes: %q", combined)
	}
	if !strings.Contains(out.String(), "# Classes") {
		t.Errorf("markdown header missing: %q", out.String())
	}
}

func TestRenderer_Table(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeMarkdown)

	r.Table([]string{"Name", "Fields"}, [][]string{
		{"Shape", "2"},
		{"Circle", "0"},
	})

	text := out.String()
	if !strings.Contains(text, "Shape") || !strings.Contains(text, "|") {
		t.Errorf("markdown table missing content: %q", text)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatHeader(2, "Shape"); got != "## Shape" {
		t.Errorf("FormatHeader = %q", got)
	}
	if got := FormatKeyValue("Fields", "2"); got != "- **Fields**: 2" {
		t.Errorf("FormatKeyValue = %q", got)
	}
	code := FormatCodeBlock("mermaid", "classDiagram\n")
	if !strings.HasPrefix(code, "```mermaid\n") || !strings.HasSuffix(code, "\n```") {
		t.Errorf("FormatCodeBlock = %q", code)
	}
}
