package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Printer writes command results in the selected output format.
type Printer struct {
	Out    io.Writer
	Format string
	// Plain disables markdown rendering of generated text.
	Plain bool
}

func New(out io.Writer, format string) *Printer {
	return &Printer{Out: out, Format: format}
}

// ValidFormat reports whether format is one of human, json or yaml.
func ValidFormat(format string) bool {
	switch format {
	case FormatHuman, FormatJSON, FormatYAML, "":
		return true
	}
	return false
}

// display writes v as JSON or YAML, or calls human for the human format.
func (p *Printer) display(v interface{}, human func()) error {
	switch p.Format {
	case FormatJSON:
		return p.displayJSON(v)
	case FormatYAML:
		return p.displayYAML(v)
	case FormatHuman:
		fallthrough
	default:
		human()
	}
	return nil
}

func (p *Printer) displayJSON(v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(p.Out, string(output))
	return nil
}

func (p *Printer) displayYAML(v interface{}) error {
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprint(p.Out, string(output))
	return nil
}

var (
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	green  = color.New(color.FgGreen, color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
	white  = color.New(color.FgWhite, color.Bold)
)

func (p *Printer) footer() {
	fmt.Fprintln(p.Out, strings.Repeat("─", 80))
	fmt.Fprintf(p.Out, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

// markdown renders generated text for the terminal, falling back to wrapped
// plain text.
func (p *Printer) markdown(text string) string {
	if p.Plain || color.NoColor {
		return wrapText(text, 80, "   ")
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return wrapText(text, 80, "   ")
	}
	out, err := renderer.Render(text)
	if err != nil {
		return wrapText(text, 80, "   ")
	}
	return strings.TrimRight(out, "\n")
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
