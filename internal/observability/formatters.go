// Package observability provides logging setup and formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-chat/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the interactive chat
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		runes := []rune(line)
		if len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMessage prints one transcript entry.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMessage(msg types.ChatMessage) {
	speaker := "Assistant"
	if msg.Role == types.RoleUser {
		speaker = "You"
	}
	fmt.Fprintf(p.out, "%s: %s\n", speaker, msg.Content)
}

// PrintTranscript prints every message in order.
func (p *Printer) PrintTranscript(messages []types.ChatMessage) {
	for _, msg := range messages {
		p.PrintMessage(msg)
	}
}

// PrintResume outputs a human-readable summary of the current document.
func (p *Printer) PrintResume(doc *types.ResumeDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder

	name := doc.FullName()
	if name == "" {
		name = "(no name yet)"
	}
	sb.WriteString(fmt.Sprintf("Name:      %s\n", name))
	if doc.PersonalInfo.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:     %s\n", doc.PersonalInfo.Title))
	}
	if doc.PersonalInfo.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:     %s\n", doc.PersonalInfo.Email))
	}
	sb.WriteString(fmt.Sprintf("Template:  %s\n", doc.TemplateID))
	sb.WriteString(fmt.Sprintf("Theme:     %s, %s, %s text, %s spacing\n",
		doc.Theme.PrimaryColor, doc.Theme.FontFamily, doc.Theme.FontSize, doc.Theme.DocumentSpacing))

	if len(doc.WorkExperience) > 0 {
		sb.WriteString("\nExperience:\n")
		count := min(len(doc.WorkExperience), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := doc.WorkExperience[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s", exp.Position, exp.Company))
			if exp.StartDate != "" || exp.EndDate != "" {
				sb.WriteString(fmt.Sprintf(" (%s - %s)", exp.StartDate, exp.EndDate))
			}
			sb.WriteString("\n")
		}
		if len(doc.WorkExperience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.WorkExperience)-maxItemsToShow))
		}
	}

	if len(doc.Education) > 0 {
		sb.WriteString("\nEducation:\n")
		for _, edu := range doc.Education {
			sb.WriteString(fmt.Sprintf("  • %s, %s\n", edu.Degree, edu.Institution))
		}
	}

	if len(doc.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkills: %s\n", strings.Join(doc.Skills, ", ")))
	}

	for _, section := range doc.CustomSections {
		mode := section.LayoutMode
		if mode == "" {
			mode = types.LayoutList
		}
		sb.WriteString(fmt.Sprintf("\n%s [%s]: %d items\n", section.SectionTitle, mode, len(section.Items)))
	}

	if doc.PersonalInfo.ImageURL != "" {
		sb.WriteString("\nProfile picture: set\n")
	}

	p.printBox("CURRENT RESUME", strings.TrimSuffix(sb.String(), "\n"))
}
