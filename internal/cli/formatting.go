package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/types"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"})
)

// isTerminal reports whether stdout is an interactive terminal
func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	if !isTerminal() {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// formatUpper returns the string in uppercase
func formatUpper(s string) string {
	return strings.ToUpper(s)
}

// formatBoldUpper returns the string in uppercase and bold
func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// initTemplateFormatting adds custom formatting functions to Cobra templates
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     formatUpper,
		"boldUpper": formatBoldUpper,
	})
}

// actionStyle colours a provisioning action on a terminal
func actionStyle(action string) string {
	if !isTerminal() {
		return action
	}
	switch action {
	case "skipped":
		return pterm.FgGray.Sprint(action)
	case "extracted", "copied", "created":
		return pterm.FgGreen.Sprint(action)
	default:
		return action
	}
}

// stepDetail describes what a provisioning step moved
func stepDetail(step types.ProvisionStep) string {
	switch {
	case step.Entries > 0:
		return fmt.Sprintf(" (%d entries, %s)", step.Entries, humanize.Bytes(uint64(step.Bytes)))
	case step.Bytes > 0:
		return fmt.Sprintf(" (%s)", humanize.Bytes(uint64(step.Bytes)))
	default:
		return ""
	}
}

func printCreated(w io.Writer, created []string) {
	for _, p := range created {
		fmt.Fprintf(w, MsgCreatedItem, p)
	}
}

func printSteps(w io.Writer, result *types.ProvisionResult) {
	for _, step := range result.Steps {
		// pad before colouring so escape codes do not break alignment
		action := fmt.Sprintf("%-9s", step.Action)
		fmt.Fprintf(w, MsgStepItem, actionStyle(action), step.Path, stepDetail(step))
	}
}

// FormatError renders err for stderr, followed by its details in key order
func FormatError(err error) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
	b.WriteString("\n")

	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(mutedStyle.Render(strings.TrimRight(fmt.Sprintf(MsgErrDetail, k, details[k]), "\n")))
		b.WriteString("\n")
	}
	return b.String()
}
