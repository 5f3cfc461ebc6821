package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

// Output formats.
const (
	formatText    = "text"
	formatJSON    = "json"
	formatYAML    = "yaml"
	formatMermaid = "mermaid"
)

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q: must be one of %s", format, strings.Join(allowed, ", "))
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	idStyle    = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	agentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).PaddingRight(2)
	humanStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).PaddingRight(2)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeDecompose(w io.Writer, resp models.DecomposeResponse, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, resp)
	case formatYAML:
		return writeYAML(w, resp)
	case formatMermaid:
		_, err := io.WriteString(w, resp.Mermaid)
		return err
	default:
		return writeWorkflowText(w, resp)
	}
}

func writePlan(w io.Writer, resp models.PlanResponse, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, resp)
	case formatYAML:
		return writeYAML(w, resp)
	default:
		return writePlanText(w, resp)
	}
}

func actorCell(a models.Actor) string {
	if a == models.ActorHuman {
		return humanStyle.Render(string(a))
	}
	return agentStyle.Render(string(a))
}

func writeWorkflowText(w io.Writer, resp models.DecomposeResponse) error {
	wf := resp.Workflow
	var b strings.Builder

	fmt.Fprintln(&b, titleStyle.Render(wf.Title))
	fmt.Fprintln(&b, dimStyle.Render(fmt.Sprintf("version %s, %d tasks", wf.Version, len(wf.Tasks))))
	fmt.Fprintln(&b)

	for _, t := range wf.Tasks {
		line := idStyle.Render(t.ID) + actorCell(t.Actor) + t.Title
		if len(t.DependsOn) > 0 {
			line += dimStyle.Render("  after " + strings.Join(t.DependsOn, ", "))
		}
		fmt.Fprintln(&b, line)
		if len(t.Outputs) > 0 {
			fmt.Fprintln(&b, dimStyle.Render("       produces "+strings.Join(t.Outputs, ", ")))
		}
	}

	if len(resp.TopoOrder) > 0 {
		fmt.Fprintln(&b, headStyle.Render("Order"))
		fmt.Fprintln(&b, strings.Join(resp.TopoOrder, " -> "))
	}
	if len(wf.Assumptions) > 0 {
		fmt.Fprintln(&b, headStyle.Render("Assumptions"))
		for _, a := range wf.Assumptions {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	writeDiagnostics(w, resp.Engine, resp.Issues, resp.OracleError)
	return nil
}

func writePlanText(w io.Writer, resp models.PlanResponse) error {
	var b strings.Builder

	fmt.Fprintln(&b, titleStyle.Render("Agents"))
	for _, a := range resp.Agents {
		fmt.Fprintf(&b, "%s%s\n", idStyle.Render(a.ID), a.Name)
		if len(a.Tools) > 0 {
			fmt.Fprintln(&b, dimStyle.Render("     tools "+strings.Join(a.Tools, ", ")))
		}
	}
	fmt.Fprintln(&b, headStyle.Render("Humans"))
	for _, h := range resp.Humans {
		fmt.Fprintf(&b, "%s%s\n", idStyle.Render(h.ID), h.Name)
	}
	fmt.Fprintln(&b, headStyle.Render("Assignments"))
	for _, a := range resp.Assignments {
		fmt.Fprintf(&b, "%s-> %s  %s\n", idStyle.Render(a.TaskID), a.OwnerID, dimStyle.Render(a.Instructions))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	writeDiagnostics(w, resp.Engine, nil, resp.OracleError)
	return nil
}

// writeDiagnostics prints the engine line, structural issues and any
// oracle error.
func writeDiagnostics(w io.Writer, engine models.Engine, issues []string, oracleErr string) {
	fmt.Fprintln(w)
	printStatus(w, "●", "engine: "+string(engine), color.FgCyan)
	for _, issue := range issues {
		printStatus(w, "⚠", issue, color.FgYellow)
	}
	if oracleErr != "" {
		printStatus(w, "✗", "oracle: "+oracleErr, color.FgRed)
	}
}

// printStatus prints a status line with color
func printStatus(w io.Writer, symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Fprintf(w, "%s %s\n", c.Sprint(symbol), message)
}
