package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/flowplan/internal/pipeline"
	"github.com/ShayCichocki/flowplan/pkg/models"
)

var (
	decomposeFile        string
	decomposeTitle       string
	decomposeGranularity string
	decomposeFormat      string
	decomposeDirection   string
	decomposeNoOracle    bool
	decomposeWatch       bool
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose [text]",
	Short: "Decompose a process description into a task graph",
	Long: `Decompose a free-text process description into a workflow of tasks.

The description comes from the arguments, from --file, or from stdin when
--file is "-". Output is a readable summary by default; --format selects
json, yaml or the Mermaid diagram alone.

Examples:
  flowplan decompose "Collect invoices. Review them; then publish the report."
  flowplan decompose --file process.txt --granularity high --format json
  flowplan decompose --file process.txt --watch --format mermaid`,
	RunE: runDecompose,
}

func init() {
	decomposeCmd.Flags().StringVarP(&decomposeFile, "file", "f", "", "Read the description from a file (- for stdin)")
	decomposeCmd.Flags().StringVar(&decomposeTitle, "title", "", "Workflow title")
	decomposeCmd.Flags().StringVarP(&decomposeGranularity, "granularity", "g", "", "low, medium or high (default from config)")
	decomposeCmd.Flags().StringVarP(&decomposeFormat, "format", "o", formatText, "Output format: text, json, yaml, mermaid")
	decomposeCmd.Flags().StringVar(&decomposeDirection, "direction", "", "Mermaid direction: TD or LR (default from config)")
	decomposeCmd.Flags().BoolVar(&decomposeNoOracle, "no-oracle", false, "Use heuristics only")
	decomposeCmd.Flags().BoolVarP(&decomposeWatch, "watch", "w", false, "Re-run whenever --file changes")
}

func runDecompose(cmd *cobra.Command, args []string) error {
	if err := checkFormat(decomposeFormat, formatText, formatJSON, formatYAML, formatMermaid); err != nil {
		return err
	}
	if decomposeWatch && (decomposeFile == "" || decomposeFile == "-") {
		return errors.New("--watch requires --file with a path")
	}

	svc, err := newService(cfg, logger, serviceOptions{noOracle: decomposeNoOracle, direction: decomposeDirection})
	if err != nil {
		return err
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	out := cmd.OutOrStdout()
	once := func() error {
		text, err := readDescription(args, decomposeFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return decomposeOnce(ctx, svc, out, text)
	}

	if err := once(); err != nil {
		return err
	}
	if !decomposeWatch {
		return nil
	}

	printStatus(cmd.ErrOrStderr(), "●", "watching "+decomposeFile+" (Ctrl-C to stop)", color.FgCyan)
	return watchFile(ctx, decomposeFile, func() error {
		fmt.Fprintln(out)
		return once()
	}, logger)
}

func decomposeOnce(ctx context.Context, svc *pipeline.Service, out io.Writer, text string) error {
	resp, err := svc.Decompose(ctx, models.DecomposeRequest{
		Text:        text,
		Title:       decomposeTitle,
		Granularity: models.Granularity(decomposeGranularity),
	})
	if err != nil {
		return err
	}
	return writeDecompose(out, resp, decomposeFormat)
}

// readDescription takes the text from args, or from file when set.
func readDescription(args []string, file string, stdin io.Reader) (string, error) {
	switch {
	case file == "" && len(args) == 0:
		return "", errors.New("provide a description as arguments or with --file")
	case file == "":
		return strings.Join(args, " "), nil
	case len(args) > 0:
		return "", errors.New("use either arguments or --file, not both")
	case file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}
}
