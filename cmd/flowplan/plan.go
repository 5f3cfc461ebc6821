package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

var (
	planWorkflow    string
	planTitle       string
	planGranularity string
	planFormat      string
	planNoOracle    bool
)

var planCmd = &cobra.Command{
	Use:   "plan [text]",
	Short: "Plan the agents and human roles for a workflow",
	Long: `Plan the roster of agents and human roles for a workflow and assign
every task to one owner.

The workflow comes from --workflow (JSON or YAML, either a bare workflow
or the output of "flowplan decompose --format json|yaml"), or is
decomposed first from the text arguments.

Examples:
  flowplan plan "Draft the newsletter. Approve it. Publish it."
  flowplan decompose -o yaml "..." > wf.yaml && flowplan plan --workflow wf.yaml`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planWorkflow, "workflow", "", "Workflow file (.json, .yaml or .yml)")
	planCmd.Flags().StringVar(&planTitle, "title", "", "Workflow title when decomposing text")
	planCmd.Flags().StringVarP(&planGranularity, "granularity", "g", "", "low, medium or high when decomposing text")
	planCmd.Flags().StringVarP(&planFormat, "format", "o", formatText, "Output format: text, json, yaml")
	planCmd.Flags().BoolVar(&planNoOracle, "no-oracle", false, "Use heuristics only")
}

func runPlan(cmd *cobra.Command, args []string) error {
	if err := checkFormat(planFormat, formatText, formatJSON, formatYAML); err != nil {
		return err
	}
	if (planWorkflow == "") == (len(args) == 0) {
		return errors.New("provide either a description as arguments or --workflow")
	}

	svc, err := newService(cfg, logger, serviceOptions{noOracle: planNoOracle})
	if err != nil {
		return err
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	var wf models.Workflow
	if planWorkflow != "" {
		if wf, err = loadWorkflow(planWorkflow); err != nil {
			return err
		}
	} else {
		resp, err := svc.Decompose(ctx, models.DecomposeRequest{
			Text:        strings.Join(args, " "),
			Title:       planTitle,
			Granularity: models.Granularity(planGranularity),
		})
		if err != nil {
			return err
		}
		wf = resp.Workflow
	}

	resp, err := svc.Plan(ctx, models.PlanRequest{Workflow: wf})
	if err != nil {
		return err
	}
	return writePlan(cmd.OutOrStdout(), resp, planFormat)
}

// workflowFile accepts a decompose envelope as well as a bare workflow.
type workflowFile struct {
	Workflow *models.Workflow `json:"workflow" yaml:"workflow"`
}

// loadWorkflow reads a workflow file, choosing the decoder by extension.
func loadWorkflow(path string) (models.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Workflow{}, fmt.Errorf("reading %s: %w", path, err)
	}

	unmarshal := json.Unmarshal
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	case ".json":
	default:
		return models.Workflow{}, fmt.Errorf("%s: workflow files must be .json, .yaml or .yml", path)
	}

	var env workflowFile
	if err := unmarshal(data, &env); err != nil {
		return models.Workflow{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if env.Workflow != nil {
		return *env.Workflow, nil
	}

	var wf models.Workflow
	if err := unmarshal(data, &wf); err != nil {
		return models.Workflow{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return wf, nil
}
