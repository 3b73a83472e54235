package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/ferryman/pkg/domain/model"
)

var (
	stepOK      = color.New(color.FgGreen).SprintFunc()
	stepNG      = color.New(color.FgRed).SprintFunc()
	stepSkip    = color.New(color.FgYellow).SprintFunc()
	summaryBold = color.New(color.Bold).SprintFunc()
)

// display renders a finished run report for the terminal.
type display struct {
	w io.Writer
}

func newDisplay(w io.Writer) *display {
	return &display{w: w}
}

func (d *display) Render(report *model.RunReport) {
	fmt.Fprintf(d.w, "%s %s (%s %s)\n",
		summaryBold("Pipeline run"), report.ID, report.Trigger.Event, report.Trigger.Ref)

	for _, step := range report.Steps {
		switch step.Status {
		case model.StepSucceeded:
			fmt.Fprintf(d.w, "  %s %-13s %s\n", stepOK("✓"), step.Name, formatDuration(step.Duration))
		case model.StepSkipped:
			fmt.Fprintf(d.w, "  %s %-13s skipped\n", stepSkip("-"), step.Name)
		case model.StepFailed:
			fmt.Fprintf(d.w, "  %s %-13s %s\n", stepNG("✗"), step.Name, formatDuration(step.Duration))
			if tail := strings.TrimSpace(step.OutputTail); tail != "" {
				for _, line := range strings.Split(tail, "\n") {
					fmt.Fprintf(d.w, "      %s\n", line)
				}
			}
		}
	}

	for _, artifact := range report.Artifacts {
		fmt.Fprintf(d.w, "  %s %s (%s, %d bytes)\n", stepOK("•"), artifact.Name, artifact.Kind, artifact.Size)
	}

	switch {
	case !report.Succeeded():
		fmt.Fprintf(d.w, "%s at step %s: %s\n", stepNG("FAILED"), report.FailedStep, report.Error)
	case report.Published:
		fmt.Fprintf(d.w, "%s published %d artifact(s)\n", stepOK("OK"), len(report.Artifacts))
	default:
		fmt.Fprintf(d.w, "%s publish skipped\n", stepOK("OK"))
	}
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
