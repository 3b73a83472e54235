package slacknotify

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ferryman/pkg/domain/model"
)

func TestFormatResult(t *testing.T) {
	t.Run("failed run names the step", func(t *testing.T) {
		report := model.NewRunReport("haoda", model.TriggerContext{
			Event: model.EventPush,
			Ref:   "refs/heads/main",
		})
		report.Fail(model.StepTest, nil)
		report.Error = "exit status 1"

		text := formatResult(report)
		gt.String(t, text).Contains("failed")
		gt.String(t, text).Contains("test")
	})

	t.Run("published run counts artifacts", func(t *testing.T) {
		report := model.NewRunReport("haoda", model.TriggerContext{
			Event: model.EventPush,
			Ref:   "refs/tags/v1.0.0",
		})
		report.Artifacts = []model.Artifact{
			{Kind: model.ArtifactSdist}, {Kind: model.ArtifactWheel},
		}
		report.Published = true
		report.Complete()

		text := formatResult(report)
		gt.String(t, text).Contains("published 2 artifact(s)")
		gt.String(t, text).Contains("refs/tags/v1.0.0")
	})

	t.Run("unpublished success says skipped", func(t *testing.T) {
		report := model.NewRunReport("haoda", model.TriggerContext{
			Event: model.EventPullRequest,
			Ref:   "refs/heads/feature",
		})
		report.Complete()

		gt.String(t, formatResult(report)).Contains("publish skipped")
	})
}
