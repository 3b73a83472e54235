package slacknotify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ferryman/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

type notifier struct {
	client  *slack.Client
	channel string
}

// NewNotifier creates a Slack notifier posting run results to the given
// channel.
func NewNotifier(token, channel string) *notifier {
	return &notifier{
		client:  slack.New(token),
		channel: channel,
	}
}

// NotifyRunResult posts a one-line summary of a finished run.
func (n *notifier) NotifyRunResult(ctx context.Context, report *model.RunReport) error {
	text := formatResult(report)
	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post run result to Slack",
			goerr.V("channel", n.channel),
			goerr.V("run_id", report.ID),
		)
	}
	return nil
}

func formatResult(report *model.RunReport) string {
	switch {
	case !report.Succeeded():
		return fmt.Sprintf(":x: release pipeline failed for %s (%s %s): step %s: %s",
			report.Project, report.Trigger.Event, report.Trigger.Ref,
			report.FailedStep, report.Error)
	case report.Published:
		return fmt.Sprintf(":rocket: %s published %d artifact(s) for %s",
			report.Project, len(report.Artifacts), report.Trigger.Ref)
	default:
		return fmt.Sprintf(":white_check_mark: release pipeline succeeded for %s (%s %s), publish skipped",
			report.Project, report.Trigger.Event, report.Trigger.Ref)
	}
}
