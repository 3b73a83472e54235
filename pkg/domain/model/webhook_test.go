package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ferryman/pkg/domain/model"
)

func TestWebhookEvent_IsSupportedEvent(t *testing.T) {
	tests := []struct {
		name  string
		event model.WebhookEvent
		want  bool
	}{
		{
			name: "push with ref and commit",
			event: model.WebhookEvent{
				Kind: model.EventPush, Ref: "refs/heads/main", CommitSHA: "abc",
			},
			want: true,
		},
		{
			name: "push without commit",
			event: model.WebhookEvent{
				Kind: model.EventPush, Ref: "refs/heads/main",
			},
			want: false,
		},
		{
			name: "pull_request opened",
			event: model.WebhookEvent{
				Kind: model.EventPullRequest, Action: "opened", CommitSHA: "abc",
			},
			want: true,
		},
		{
			name: "pull_request synchronize",
			event: model.WebhookEvent{
				Kind: model.EventPullRequest, Action: "synchronize", CommitSHA: "abc",
			},
			want: true,
		},
		{
			name: "pull_request closed",
			event: model.WebhookEvent{
				Kind: model.EventPullRequest, Action: "closed", CommitSHA: "abc",
			},
			want: false,
		},
		{
			name:  "unknown kind",
			event: model.WebhookEvent{Kind: model.EventUnknown},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.event.IsSupportedEvent()).Equal(tt.want)
		})
	}
}

func TestWebhookEvent_Trigger(t *testing.T) {
	event := model.WebhookEvent{
		Kind:      model.EventPush,
		Ref:       "refs/tags/v1.0.0",
		CommitSHA: "abc123",
		Owner:     "owner",
		Repo:      "haoda",
	}

	trigger := event.Trigger()
	gt.Value(t, trigger.Event).Equal(model.EventPush)
	gt.Value(t, trigger.Ref).Equal("refs/tags/v1.0.0")
	gt.Value(t, trigger.ShouldPublish("")).Equal(true)

	remote := event.Remote()
	gt.Value(t, remote.Owner).Equal("owner")
	gt.Value(t, remote.Repo).Equal("haoda")
	gt.Value(t, remote.CommitSHA).Equal("abc123")
}
