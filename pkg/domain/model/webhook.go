package model

import "time"

// WebhookEvent represents a webhook delivery received from GitHub
type WebhookEvent struct {
	ID         string    // Retrieved from X-GitHub-Delivery header
	Kind       EventKind // Derived from X-GitHub-Event header
	Action     string    // Event action (pull_request only)
	Ref        string    // Pushed ref, or PR head ref
	CommitSHA  string    // Revision to fetch for the run
	Owner      string    // Repository owner
	Repo       string    // Repository name
	Sender     string    // Sender username
	ReceivedAt time.Time // Time when the delivery was received
}

// IsSupportedEvent checks if the event starts a pipeline run
func (e *WebhookEvent) IsSupportedEvent() bool {
	switch e.Kind {
	case EventPush:
		return e.Ref != "" && e.CommitSHA != ""
	case EventPullRequest:
		switch e.Action {
		case "opened", "synchronize", "reopened":
			return e.CommitSHA != ""
		}
		return false
	default:
		return false
	}
}

// Trigger derives the pipeline trigger context from the delivery. A
// pull_request event carries its head ref, which never matches the
// tag-ref prefix gate.
func (e *WebhookEvent) Trigger() TriggerContext {
	return TriggerContext{Event: e.Kind, Ref: e.Ref}
}

// Remote derives the source revision to fetch for the run.
func (e *WebhookEvent) Remote() *RemoteSource {
	return &RemoteSource{Owner: e.Owner, Repo: e.Repo, CommitSHA: e.CommitSHA}
}
