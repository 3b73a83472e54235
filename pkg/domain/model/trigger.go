package model

import "strings"

// EventKind represents the kind of event that triggered a pipeline run
type EventKind string

const (
	EventPush        EventKind = "push"
	EventPullRequest EventKind = "pull_request"
	EventUnknown     EventKind = "unknown"
)

// DefaultTagRefPrefix marks refs that represent version tags rather than
// branches.
const DefaultTagRefPrefix = "refs/tags/"

// TriggerContext is the trigger metadata of a single pipeline run: the
// event kind and, for push events, the ref that was pushed. It is consumed
// exactly once, by the publish gate.
type TriggerContext struct {
	Event EventKind `json:"event" firestore:"event"`
	Ref   string    `json:"ref" firestore:"ref"`
}

// ShouldPublish reports whether the publish step runs for this trigger.
// The gate is a pure function: the event must be a push and the ref must
// start with the tag-ref prefix. Every other combination skips publishing
// without failing the run.
func (t TriggerContext) ShouldPublish(tagRefPrefix string) bool {
	if tagRefPrefix == "" {
		tagRefPrefix = DefaultTagRefPrefix
	}
	return t.Event == EventPush && strings.HasPrefix(t.Ref, tagRefPrefix)
}

// TagName returns the tag portion of the ref, or an empty string when the
// ref is not a tag ref.
func (t TriggerContext) TagName(tagRefPrefix string) string {
	if tagRefPrefix == "" {
		tagRefPrefix = DefaultTagRefPrefix
	}
	if !strings.HasPrefix(t.Ref, tagRefPrefix) {
		return ""
	}
	return t.Ref[len(tagRefPrefix):]
}
