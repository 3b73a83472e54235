package interfaces

import (
	"context"

	"github.com/m-mizutani/ferryman/pkg/domain/model"
)

// PipelineUseCase defines the sequential pipeline execution
type PipelineUseCase interface {
	// Execute runs the pipeline for the given trigger against the given
	// source. The report is returned for failed runs as well, carrying
	// the failing step and its output.
	Execute(ctx context.Context, trigger model.TriggerContext, src model.Source) (*model.RunReport, error)
}

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent validates a webhook event and dispatches a pipeline
	// run for supported events. It returns before the run finishes.
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}
