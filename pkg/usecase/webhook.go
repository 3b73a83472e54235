package usecase

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ferryman/pkg/domain/interfaces"
	"github.com/m-mizutani/ferryman/pkg/domain/model"
	"github.com/m-mizutani/ferryman/pkg/utils/async"
)

type webhookUseCase struct {
	pipeline interfaces.PipelineUseCase
	store    interfaces.RunStore
	notifier interfaces.Notifier
	dispatch func(ctx context.Context, handler func(ctx context.Context) error)
}

// WebhookOption is a functional option for the webhook use case
type WebhookOption func(*webhookUseCase)

// WithNotifier announces finished runs through the given notifier.
func WithNotifier(notifier interfaces.Notifier) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.notifier = notifier
	}
}

// WithDispatcher replaces the async dispatcher. Tests use a synchronous
// dispatcher to observe run completion.
func WithDispatcher(dispatch func(ctx context.Context, handler func(ctx context.Context) error)) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.dispatch = dispatch
	}
}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(pipeline interfaces.PipelineUseCase, store interfaces.RunStore, opts ...WebhookOption) interfaces.WebhookUseCase {
	uc := &webhookUseCase{
		pipeline: pipeline,
		store:    store,
		dispatch: async.Dispatch,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessEvent validates the delivery and dispatches a pipeline run for
// supported events. The webhook response does not wait for the run; the
// run's outcome is recorded in the store and announced by the notifier.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"kind", event.Kind,
		"action", event.Action,
		"ref", event.Ref,
		"repository", event.Owner+"/"+event.Repo,
		"sender", event.Sender,
	)

	if !event.IsSupportedEvent() {
		logger.Info("Ignoring unsupported event",
			"kind", event.Kind,
			"action", event.Action,
		)
		return nil
	}

	trigger := event.Trigger()
	remote := event.Remote()

	uc.dispatch(ctx, func(ctx context.Context) error {
		return uc.runPipeline(ctx, trigger, remote)
	})

	return nil
}

func (uc *webhookUseCase) runPipeline(ctx context.Context, trigger model.TriggerContext, remote *model.RemoteSource) error {
	logger := ctxlog.From(ctx)

	report, runErr := uc.pipeline.Execute(ctx, trigger, model.Source{Remote: remote})
	if runErr != nil {
		// No client configured means CaptureException is a no-op.
		sentry.CaptureException(runErr)
	}

	if report != nil {
		if err := uc.store.Put(ctx, report); err != nil {
			logger.Error("Failed to store run report",
				"run_id", report.ID, "error", err)
		}
		if uc.notifier != nil {
			if err := uc.notifier.NotifyRunResult(ctx, report); err != nil {
				logger.Warn("Failed to notify run result",
					"run_id", report.ID, "error", err)
			}
		}
	}

	return runErr
}
