package usecase

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ferryman/pkg/domain/interfaces"
	"github.com/m-mizutani/ferryman/pkg/domain/model"
	"github.com/m-mizutani/ferryman/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type pipelineUseCase struct {
	spec      *model.PipelineSpec
	runner    interfaces.CommandRunner
	publisher interfaces.Publisher
	fetcher   interfaces.SourceFetcher
}

// PipelineOption is a functional option for the pipeline use case
type PipelineOption func(*pipelineUseCase)

// WithFetcher enables the checkout step for runs against a remote source.
func WithFetcher(fetcher interfaces.SourceFetcher) PipelineOption {
	return func(uc *pipelineUseCase) {
		uc.fetcher = fetcher
	}
}

// NewPipeline creates a new instance of PipelineUseCase
func NewPipeline(spec *model.PipelineSpec, runner interfaces.CommandRunner, publisher interfaces.Publisher, opts ...PipelineOption) interfaces.PipelineUseCase {
	uc := &pipelineUseCase{
		spec:      spec,
		runner:    runner,
		publisher: publisher,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute runs the pipeline steps strictly in order, fail-fast, with no
// retry and no partial recovery. The publish step is evaluated only after
// every prior step succeeded, and only behind the trigger gate; a closed
// gate records the step as skipped, not failed.
func (uc *pipelineUseCase) Execute(ctx context.Context, trigger model.TriggerContext, src model.Source) (*model.RunReport, error) {
	logger := ctxlog.From(ctx)
	report := model.NewRunReport(uc.spec.Project, trigger)

	logger.Info("Starting pipeline run",
		"run_id", report.ID,
		"project", report.Project,
		"event", trigger.Event,
		"ref", trigger.Ref,
	)

	workdir := src.Dir

	for _, name := range model.StepOrder {
		start := time.Now()

		switch name {
		case model.StepProvision:
			if err := uc.runCommand(ctx, report, name, "", uc.spec.Steps.Provision, goerr.T(types.ErrTagProvisioning), start); err != nil {
				return report, err
			}

		case model.StepPrerequisites:
			if err := uc.runCommand(ctx, report, name, "", uc.spec.Steps.Prerequisites, goerr.T(types.ErrTagInstall), start); err != nil {
				return report, err
			}

		case model.StepCheckout:
			if src.Remote == nil {
				report.AddStep(model.StepResult{Name: name, Status: model.StepSkipped})
				continue
			}
			checkout, err := uc.checkout(ctx, src.Remote)
			if err != nil {
				report.AddStep(model.StepResult{
					Name:     name,
					Status:   model.StepFailed,
					Duration: time.Since(start),
				})
				report.Fail(name, err)
				return report, err
			}
			defer func() {
				if removeErr := os.RemoveAll(checkout.Root); removeErr != nil {
					logger.Warn("Failed to clean up checkout directory",
						"dir", checkout.Root, "error", removeErr)
				}
			}()
			workdir = checkout.Dir
			report.AddStep(model.StepResult{
				Name:     name,
				Status:   model.StepSucceeded,
				Duration: time.Since(start),
			})
			logger.Info("Checked out source",
				"dir", checkout.Dir,
				"file_count", checkout.Files,
				"size_bytes", checkout.Size,
			)

		case model.StepInstall:
			if err := uc.runCommand(ctx, report, name, workdir, uc.spec.Steps.Install, goerr.T(types.ErrTagInstall), start); err != nil {
				return report, err
			}

		case model.StepTest:
			if err := uc.runCommand(ctx, report, name, workdir, uc.spec.Steps.Test, goerr.T(types.ErrTagTest), start); err != nil {
				return report, err
			}

		case model.StepBuild:
			if err := uc.runCommand(ctx, report, name, workdir, uc.spec.Steps.Build, goerr.T(types.ErrTagBuild), start); err != nil {
				return report, err
			}
			artifacts, err := discoverArtifacts(workdir, uc.spec.Artifacts.Dir)
			if err != nil {
				report.Steps[len(report.Steps)-1].Status = model.StepFailed
				report.Fail(name, err)
				return report, err
			}
			report.Artifacts = artifacts

		case model.StepPublish:
			if !trigger.ShouldPublish(uc.spec.TagPrefix()) {
				report.AddStep(model.StepResult{Name: name, Status: model.StepSkipped})
				logger.Info("Publish skipped by trigger gate",
					"event", trigger.Event, "ref", trigger.Ref)
				continue
			}
			if err := uc.publish(ctx, report, start); err != nil {
				return report, err
			}
		}
	}

	report.Complete()
	logger.Info("Pipeline run finished",
		"run_id", report.ID,
		"published", report.Published,
		"step_count", len(report.Steps),
	)

	return report, nil
}

// runCommand executes one command step and records its result. Any
// non-zero exit fails the whole run.
func (uc *pipelineUseCase) runCommand(ctx context.Context, report *model.RunReport, name model.StepName, dir, command string, tag goerr.Option, start time.Time) error {
	logger := ctxlog.From(ctx)
	logger.Info("Running pipeline step", "step", name, "command", command)

	output, err := uc.runner.Run(ctx, dir, command)
	result := model.StepResult{
		Name:       name,
		Duration:   time.Since(start),
		OutputTail: output,
	}

	if err != nil {
		result.Status = model.StepFailed
		report.AddStep(result)

		wrapped := goerr.Wrap(err, "pipeline step failed",
			tag, goerr.V("step", name))
		report.Fail(name, wrapped)
		return wrapped
	}

	result.Status = model.StepSucceeded
	report.AddStep(result)
	return nil
}

func (uc *pipelineUseCase) checkout(ctx context.Context, remote *model.RemoteSource) (*model.Checkout, error) {
	if uc.fetcher == nil {
		return nil, goerr.New("remote source given but no fetcher configured",
			goerr.T(types.ErrTagCheckout),
			goerr.V("owner", remote.Owner),
			goerr.V("repo", remote.Repo),
		)
	}
	return uc.fetcher.Fetch(ctx, remote)
}

func (uc *pipelineUseCase) publish(ctx context.Context, report *model.RunReport, start time.Time) error {
	if err := uc.publisher.Publish(ctx, report.Artifacts); err != nil {
		report.AddStep(model.StepResult{
			Name:     model.StepPublish,
			Status:   model.StepFailed,
			Duration: time.Since(start),
		})

		wrapped := goerr.Wrap(err, "pipeline step failed",
			goerr.T(types.ErrTagPublish), goerr.V("step", model.StepPublish))
		report.Fail(model.StepPublish, wrapped)
		return wrapped
	}

	report.AddStep(model.StepResult{
		Name:     model.StepPublish,
		Status:   model.StepSucceeded,
		Duration: time.Since(start),
	})
	report.Published = true
	return nil
}
