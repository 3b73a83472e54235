package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ferryman/pkg/cli/config"
	"github.com/m-mizutani/ferryman/pkg/domain/model"
	"github.com/m-mizutani/ferryman/pkg/domain/types"
	"github.com/m-mizutani/ferryman/pkg/infra/cmd"
	"github.com/m-mizutani/ferryman/pkg/infra/registry"
	"github.com/m-mizutani/ferryman/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdRun(loggerCfg *config.Logger) *cli.Command {
	var (
		pipelineCfg config.Pipeline
		registryCfg config.Registry
		event       string
		ref         string
		sourceDir   string
	)

	flags := append(pipelineCfg.Flags(), registryCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "event",
			Usage:       "Trigger event kind (push, pull_request)",
			Value:       "push",
			Destination: &event,
			Sources:     cli.EnvVars("FERRYMAN_EVENT"),
		},
		&cli.StringFlag{
			Name:        "ref",
			Usage:       "Trigger ref (e.g. refs/tags/v1.0.0)",
			Destination: &ref,
			Sources:     cli.EnvVars("FERRYMAN_REF"),
		},
		&cli.StringFlag{
			Name:        "source",
			Aliases:     []string{"C"},
			Usage:       "Source tree to run the pipeline against",
			Value:       ".",
			Destination: &sourceDir,
		},
	)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run the release pipeline against a local source tree",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Reconfigure logging now that the credential is known, so
			// it can be scrubbed from every log line.
			logger, err := loggerCfg.Configure(registryCfg.Credential)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			trigger, err := parseTrigger(event, ref)
			if err != nil {
				return err
			}

			spec, err := pipelineCfg.Load()
			if err != nil {
				return err
			}

			publisher := registry.NewClient(spec.Registry.URL, registryCfg.Credential,
				registry.WithIdentity(registryCfg.Identity))
			uc := usecase.NewPipeline(spec, cmd.NewRunner(), publisher)

			report, runErr := uc.Execute(ctx, trigger, model.Source{Dir: sourceDir})
			if report != nil {
				newDisplay(os.Stdout).Render(report)
			}
			return runErr
		},
	}
}

func parseTrigger(event, ref string) (model.TriggerContext, error) {
	kind := model.EventKind(event)
	switch kind {
	case model.EventPush, model.EventPullRequest:
		return model.TriggerContext{Event: kind, Ref: ref}, nil
	default:
		return model.TriggerContext{}, goerr.New("unknown event kind",
			goerr.T(types.ErrTagConfig), goerr.V("event", event))
	}
}
