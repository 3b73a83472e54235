package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ferryman/pkg/cli/config"
	controller "github.com/m-mizutani/ferryman/pkg/controller/http"
	"github.com/m-mizutani/ferryman/pkg/domain/interfaces"
	"github.com/m-mizutani/ferryman/pkg/infra/cmd"
	firestoreinfra "github.com/m-mizutani/ferryman/pkg/infra/firestore"
	githubinfra "github.com/m-mizutani/ferryman/pkg/infra/github"
	"github.com/m-mizutani/ferryman/pkg/infra/memory"
	"github.com/m-mizutani/ferryman/pkg/infra/registry"
	"github.com/m-mizutani/ferryman/pkg/infra/slacknotify"
	"github.com/m-mizutani/ferryman/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe(loggerCfg *config.Logger) *cli.Command {
	var (
		serverCfg    config.Server
		githubCfg    config.GitHub
		pipelineCfg  config.Pipeline
		registryCfg  config.Registry
		slackCfg     config.Slack
		firestoreCfg config.Firestore
		sentryCfg    config.Sentry
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, pipelineCfg.Flags()...)
	flags = append(flags, registryCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, firestoreCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server handling webhook-triggered pipeline runs",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger, err := loggerCfg.Configure(
				githubCfg.WebhookSecret,
				githubCfg.Token,
				registryCfg.Credential,
				slackCfg.Token,
			)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}
			if sentryCfg.DSN != "" {
				defer sentry.Flush(2 * time.Second)
			}

			spec, err := pipelineCfg.Load()
			if err != nil {
				return err
			}

			logger.Info("Starting ferryman server",
				slog.String("addr", serverCfg.Addr),
				slog.String("registry", spec.Registry.URL),
			)

			var store interfaces.RunStore
			if firestoreCfg.Enabled() {
				fsStore, err := firestoreinfra.NewStore(ctx, firestoreCfg.ProjectID,
					firestoreinfra.WithCollection(firestoreCfg.Collection))
				if err != nil {
					return err
				}
				defer func() {
					if err := fsStore.Close(); err != nil {
						logger.Warn("Failed to close Firestore client", slog.Any("error", err))
					}
				}()
				store = fsStore
			} else {
				store = memory.NewStore()
			}

			publisher := registry.NewClient(spec.Registry.URL, registryCfg.Credential,
				registry.WithIdentity(registryCfg.Identity))
			fetcher := githubinfra.NewClient(githubCfg.Token)
			pipelineUC := usecase.NewPipeline(spec, cmd.NewRunner(), publisher,
				usecase.WithFetcher(fetcher))

			webhookOpts := []usecase.WebhookOption{}
			if slackCfg.Enabled() {
				webhookOpts = append(webhookOpts,
					usecase.WithNotifier(slacknotify.NewNotifier(slackCfg.Token, slackCfg.Channel)))
			}
			webhookUC := usecase.NewWebhook(pipelineUC, store, webhookOpts...)

			server, err := controller.NewServer(
				ctx,
				webhookUC,
				store,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(githubCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
