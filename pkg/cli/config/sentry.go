package config

import (
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ferryman/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Sentry holds error reporting configuration. Reporting is disabled when
// the DSN is empty.
type Sentry struct {
	DSN string
	Env string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting (disabled when unset)",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("FERRYMAN_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Value:       "production",
			Destination: &c.Env,
			Sources:     cli.EnvVars("FERRYMAN_SENTRY_ENV"),
		},
	}
}

// Configure initializes the Sentry SDK when a DSN is set.
func (c *Sentry) Configure() error {
	if c.DSN == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Env,
		Release:     "ferryman@" + types.Version,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to initialize Sentry",
			goerr.T(types.ErrTagConfig))
	}

	return nil
}
