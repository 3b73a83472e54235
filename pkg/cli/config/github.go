package config

import "github.com/urfave/cli/v3"

// GitHub holds GitHub configuration
type GitHub struct {
	WebhookSecret string
	Token         string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook shared secret",
			Required:    true,
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("FERRYMAN_GITHUB_WEBHOOK_SECRET"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub API token for source downloads (optional for public repositories)",
			Destination: &c.Token,
			Sources:     cli.EnvVars("FERRYMAN_GITHUB_TOKEN"),
		},
	}
}
