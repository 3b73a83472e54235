package config

import "github.com/urfave/cli/v3"

// Slack holds Slack notification configuration. Notifications are
// disabled when the token is empty.
type Slack struct {
	Token   string
	Channel string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-token",
			Usage:       "Slack bot token for run notifications",
			Destination: &c.Token,
			Sources:     cli.EnvVars("FERRYMAN_SLACK_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel for run notifications",
			Destination: &c.Channel,
			Sources:     cli.EnvVars("FERRYMAN_SLACK_CHANNEL"),
		},
	}
}

// Enabled reports whether notifications are configured.
func (c *Slack) Enabled() bool {
	return c.Token != "" && c.Channel != ""
}
