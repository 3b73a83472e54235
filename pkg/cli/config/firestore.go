package config

import "github.com/urfave/cli/v3"

// Firestore holds run history persistence configuration. When the project
// ID is empty, serve mode falls back to the in-memory store.
type Firestore struct {
	ProjectID  string
	Collection string
}

// Flags returns CLI flags for Firestore configuration
func (c *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project ID for run history (in-memory store when unset)",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("FERRYMAN_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection for run history",
			Value:       "runs",
			Destination: &c.Collection,
			Sources:     cli.EnvVars("FERRYMAN_FIRESTORE_COLLECTION"),
		},
	}
}

// Enabled reports whether persistent run history is configured.
func (c *Firestore) Enabled() bool {
	return c.ProjectID != ""
}
