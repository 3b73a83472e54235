package config

import "github.com/urfave/cli/v3"

// Registry holds publish credentials for the package index. The registry
// URL itself lives in the pipeline file; only the secret material comes
// from the environment.
type Registry struct {
	Credential string
	Identity   string
}

// Flags returns CLI flags for registry configuration
func (c *Registry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "registry-credential",
			Usage:       "Package index upload credential (API token)",
			Destination: &c.Credential,
			Sources:     cli.EnvVars("FERRYMAN_REGISTRY_CREDENTIAL"),
		},
		&cli.StringFlag{
			Name:        "registry-identity",
			Usage:       "Upload identity marker",
			Value:       "__token__",
			Destination: &c.Identity,
			Sources:     cli.EnvVars("FERRYMAN_REGISTRY_IDENTITY"),
		},
	}
}
