package config

import (
	"github.com/m-mizutani/ferryman/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Pipeline holds pipeline file configuration
type Pipeline struct {
	Path string
}

// Flags returns CLI flags for pipeline configuration
func (c *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "pipeline",
			Aliases:     []string{"p"},
			Usage:       "Path to the pipeline TOML file (defaults apply when unset)",
			Destination: &c.Path,
			Sources:     cli.EnvVars("FERRYMAN_PIPELINE"),
		},
	}
}

// Load reads the pipeline spec, falling back to the default Python
// release flow when no file is given.
func (c *Pipeline) Load() (*model.PipelineSpec, error) {
	if c.Path == "" {
		return model.DefaultPipelineSpec(), nil
	}
	return model.LoadPipelineSpec(c.Path)
}
