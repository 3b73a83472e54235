package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/ferryman/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var pipelineCfg config.Pipeline

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a pipeline file without running it",
		Flags:   pipelineCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			spec, err := pipelineCfg.Load()
			if err != nil {
				return err
			}

			fmt.Printf("%s %s\n", color.GreenString("OK"), "pipeline is valid")
			fmt.Printf("  project:       %s\n", spec.Project)
			fmt.Printf("  tag prefix:    %s\n", spec.TagPrefix())
			fmt.Printf("  registry:      %s\n", spec.Registry.URL)
			fmt.Printf("  provision:     %s\n", spec.Steps.Provision)
			fmt.Printf("  prerequisites: %s\n", spec.Steps.Prerequisites)
			fmt.Printf("  install:       %s\n", spec.Steps.Install)
			fmt.Printf("  test:          %s\n", spec.Steps.Test)
			fmt.Printf("  build:         %s\n", spec.Steps.Build)
			fmt.Printf("  artifacts:     %s\n", spec.Artifacts.Dir)
			return nil
		},
	}
}
