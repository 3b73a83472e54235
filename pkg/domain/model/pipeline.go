package model

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ferryman/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// PipelineSpec describes one release pipeline: the commands for each step,
// where the build step leaves its artifacts, and where they get published.
// It is loaded from a TOML file; zero values fall back to the defaults of
// a conventional Python package release.
type PipelineSpec struct {
	Project      string       `toml:"project"`
	TagRefPrefix string       `toml:"tag_ref_prefix"`
	Steps        StepCommands `toml:"steps"`
	Artifacts    ArtifactSpec `toml:"artifacts"`
	Registry     RegistrySpec `toml:"registry"`
}

// StepCommands holds the shell command for each pipeline step. Each command
// is an opaque external collaborator: ferryman only observes its exit
// status and output.
type StepCommands struct {
	Provision     string `toml:"provision"`
	Prerequisites string `toml:"prerequisites"`
	Install       string `toml:"install"`
	Test          string `toml:"test"`
	Build         string `toml:"build"`
}

// ArtifactSpec tells the build step where to find its outputs.
type ArtifactSpec struct {
	// Dir is the artifact output directory, relative to the source root.
	Dir string `toml:"dir"`
}

// RegistrySpec identifies the package index that tagged releases are
// uploaded to. The credential is never part of the pipeline file; it is
// supplied through the environment.
type RegistrySpec struct {
	URL string `toml:"url"`
}

// DefaultPipelineSpec returns the spec matching a stock Python release
// flow: pip installs, pytest, and a PEP 517 build into dist/.
func DefaultPipelineSpec() *PipelineSpec {
	return &PipelineSpec{
		TagRefPrefix: DefaultTagRefPrefix,
		Steps: StepCommands{
			Provision:     "python --version",
			Prerequisites: "python -m pip install --upgrade pip setuptools wheel build",
			Install:       "python -m pip install .",
			Test:          "python -m pytest",
			Build:         "python -m build --sdist --wheel --outdir dist .",
		},
		Artifacts: ArtifactSpec{Dir: "dist"},
		Registry:  RegistrySpec{URL: "https://upload.pypi.org/legacy/"},
	}
}

// LoadPipelineSpec reads a pipeline file, fills in defaults for omitted
// fields, and validates the result.
func LoadPipelineSpec(path string) (*PipelineSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read pipeline file",
			goerr.T(types.ErrTagConfig), goerr.V("path", path))
	}

	spec := DefaultPipelineSpec()
	if err := toml.Unmarshal(data, spec); err != nil {
		return nil, goerr.Wrap(err, "failed to parse pipeline file",
			goerr.T(types.ErrTagConfig), goerr.V("path", path))
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	return spec, nil
}

// Validate checks the spec for holes that would only surface mid-run.
func (s *PipelineSpec) Validate() error {
	commands := map[string]string{
		"provision":     s.Steps.Provision,
		"prerequisites": s.Steps.Prerequisites,
		"install":       s.Steps.Install,
		"test":          s.Steps.Test,
		"build":         s.Steps.Build,
	}
	for name, cmd := range commands {
		if strings.TrimSpace(cmd) == "" {
			return goerr.New("pipeline step has no command",
				goerr.T(types.ErrTagConfig), goerr.V("step", name))
		}
	}

	if s.Artifacts.Dir == "" {
		return goerr.New("artifact directory is empty",
			goerr.T(types.ErrTagConfig))
	}
	if filepath.IsAbs(s.Artifacts.Dir) || strings.Contains(s.Artifacts.Dir, "..") {
		return goerr.New("artifact directory must be relative to the source root",
			goerr.T(types.ErrTagConfig), goerr.V("dir", s.Artifacts.Dir))
	}

	u, err := url.Parse(s.Registry.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return goerr.New("registry URL is not a valid absolute URL",
			goerr.T(types.ErrTagConfig), goerr.V("url", s.Registry.URL))
	}

	return nil
}

// TagPrefix returns the configured tag-ref prefix, defaulting when unset.
func (s *PipelineSpec) TagPrefix() string {
	if s.TagRefPrefix == "" {
		return DefaultTagRefPrefix
	}
	return s.TagRefPrefix
}
