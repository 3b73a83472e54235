package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ferryman/pkg/domain/model"
	"github.com/m-mizutani/ferryman/pkg/domain/types"
	"github.com/m-mizutani/ferryman/pkg/infra/registry"
	"github.com/m-mizutani/ferryman/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

// MockRunner is a mock implementation of CommandRunner
type MockRunner struct {
	failOn   string
	commands []string
	dirs     []string
}

func (m *MockRunner) Run(ctx context.Context, dir, command string) (string, error) {
	m.commands = append(m.commands, command)
	m.dirs = append(m.dirs, dir)
	if m.failOn != "" && command == m.failOn {
		return "simulated failure output", errors.New("exit status 1")
	}
	return "ok", nil
}

// MockPublisher is a mock implementation of Publisher
type MockPublisher struct {
	publishFunc func(ctx context.Context, artifacts []model.Artifact) error
	calls       [][]model.Artifact
}

func (m *MockPublisher) Publish(ctx context.Context, artifacts []model.Artifact) error {
	m.calls = append(m.calls, artifacts)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, artifacts)
	}
	return nil
}

// MockFetcher is a mock implementation of SourceFetcher
type MockFetcher struct {
	fetchFunc func(ctx context.Context, remote *model.RemoteSource) (*model.Checkout, error)
}

func (m *MockFetcher) Fetch(ctx context.Context, remote *model.RemoteSource) (*model.Checkout, error) {
	return m.fetchFunc(ctx, remote)
}

func testSpec() *model.PipelineSpec {
	spec := model.DefaultPipelineSpec()
	spec.Project = "haoda"
	spec.Steps = model.StepCommands{
		Provision:     "provision-runtime",
		Prerequisites: "install-prerequisites",
		Install:       "install-package",
		Test:          "run-tests",
		Build:         "build-distributions",
	}
	return spec
}

// sourceWithArtifacts prepares a source dir whose dist/ already holds both
// distribution kinds, standing in for the side effect of the build command.
func sourceWithArtifacts(t *testing.T) model.Source {
	t.Helper()
	dir := t.TempDir()
	distDir := filepath.Join(dir, "dist")
	gt.NoError(t, os.MkdirAll(distDir, 0755))
	gt.NoError(t, os.WriteFile(filepath.Join(distDir, "haoda-1.0.0.tar.gz"), []byte("sdist"), 0644))
	gt.NoError(t, os.WriteFile(filepath.Join(distDir, "haoda-1.0.0-py3-none-any.whl"), []byte("wheel"), 0644))
	return model.Source{Dir: dir}
}

func TestPipeline_PublishGate_NonPushEvent(t *testing.T) {
	ctx := context.Background()
	runner := &MockRunner{}
	publisher := &MockPublisher{}

	uc := usecase.NewPipeline(testSpec(), runner, publisher)

	// A tag-shaped ref on a pull_request must not open the gate.
	trigger := model.TriggerContext{Event: model.EventPullRequest, Ref: "refs/tags/v1.0.0"}
	report, err := uc.Execute(ctx, trigger, sourceWithArtifacts(t))

	gt.NoError(t, err)
	gt.Value(t, len(publisher.calls)).Equal(0)
	gt.Value(t, report.Published).Equal(false)

	last := report.Steps[len(report.Steps)-1]
	gt.Value(t, last.Name).Equal(model.StepPublish)
	gt.Value(t, last.Status).Equal(model.StepSkipped)
}

func TestPipeline_PublishGate_BranchPush(t *testing.T) {
	ctx := context.Background()
	runner := &MockRunner{}
	publisher := &MockPublisher{}

	uc := usecase.NewPipeline(testSpec(), runner, publisher)

	trigger := model.TriggerContext{Event: model.EventPush, Ref: "refs/heads/main"}
	report, err := uc.Execute(ctx, trigger, sourceWithArtifacts(t))

	gt.NoError(t, err)
	gt.Value(t, len(publisher.calls)).Equal(0)
	gt.Value(t, report.Published).Equal(false)
}

func TestPipeline_PublishGate_TagPush(t *testing.T) {
	ctx := context.Background()
	runner := &MockRunner{}
	publisher := &MockPublisher{}

	uc := usecase.NewPipeline(testSpec(), runner, publisher)

	trigger := model.TriggerContext{Event: model.EventPush, Ref: "refs/tags/v1.0.0"}
	report, err := uc.Execute(ctx, trigger, sourceWithArtifacts(t))

	gt.NoError(t, err)
	gt.Value(t, len(publisher.calls)).Equal(1)
	gt.Value(t, report.Published).Equal(true)

	// Publish is the last step and runs after every prior step succeeded.
	gt.Value(t, report.StepSequence()).Equal([]string{
		"provision:succeeded",
		"prerequisites:succeeded",
		"checkout:skipped",
		"install:succeeded",
		"test:succeeded",
		"build:succeeded",
		"publish:succeeded",
	})

	// Both distribution kinds were handed to the publisher.
	gt.Value(t, len(publisher.calls[0])).Equal(2)
	gt.Value(t, publisher.calls[0][0].Kind).Equal(model.ArtifactSdist)
	gt.Value(t, publisher.calls[0][1].Kind).Equal(model.ArtifactWheel)
}

func TestPipeline_FailFast_TestFailure(t *testing.T) {
	ctx := context.Background()
	runner := &MockRunner{failOn: "run-tests"}
	publisher := &MockPublisher{}

	uc := usecase.NewPipeline(testSpec(), runner, publisher)

	trigger := model.TriggerContext{Event: model.EventPush, Ref: "refs/tags/v1.0.0"}
	report, err := uc.Execute(ctx, trigger, sourceWithArtifacts(t))

	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.ErrTagTest)).Equal(true)
	gt.Value(t, report.FailedStep).Equal(model.StepTest)

	// Neither build nor publish ran after the failing step.
	gt.Value(t, len(publisher.calls)).Equal(0)
	gt.Value(t, runner.commands).Equal([]string{
		"provision-runtime",
		"install-prerequisites",
		"install-package",
		"run-tests",
	})

	last := report.Steps[len(report.Steps)-1]
	gt.Value(t, last.Name).Equal(model.StepTest)
	gt.Value(t, last.Status).Equal(model.StepFailed)
	gt.String(t, last.OutputTail).Contains("simulated failure output")
}

func TestPipeline_FailFast_ProvisioningFailure(t *testing.T) {
	ctx := context.Background()
	runner := &MockRunner{failOn: "provision-runtime"}
	publisher := &MockPublisher{}

	uc := usecase.NewPipeline(testSpec(), runner, publisher)

	trigger := model.TriggerContext{Event: model.EventPush, Ref: "refs/tags/v1.0.0"}
	report, err := uc.Execute(ctx, trigger, sourceWithArtifacts(t))

	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.ErrTagProvisioning)).Equal(true)
	gt.Value(t, len(runner.commands)).Equal(1)
	gt.Value(t, len(report.Steps)).Equal(1)
}

func TestPipeline_EmptyCredential_FailsPublish(t *testing.T) {
	ctx := context.Background()
	runner := &MockRunner{}

	// A real registry client with an empty credential: the publish step
	// must fail, never silently skip.
	publisher := registry.NewClient("https://registry.example.com/legacy/", "")
	uc := usecase.NewPipeline(testSpec(), runner, publisher)

	trigger := model.TriggerContext{Event: model.EventPush, Ref: "refs/tags/v1.0.0"}
	report, err := uc.Execute(ctx, trigger, sourceWithArtifacts(t))

	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.ErrTagPublish)).Equal(true)
	gt.Value(t, report.FailedStep).Equal(model.StepPublish)
	gt.Value(t, report.Published).Equal(false)
}

func TestPipeline_MissingWheel_FailsBuild(t *testing.T) {
	ctx := context.Background()
	runner := &MockRunner{}
	publisher := &MockPublisher{}

	dir := t.TempDir()
	distDir := filepath.Join(dir, "dist")
	gt.NoError(t, os.MkdirAll(distDir, 0755))
	gt.NoError(t, os.WriteFile(filepath.Join(distDir, "haoda-1.0.0.tar.gz"), []byte("sdist"), 0644))

	uc := usecase.NewPipeline(testSpec(), runner, publisher)

	trigger := model.TriggerContext{Event: model.EventPush, Ref: "refs/tags/v1.0.0"}
	report, err := uc.Execute(ctx, trigger, model.Source{Dir: dir})

	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.ErrTagBuild)).Equal(true)
	gt.Value(t, report.FailedStep).Equal(model.StepBuild)
	gt.Value(t, len(publisher.calls)).Equal(0)
}

func TestPipeline_Determinism(t *testing.T) {
	ctx := context.Background()
	trigger := model.TriggerContext{Event: model.EventPush, Ref: "refs/heads/main"}
	src := sourceWithArtifacts(t)

	run := func() *model.RunReport {
		uc := usecase.NewPipeline(testSpec(), &MockRunner{}, &MockPublisher{})
		report, err := uc.Execute(ctx, trigger, src)
		gt.NoError(t, err)
		return report
	}

	first := run()
	second := run()

	gt.Value(t, first.StepSequence()).Equal(second.StepSequence())
	gt.Value(t, first.Published).Equal(false)
	gt.Value(t, second.Published).Equal(false)
}

func TestPipeline_RemoteSource_Checkout(t *testing.T) {
	ctx := context.Background()
	runner := &MockRunner{}
	publisher := &MockPublisher{}

	checkoutRoot := t.TempDir()
	srcDir := filepath.Join(checkoutRoot, "haoda-abc123")
	distDir := filepath.Join(srcDir, "dist")
	gt.NoError(t, os.MkdirAll(distDir, 0755))
	gt.NoError(t, os.WriteFile(filepath.Join(distDir, "haoda-1.0.0.tar.gz"), []byte("sdist"), 0644))
	gt.NoError(t, os.WriteFile(filepath.Join(distDir, "haoda-1.0.0-py3-none-any.whl"), []byte("wheel"), 0644))

	var fetched *model.RemoteSource
	fetcher := &MockFetcher{
		fetchFunc: func(ctx context.Context, remote *model.RemoteSource) (*model.Checkout, error) {
			fetched = remote
			return &model.Checkout{Root: checkoutRoot, Dir: srcDir, Files: 3}, nil
		},
	}

	uc := usecase.NewPipeline(testSpec(), runner, publisher, usecase.WithFetcher(fetcher))

	trigger := model.TriggerContext{Event: model.EventPush, Ref: "refs/tags/v1.0.0"}
	remote := &model.RemoteSource{Owner: "owner", Repo: "haoda", CommitSHA: "abc123"}
	report, err := uc.Execute(ctx, trigger, model.Source{Remote: remote})

	gt.NoError(t, err)
	gt.Value(t, fetched).Equal(remote)
	gt.Value(t, report.Published).Equal(true)

	// Source-dependent steps ran inside the checkout.
	gt.Value(t, runner.dirs[2]).Equal(srcDir) // install
	gt.Value(t, runner.dirs[3]).Equal(srcDir) // test
	gt.Value(t, runner.dirs[4]).Equal(srcDir) // build
}

func TestPipeline_RemoteSource_NoFetcher(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewPipeline(testSpec(), &MockRunner{}, &MockPublisher{})

	trigger := model.TriggerContext{Event: model.EventPush, Ref: "refs/heads/main"}
	report, err := uc.Execute(ctx, trigger, model.Source{
		Remote: &model.RemoteSource{Owner: "o", Repo: "r", CommitSHA: "sha"},
	})

	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.ErrTagCheckout)).Equal(true)
	gt.Value(t, report.FailedStep).Equal(model.StepCheckout)
}
