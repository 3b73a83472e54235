package interfaces

import (
	"context"

	"github.com/m-mizutani/ferryman/pkg/domain/model"
)

// CommandRunner executes one external command in a working directory and
// returns its combined output. A non-zero exit is returned as an error;
// the output is returned in both cases.
type CommandRunner interface {
	Run(ctx context.Context, dir, command string) (output string, err error)
}

// SourceFetcher downloads a repository revision and extracts it into a
// temporary directory. The caller owns removal of the returned directory.
type SourceFetcher interface {
	Fetch(ctx context.Context, remote *model.RemoteSource) (*model.Checkout, error)
}

// Publisher uploads built artifacts to the package index. Implementations
// must fail on a missing credential rather than silently skipping.
type Publisher interface {
	Publish(ctx context.Context, artifacts []model.Artifact) error
}

// RunStore persists run reports. Implementations must be safe for
// concurrent use; serve mode writes from one goroutine per delivery.
type RunStore interface {
	Put(ctx context.Context, report *model.RunReport) error
	Get(ctx context.Context, id string) (*model.RunReport, error)
	List(ctx context.Context, limit int) ([]*model.RunReport, error)
}

// Notifier announces a finished run. Notification failures are logged by
// the caller and never fail the run itself.
type Notifier interface {
	NotifyRunResult(ctx context.Context, report *model.RunReport) error
}
