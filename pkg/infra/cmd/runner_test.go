package cmd_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ferryman/pkg/infra/cmd"
)

func TestRunner_Run_Success(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	r := cmd.NewRunner()
	out, err := r.Run(ctx, dir, "echo hello")

	gt.NoError(t, err)
	gt.String(t, out).Contains("hello")
}

func TestRunner_Run_WorkingDirectory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	r := cmd.NewRunner()
	_, err := r.Run(ctx, dir, "echo data > marker.txt")
	gt.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "marker.txt"))
	gt.NoError(t, err)
}

func TestRunner_Run_NonZeroExit(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	r := cmd.NewRunner()
	out, err := r.Run(ctx, dir, "echo broken; exit 3")

	gt.Error(t, err)
	gt.String(t, out).Contains("broken")
}

func TestRunner_Run_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := cmd.NewRunner()
	_, err := r.Run(ctx, t.TempDir(), "sleep 10")
	gt.Error(t, err)
}
