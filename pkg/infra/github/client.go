package github

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ferryman/pkg/domain/model"
	"github.com/m-mizutani/ferryman/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type client struct {
	githubClient *github.Client
}

// NewClient creates a source fetcher backed by the GitHub API. An empty
// token yields an unauthenticated client, enough for public repositories.
func NewClient(token string) *client {
	gh := github.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	return &client{githubClient: gh}
}

// Fetch downloads the zipball of the remote revision and extracts it into
// a fresh temporary directory. The returned directory is the extraction
// root; zipballs wrap their content in a single top-level directory, which
// is resolved to the actual source root.
func (c *client) Fetch(ctx context.Context, remote *model.RemoteSource) (*model.Checkout, error) {
	logger := ctxlog.From(ctx)

	data, err := c.downloadZipball(ctx, remote)
	if err != nil {
		return nil, err
	}

	logger.Debug("Downloaded zipball",
		"owner", remote.Owner,
		"repo", remote.Repo,
		"commit_sha", remote.CommitSHA,
		"size_bytes", len(data),
	)

	checkout, err := extractZip(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract zipball",
			goerr.T(types.ErrTagCheckout),
			goerr.V("owner", remote.Owner),
			goerr.V("repo", remote.Repo),
		)
	}

	return checkout, nil
}

func (c *client) downloadZipball(ctx context.Context, remote *model.RemoteSource) ([]byte, error) {
	url, _, err := c.githubClient.Repositories.GetArchiveLink(ctx, remote.Owner, remote.Repo, github.Zipball, &github.RepositoryContentGetOptions{
		Ref: remote.CommitSHA,
	}, 3) // Follow up to 3 redirects
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get zipball URL",
			goerr.T(types.ErrTagCheckout),
			goerr.V("owner", remote.Owner),
			goerr.V("repo", remote.Repo),
			goerr.V("commit_sha", remote.CommitSHA),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create download request",
			goerr.T(types.ErrTagCheckout))
	}

	httpClient := &http.Client{Transport: c.githubClient.Client().Transport}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download zipball",
			goerr.T(types.ErrTagCheckout))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status code for zipball download",
			goerr.T(types.ErrTagCheckout),
			goerr.V("status", resp.StatusCode),
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read zipball body",
			goerr.T(types.ErrTagCheckout))
	}

	return data, nil
}

// extractZip extracts ZIP data into a fresh 0700 temporary directory.
func extractZip(data []byte) (*model.Checkout, error) {
	tempDir, err := os.MkdirTemp("", "ferryman-checkout-*")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create temporary directory")
	}
	if err := os.Chmod(tempDir, 0700); err != nil {
		return nil, goerr.Wrap(err, "failed to set directory permissions",
			goerr.V("dir", tempDir))
	}

	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open zip archive")
	}

	checkout := &model.Checkout{Root: tempDir, Dir: tempDir}
	for _, file := range zipReader.File {
		if err := extractFile(file, tempDir); err != nil {
			return nil, err
		}
		checkout.Files++
		checkout.Size += int64(file.UncompressedSize64)
	}

	if root, ok := singleTopLevelDir(zipReader); ok {
		checkout.Dir = filepath.Join(tempDir, root)
	}

	return checkout, nil
}

// extractFile extracts a single entry, refusing paths that escape destDir.
func extractFile(file *zip.File, destDir string) error {
	destPath := filepath.Join(destDir, file.Name)
	if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return goerr.New("zip entry escapes extraction root",
			goerr.V("entry", file.Name))
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(destPath, file.FileInfo().Mode())
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create parent directories",
			goerr.V("path", destPath))
	}

	rc, err := file.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open zip entry",
			goerr.V("entry", file.Name))
	}
	defer rc.Close()

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.FileInfo().Mode())
	if err != nil {
		return goerr.Wrap(err, "failed to create destination file",
			goerr.V("path", destPath))
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, rc); err != nil {
		return goerr.Wrap(err, "failed to copy entry content",
			goerr.V("path", destPath))
	}

	return nil
}

// singleTopLevelDir reports the zipball's wrapping directory when all
// entries share one.
func singleTopLevelDir(zr *zip.Reader) (string, bool) {
	root := ""
	for _, f := range zr.File {
		name := strings.TrimPrefix(f.Name, "./")
		top, _, found := strings.Cut(name, "/")
		if !found {
			return "", false
		}
		if root == "" {
			root = top
		} else if root != top {
			return "", false
		}
	}
	return root, root != ""
}
