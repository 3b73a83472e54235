package registry

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ferryman/pkg/domain/model"
	"github.com/m-mizutani/ferryman/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultIdentity is the fixed username of a token-authenticated upload.
const DefaultIdentity = "__token__"

type client struct {
	url        string
	identity   string
	credential string
	httpClient *http.Client
}

// Option is a functional option for the registry client
type Option func(*client)

// WithIdentity overrides the fixed identity marker sent as the upload
// username.
func WithIdentity(identity string) Option {
	return func(c *client) {
		c.identity = identity
	}
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// NewClient creates a publisher that uploads artifacts to the package
// index at url. The credential is opaque: it is sent as the basic auth
// password and never inspected, logged, or attached to errors.
func NewClient(url, credential string, opts ...Option) *client {
	c := &client{
		url:        url,
		identity:   DefaultIdentity,
		credential: credential,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Publish uploads every artifact, one request each, in order. The first
// failed upload aborts the rest. A missing credential is an upload
// failure, never a silent skip.
func (c *client) Publish(ctx context.Context, artifacts []model.Artifact) error {
	if c.credential == "" {
		return goerr.New("publish credential is empty",
			goerr.T(types.ErrTagPublish))
	}

	logger := ctxlog.From(ctx)

	for _, artifact := range artifacts {
		if err := c.upload(ctx, artifact); err != nil {
			return err
		}
		logger.Info("Uploaded artifact",
			"name", artifact.Name,
			"kind", artifact.Kind,
			"size_bytes", artifact.Size,
		)
	}

	return nil
}

func (c *client) upload(ctx context.Context, artifact model.Artifact) error {
	file, err := os.Open(artifact.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to open artifact",
			goerr.T(types.ErrTagPublish), goerr.V("name", artifact.Name))
	}
	defer file.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fields := map[string]string{
		":action":          "file_upload",
		"protocol_version": "1",
		"filetype":         fileType(artifact.Kind),
		"sha256_digest":    artifact.SHA256,
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return goerr.Wrap(err, "failed to write form field",
				goerr.T(types.ErrTagPublish), goerr.V("field", key))
		}
	}

	part, err := form.CreateFormFile("content", filepath.Base(artifact.Path))
	if err != nil {
		return goerr.Wrap(err, "failed to create form file",
			goerr.T(types.ErrTagPublish), goerr.V("name", artifact.Name))
	}
	if _, err := io.Copy(part, file); err != nil {
		return goerr.Wrap(err, "failed to read artifact content",
			goerr.T(types.ErrTagPublish), goerr.V("name", artifact.Name))
	}
	if err := form.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize upload form",
			goerr.T(types.ErrTagPublish))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return goerr.Wrap(err, "failed to create upload request",
			goerr.T(types.ErrTagPublish))
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.SetBasicAuth(c.identity, c.credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to upload artifact",
			goerr.T(types.ErrTagPublish), goerr.V("name", artifact.Name))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a bounded amount of the response for context. The body
		// may echo request details, so only the status code goes into
		// the error value.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return goerr.New("registry rejected artifact upload",
			goerr.T(types.ErrTagPublish),
			goerr.V("name", artifact.Name),
			goerr.V("status", resp.StatusCode),
		)
	}

	return nil
}

func fileType(kind model.ArtifactKind) string {
	if kind == model.ArtifactWheel {
		return "bdist_wheel"
	}
	return "sdist"
}
