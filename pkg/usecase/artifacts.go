package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/ferryman/pkg/domain/model"
	"github.com/m-mizutani/ferryman/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// discoverArtifacts scans the artifact directory after the build step and
// classifies its files by distribution kind. A build that did not leave
// both a source archive and a wheel is a build failure.
func discoverArtifacts(workdir, artifactDir string) ([]model.Artifact, error) {
	dir := filepath.Join(workdir, artifactDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read artifact directory",
			goerr.T(types.ErrTagBuild), goerr.V("dir", dir))
	}

	var artifacts []model.Artifact
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		kind, ok := classifyArtifact(entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to stat artifact",
				goerr.T(types.ErrTagBuild), goerr.V("path", path))
		}

		digest, err := sha256File(path)
		if err != nil {
			return nil, err
		}

		artifacts = append(artifacts, model.Artifact{
			Kind:   kind,
			Name:   entry.Name(),
			Path:   path,
			Size:   info.Size(),
			SHA256: digest,
		})
	}

	counts := map[model.ArtifactKind]int{}
	for _, a := range artifacts {
		counts[a.Kind]++
	}
	if counts[model.ArtifactSdist] == 0 || counts[model.ArtifactWheel] == 0 {
		return nil, goerr.New("build did not produce both distribution kinds",
			goerr.T(types.ErrTagBuild),
			goerr.V("dir", dir),
			goerr.V("sdist_count", counts[model.ArtifactSdist]),
			goerr.V("wheel_count", counts[model.ArtifactWheel]),
		)
	}

	// Stable upload order: sdists before wheels, names sorted within each
	// kind.
	sort.Slice(artifacts, func(i, j int) bool {
		if artifacts[i].Kind != artifacts[j].Kind {
			return artifacts[i].Kind == model.ArtifactSdist
		}
		return artifacts[i].Name < artifacts[j].Name
	})

	return artifacts, nil
}

func classifyArtifact(name string) (model.ArtifactKind, bool) {
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".zip"):
		return model.ArtifactSdist, true
	case strings.HasSuffix(name, ".whl"):
		return model.ArtifactWheel, true
	default:
		return "", false
	}
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open artifact for hashing",
			goerr.T(types.ErrTagBuild), goerr.V("path", path))
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", goerr.Wrap(err, "failed to hash artifact",
			goerr.T(types.ErrTagBuild), goerr.V("path", path))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
