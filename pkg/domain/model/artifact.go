package model

// ArtifactKind distinguishes the two distribution kinds a build produces.
type ArtifactKind string

const (
	ArtifactSdist ArtifactKind = "sdist"
	ArtifactWheel ArtifactKind = "wheel"
)

// Artifact is one built distribution file. The content itself is treated
// as an opaque blob; only identity and integrity metadata are recorded.
type Artifact struct {
	Kind   ArtifactKind `json:"kind" firestore:"kind"`
	Name   string       `json:"name" firestore:"name"`
	Path   string       `json:"path" firestore:"path"`
	Size   int64        `json:"size" firestore:"size"`
	SHA256 string       `json:"sha256" firestore:"sha256"`
}
