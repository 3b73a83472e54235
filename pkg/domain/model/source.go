package model

// Source tells the pipeline where the source tree comes from. Exactly one
// of the two fields is set: Dir for a local tree (the checkout step is
// skipped), Remote for a repository revision fetched at run time.
type Source struct {
	Dir    string
	Remote *RemoteSource
}

// RemoteSource identifies a repository revision to fetch for a run.
type RemoteSource struct {
	Owner     string `json:"owner" firestore:"owner"`
	Repo      string `json:"repo" firestore:"repo"`
	CommitSHA string `json:"commit_sha" firestore:"commit_sha"`
}
