package model

// Checkout is the result of fetching and extracting a remote source tree.
type Checkout struct {
	// Root is the temporary directory that holds the extraction. Removing
	// it releases the whole checkout.
	Root string
	// Dir is the source root inside Root. Zipballs wrap their content in
	// a single top-level directory, so Dir is usually a child of Root.
	Dir string
	// Files is the number of extracted entries.
	Files int
	// Size is the total uncompressed size in bytes.
	Size int64
}
