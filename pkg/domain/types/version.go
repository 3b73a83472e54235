package types

// Version is the application version. Overwritten by -ldflags at release
// build time.
var Version = "dev"
