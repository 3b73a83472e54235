package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify pipeline failures by the step that produced them.
// Every tag maps to a non-zero exit (or refusal) of the corresponding
// external tool; none of them are recovered locally.
var (
	ErrTagConfig       = goerr.NewTag("config")
	ErrTagCheckout     = goerr.NewTag("checkout")
	ErrTagProvisioning = goerr.NewTag("provisioning")
	ErrTagInstall      = goerr.NewTag("install")
	ErrTagTest         = goerr.NewTag("test")
	ErrTagBuild        = goerr.NewTag("build")
	ErrTagPublish      = goerr.NewTag("publish")
)
