// Package version holds the build version, overridable at link time with
// -ldflags "-X classlink/internal/shared/version.Version=...".
package version

var Version = "1.0.0"
