// Package version exposes the build version, overridden at link time with
// -ldflags "-X github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/version.Version=v1.2.3".
package version

// Version is the application version.
var Version = "dev"
