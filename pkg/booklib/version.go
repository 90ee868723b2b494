// Package booklib holds build metadata shared by the CLI and libraries.
package booklib

// Version is the booklib release version.
const Version = "0.1.0"

// ModulePath is the Go module path of this repository.
const ModulePath = "github.com/mesh-intelligence/booklib"
