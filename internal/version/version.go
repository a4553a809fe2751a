// Package version — версия сборки (подставляется через -ldflags).
package version

var (
	Version = "dev"
	Commit  = "dev"
)
