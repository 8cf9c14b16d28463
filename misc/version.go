// Package misc keeps program identity values which are set at link time.
package misc

import "strings"

var (
	appName = "pager"
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns program name as used in file names and logger names.
func GetAppName() string {
	return appName
}

// GetVersion returns program version, "-ldflags -X pager/misc.version=..." overrides it.
func GetVersion() string {
	return strings.TrimPrefix(version, "v")
}

// GetGitHash returns git commit hash program was built from.
func GetGitHash() string {
	return gitHash
}
