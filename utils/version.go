package utils

import (
	"fmt"
	"runtime"
	"sync"
)

// Version information, set at build time using -ldflags.
type Version struct {
	Tag    string `json:"tag"`
	Branch string `json:"branch"`
	Commit string `json:"commit"`
	Date   string `json:"date"`
	Arch   string `json:"arch"`
	Str    string `json:"str"`
}

var (
	currentVersion Version
	versionMu      sync.RWMutex
)

// SetVersion stores the build-time version info for the process.
func SetVersion(tag, branch, commit, buildDate string) {
	if tag == "" {
		tag = "0.0.1"
	}
	if commit == "" {
		commit = "dev"
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}

	v := Version{
		Tag:    tag,
		Branch: branch,
		Commit: commit,
		Date:   buildDate,
		Arch:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	v.Str = fmt.Sprintf("%s-%s+%s.%s.%s", v.Tag, v.Branch, v.Commit, v.Date, v.Arch)

	versionMu.Lock()
	currentVersion = v
	versionMu.Unlock()
}

// GetVersion returns the version information for the service.
func GetVersion() Version {
	versionMu.RLock()
	defer versionMu.RUnlock()
	return currentVersion
}
