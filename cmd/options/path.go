package options

import (
	"context"
	"os"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

var fs = afs.New()

func ensureAbsPath(location string) string {
	location = expandHomeDir(location)
	if location == "" || !url.IsRelative(location) {
		return location
	}
	if wd, _ := os.Getwd(); wd != "" {
		return url.Join(wd, location)
	}
	return location
}

func expandHomeDir(location string) string {
	if strings.HasPrefix(location, "~") {
		location = strings.Replace(location, "~", os.Getenv("HOME"), 1)
	}
	return location
}

// expandRelativeIfNeeded resolves relative location against working dir when it exists there, otherwise against project
func expandRelativeIfNeeded(location *string, project string) {
	if !url.IsRelative(*location) {
		return
	}
	if wd, _ := os.Getwd(); wd != "" {
		candidate := url.Join(wd, *location)
		if ok, _ := fs.Exists(context.Background(), candidate); ok || project == "" {
			*location = candidate
			return
		}
	}
	*location = url.Join(project, *location)
}
