package diagfmt

import (
	"path"
	"strings"
)

const autoPathLimit = 40

func formatPath(p string, mode PathMode) string {
	switch mode {
	case PathModeBasename:
		return path.Base(p)
	case PathModeAuto:
		if strings.HasPrefix(p, "/") && len(p) > autoPathLimit {
			return path.Base(p)
		}
	}
	return p
}
