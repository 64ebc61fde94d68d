package session

import (
	"path"
	"strings"
)

// assetExtensions are served without a session check.
var assetExtensions = map[string]bool{
	".svg":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".ico":  true,
}

var exemptPaths = map[string]bool{
	"/favicon.ico": true,
	"/sitemap.xml": true,
	"/robots.txt":  true,
}

// Gated reports whether the verification gate applies to the path.
// API routes and static assets are excluded by pattern.
func Gated(p string) bool {
	if strings.HasPrefix(p, "/api/") {
		return false
	}
	if exemptPaths[p] {
		return false
	}
	if assetExtensions[strings.ToLower(path.Ext(p))] {
		return false
	}
	return true
}
