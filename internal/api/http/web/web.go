// Package web holds the Node Manager dashboard assets.
package web

import "embed"

//go:embed index.html scripts.js styles.css
var Assets embed.FS

const IndexFile = "index.html"
