// Package web holds the embedded server-side templates.
package web

import "embed"

//go:embed templates
var Templates embed.FS
