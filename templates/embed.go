// Package templates holds the default page templates compiled into the binary.
package templates

import "embed"

// Page template file names.
const (
	Home     = "home.html"
	City     = "city.html"
	Property = "property.html"
)

// FS contains the default templates.
//
//go:embed *.html
var FS embed.FS
