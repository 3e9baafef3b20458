package web

import "embed"

// TemplatesFS embeds the layout, partials and pages under templates/.
//
//go:embed templates
var TemplatesFS embed.FS

// StaticFS embeds static assets (css/js).
//
//go:embed static
var StaticFS embed.FS
