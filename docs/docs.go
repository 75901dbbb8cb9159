// Package docs embeds the OpenAPI description of the HTTP API and the page
// that renders it.
package docs

import _ "embed"

//go:embed openapi.yaml
var OpenAPISpec []byte

// ExplorerPage renders OpenAPISpec grouped by tag, with the verify operation
// expanded and ready to try.
//
//go:embed explorer.html
var ExplorerPage []byte
