// Package schemas holds the JSON Schema documents shipped with the binary.
package schemas

import _ "embed"

// Portfolio is the JSON Schema for portfolio content files.
//
//go:embed portfolio.schema.json
var Portfolio []byte
