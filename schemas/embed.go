// Package schemas holds the JSON Schemas describing the data exchanged with content sources.
package schemas

import _ "embed"

// ContentBundleSchema is the schema for a content bundle document
//
//go:embed content_bundle.schema.json
var ContentBundleSchema string
