// Package schemas embeds the JSON Schemas used to validate configuration.
package schemas

import _ "embed"

// ConfigV1Schema validates commitmirror.yaml after YAML decoding.
//
//go:embed config.v1.schema.json
var ConfigV1Schema []byte
