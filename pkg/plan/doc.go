// Package plan describes what a provisioning run does and loads that description
// from YAML or JSON files.
//
// A plan file only needs the keys it changes: Load decodes it on top of Default,
// and Override applies dotted "key.path=value" pairs the same way.
package plan
