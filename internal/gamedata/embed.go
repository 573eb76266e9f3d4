// Package gamedata provides embedded game data and utilities for loading it.
package gamedata

import "embed"

// dataFS embeds the JSON tables and YAML levels from this directory at
// build time.
//
//go:embed *.json levels/*.yaml
var dataFS embed.FS
