package hostprep

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the released version of hostprep.
var Version = strings.TrimSpace(rawVersion)
