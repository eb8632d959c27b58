// Package all registers all shell commands.
package all

import (
	// commands on the containers
	_ "github.com/robotalks/mcu.go/pkg/cli/cmds/containers"
)
