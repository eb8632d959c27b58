package main

import (
	"github.com/robotalks/mcu.go/pkg/cli/sh"
	"github.com/robotalks/mcu.go/pkg/uart"

	_ "github.com/robotalks/mcu.go/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	uart.SetupFlags()
}

func main() {
	sh.Main()
}
