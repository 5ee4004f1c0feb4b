// Package main is the entry point for the framecast application.
package main

import (
	"github.com/framecast/framecast/cmd"
	"github.com/framecast/framecast/config"
	"github.com/framecast/framecast/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
