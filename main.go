// main is the entry point for the undid CLI.
package main

import (
	"github.com/undid-go/undid/cmd"
	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/internal/runstore"
)

func main() {
	err := cmd.Execute()
	runstore.CloseStores()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
