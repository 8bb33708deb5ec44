// ABOUTME: Entry point for the campaign-watch CLI
// ABOUTME: Command-line client and dashboard for the Campaign Watch API

package main

import (
	"fmt"
	"os"

	"github.com/rodriigosc/campaign-watch/cmd"
	"github.com/rodriigosc/campaign-watch/logger"
)

func main() {
	logger.Init()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
