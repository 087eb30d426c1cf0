package main

import (
	"fmt"
	"os"

	"github.com/teranos/blockgen/cmd/blockgen/commands"
	"github.com/teranos/blockgen/errors"
	"github.com/teranos/blockgen/logger"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
