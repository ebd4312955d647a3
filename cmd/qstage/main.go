package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/quatton/qstage/cmd/qstage/cmd"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "qstage crashed: %v\n", r)
			if os.Getenv("QSTAGE_DEBUG") != "" {
				debug.PrintStack()
			}
			os.Exit(2)
		}
	}()

	cmd.Execute()
}
