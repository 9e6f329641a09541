// Package main is the entry point for the count-func CLI tool.
package main

import (
	"os"

	"github.com/countfunc/countfunc/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
