// Package main is the entry point for the liberate CLI.
package main

import (
	"os"

	"github.com/jniedergang/mls-liberate/cmd/liberate/commands"
)

func main() {
	os.Exit(commands.Execute())
}
