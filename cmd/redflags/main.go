// Command redflags is the operator CLI of the red-flag engine.
package main

import (
	"os"

	"github.com/akashent3/redflags-sub002/internal/cli"
)

func main() {
	os.Exit(cli.New().Execute())
}
