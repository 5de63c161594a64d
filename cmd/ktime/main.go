package main

import (
	"os"

	"nikand.dev/go/cli"

	"tlog.app/go/ktime/cmd/ktime/ktimecmd"
)

func main() {
	cli.RunAndExit(ktimecmd.App(), os.Args, os.Environ())
}
