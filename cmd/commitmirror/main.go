package main

import (
	"os"

	mirrorcmd "github.com/commitmirror/commitmirror/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	mirrorcmd.SetVersionInfo(version, commit)
	os.Exit(mirrorcmd.Execute())
}
