package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/colin4124/knitkit/internal/cli"
	"github.com/colin4124/knitkit/internal/version"
)

func main() {
	rootCmd := cli.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "KNITKIT",
		Section: "1",
		Source:  "knitkit " + version.Version,
		Manual:  "knitkit manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
