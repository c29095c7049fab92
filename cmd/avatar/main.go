package main

import (
	"fmt"
	"os"

	"avatar-studio/internal/cli"
)

func main() {
	app := &cli.App{}
	root := cli.NewRootCmd(app)
	root.AddCommand(newViewCmd(app))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "avatar:", err)
		os.Exit(1)
	}
}
