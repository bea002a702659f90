// cmd/chameleon/main.go
package main

import (
	"fmt"
	"os"

	"github.com/chameleon-sec/chameleon/cmd/chameleon/commands"
)

func main() {
	command := commands.NewCommand()

	if err := command.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
