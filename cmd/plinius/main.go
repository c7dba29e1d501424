// Command plinius is the pricing CLI.
package main

import (
	"fmt"
	"os"

	"plinius-pricer/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
