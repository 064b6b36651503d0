// Command contactbook keeps contacts in a CSV file.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/contactbook/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
