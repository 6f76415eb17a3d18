// Command botshell hosts and controls the backend server of a desktop shell.
package main

import (
	"fmt"
	"os"

	"github.com/tessro/botshell/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "botshell: %v\n", err)
		os.Exit(1)
	}
}
