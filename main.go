// main is the entry point for the octocred CLI.
package main

import (
	"fmt"
	"os"

	"github.com/octocred/octocred/cmd"
	"github.com/octocred/octocred/internal/histstore"
)

func main() {
	err := cmd.Execute()
	histstore.CloseStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
