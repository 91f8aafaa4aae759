// Command crisisctl prints filtered views and integrity reports for the
// crisis datasets.
package main

import (
	"fmt"
	"os"

	"github.com/couchcryptid/crisis-data-service/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
