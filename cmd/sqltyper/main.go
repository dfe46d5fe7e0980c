// Command sqltyper analyzes a single parameterized SQL statement against a
// live PostgreSQL connection and prints its inferred parameter and result
// shape.
package main

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/sqltyper/cmd/sqltyper/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
