// Command rowmap inspects row mapping files.
//
//	rowmap validate FILE...           report diagnostics, exit 1 on errors
//	rowmap columns FILE TYPE [-p P]   print the columns TYPE reads under prefix P
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rowmap:", err)
		os.Exit(1)
	}
}
