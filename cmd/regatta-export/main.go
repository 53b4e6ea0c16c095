// Command regatta-export renders the reimbursement documents of a season
// from a JSON file, without running the portal server.
//
//	regatta-export sepa -i season-2024.json -o out/ --filename juni
//	regatta-export bundle -i - < season-2024.json
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
