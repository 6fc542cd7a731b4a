// msmectl is the offline CLI for the matching and valuation engine.
package main

import (
	"os"

	"github.com/debnit/MsmeBazaar-sub003/internal/interfaces/cli"
)

func main() {
	os.Exit(cli.Execute())
}
