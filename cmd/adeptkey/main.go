// adeptkey recovers the Adobe ADEPT private license key of an activated
// Adobe Digital Editions installation.
package main

import (
	"os"

	"github.com/wethinkt/go-adeptkey/internal/cmd"
)

func main() {
	os.Exit(cmd.Main())
}
