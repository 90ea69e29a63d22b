// Command backdrop renders the site's particle backgrounds outside the
// browser: in a desktop window, in a terminal, headless, or to a PNG.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
