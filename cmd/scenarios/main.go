// Command scenarios drives the acceptance scenarios against a running
// property-ops server.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
