// Command regeocode resolves coordinates to addresses through configurable
// provider chains, from the command line or as an HTTP/Kafka service.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
