// Command omnimesh fans a prompt out to the configured AI providers and
// prints the consolidated answer.
package main

import "os"

var version = "dev"

func main() {
	if err := Execute(version); err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}
