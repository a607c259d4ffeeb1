// accidentwizard guides a citizen through an occupational accident report and
// prepares the notification document.
//
// Usage:
//
//	accidentwizard wizard [--from draft.yaml | --sample]
//	accidentwizard submit draft.yaml [--attach medical=karta.pdf] [--format pdf]
//	accidentwizard validate draft.yaml
//	accidentwizard serve [--addr :8000]
//	accidentwizard sample [-o draft.yaml] [--witnesses 1] [--seed 42]
//	accidentwizard documents [id]
//	accidentwizard config
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
