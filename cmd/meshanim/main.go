// Command meshanim loads a directory of per-timestep mesh slices written
// by the Aliev-Panfilov solver and turns it into an animated GIF, an
// HTML snapshot, a NetCDF archive and a run manifest.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "meshanim:", err)
		os.Exit(1)
	}
}
