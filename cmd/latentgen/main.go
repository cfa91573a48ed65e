// latentgen seals secrets ahead of time. It reads a manifest of plaintext
// values and emits either Go source declaring latent cells over the
// ciphertext, or a bundle file that latent.Load reads at runtime.
//
// Keys are given in hex or derived from a seed supplied through LATENT_SEED
// (or LATENT_PASSPHRASE and LATENT_SALT), so generation is reproducible
// without storing keys in the manifest.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd := newRootCmd(newApp(os.Stdout, os.Stderr, os.LookupEnv))
	cmd.SetArgs(args)
	return cmd.Execute()
}
