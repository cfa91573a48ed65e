package gen

import (
	"encoding/hex"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/zoobzio/latent"
)

// Inspect writes a table describing each record in a bundle. Keys are masked
// and nothing is decrypted.
func Inspect(w io.Writer, b latent.Bundle) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "bundle version %d, %d secrets\n", b.Version, len(b.Secrets))
	fmt.Fprintln(tw, "NAME\tCIPHER\tVIEW\tRELEASE\tSIZE\tKEY\tCHECKSUM")

	for _, s := range b.Secrets {
		status := "ok"
		switch {
		case len(s.Checksum) == 0:
			status = "none"
		case s.Verify() != nil:
			status = "MISMATCH"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			s.Name,
			s.Cipher,
			orDefault(string(s.View), string(latent.ViewBytes)),
			orDefault(string(s.Release), string(latent.ReleaseWipe)),
			len(s.Ciphertext),
			latent.Mask(hex.EncodeToString(s.Key), latent.MaskTail),
			status,
		)
	}
	return tw.Flush()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
