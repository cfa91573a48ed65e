package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"github.com/zoobzio/latent"
)

// DefaultPackage is used when neither the manifest nor the caller names one.
const DefaultPackage = "secrets"

var goTemplate = template.Must(template.New("go").Funcs(template.FuncMap{
	"blob":    blobLiteral,
	"cipher":  cipherConst,
	"view":    viewConst,
	"release": releaseConst,
}).Parse(`// Code generated by latentgen. DO NOT EDIT.

package {{.Package}}

import "github.com/zoobzio/latent"

var (
{{- range .Entries}}
	// {{.Var}} holds the {{printf "%q" .Sealed.Name}} secret.
	{{.Var}} = latent.MustFromSealed(latent.Sealed{
		Name:       {{printf "%q" .Sealed.Name}},
		Cipher:     {{cipher .Sealed.Cipher}},
		View:       {{view .Sealed.View}},
		Release:    {{release .Sealed.Release}},
		Key:        {{blob .Sealed.Key}},
		{{- if .Sealed.ReleaseKey}}
		ReleaseKey: {{blob .Sealed.ReleaseKey}},
		{{- end}}
		Ciphertext: {{blob .Sealed.Ciphertext}},
		Checksum:   {{blob .Sealed.Checksum}},
	})
{{- end}}
)

// Store collects every generated secret into a store.
func Store() (*latent.Store, error) {
	return latent.NewStore(
	{{- range .Entries}}
		{{.Var}},
	{{- end}}
	)
}
`))

// GoSource renders entries as a gofmt-ed Go file.
func GoSource(pkg string, entries []Entry) ([]byte, error) {
	if pkg == "" {
		pkg = DefaultPackage
	}

	var buf bytes.Buffer
	if err := goTemplate.Execute(&buf, struct {
		Package string
		Entries []Entry
	}{pkg, entries}); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	return src, nil
}

// blobLiteral renders bytes as a latent.Blob over a string constant made only
// of \x escapes.
func blobLiteral(b latent.Blob) string {
	if len(b) == 0 {
		return "nil"
	}
	var s strings.Builder
	s.Grow(len(b)*4 + 16)
	s.WriteString(`latent.Blob("`)
	for _, c := range b {
		fmt.Fprintf(&s, `\x%02x`, c)
	}
	s.WriteString(`")`)
	return s.String()
}

func cipherConst(algo latent.CipherAlgo) string {
	switch algo {
	case latent.CipherXOR:
		return "latent.CipherXOR"
	case latent.CipherRC4:
		return "latent.CipherRC4"
	default:
		return fmt.Sprintf("latent.CipherAlgo(%q)", algo)
	}
}

func viewConst(mode latent.ViewMode) string {
	switch mode {
	case latent.ViewText:
		return "latent.ViewText"
	case latent.ViewBytes:
		return "latent.ViewBytes"
	default:
		return fmt.Sprintf("latent.ViewMode(%q)", mode)
	}
}

func releaseConst(kind latent.ReleaseKind) string {
	switch kind {
	case latent.ReleaseWipe:
		return "latent.ReleaseWipe"
	case latent.ReleaseReEncrypt:
		return "latent.ReleaseReEncrypt"
	case latent.ReleaseNoOp:
		return "latent.ReleaseNoOp"
	default:
		return fmt.Sprintf("latent.ReleaseKind(%q)", kind)
	}
}
