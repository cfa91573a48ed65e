package latent

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/zoobzio/latent/internal/mem"
)

// MaskType selects how a secret is partially shown in diagnostics.
type MaskType string

const (
	MaskFull  MaskType = "full"  // hunter2 -> *******
	MaskTail  MaskType = "tail"  // 0123456789abcdef -> ************cdef
	MaskToken MaskType = "token" // sk_live_4eC39HqLyjWD -> sk_live_************
)

// tailVisible is how many trailing characters MaskTail keeps.
const tailVisible = 4

// Masker applies a masking rule to a value.
type Masker interface {
	// Mask returns value with the hidden part replaced by '*'.
	Mask(value string) string
}

type fullMasker struct{}

// FullMasker hides every character.
func FullMasker() Masker {
	return &fullMasker{}
}

func (m *fullMasker) Mask(value string) string {
	return strings.Repeat("*", utf8.RuneCountInString(value))
}

type tailMasker struct{}

// TailMasker keeps the last four characters.
// Values of eight characters or fewer are hidden completely.
func TailMasker() Masker {
	return &tailMasker{}
}

func (m *tailMasker) Mask(value string) string {
	runes := utf8.RuneCountInString(value)
	if runes <= 2*tailVisible {
		return strings.Repeat("*", runes)
	}

	// Walk back tailVisible runes to find the cut.
	cut := len(value)
	for i := 0; i < tailVisible; i++ {
		_, size := utf8.DecodeLastRuneInString(value[:cut])
		cut -= size
	}
	return strings.Repeat("*", runes-tailVisible) + value[cut:]
}

type tokenMasker struct{}

// TokenMasker keeps the prefix of a vendor token up to its last '_' or '-'
// separator (sk_live_, ghp_, xoxb-) and hides the rest. Values without a
// prefix are masked like MaskTail.
func TokenMasker() Masker {
	return &tokenMasker{}
}

func (m *tokenMasker) Mask(value string) string {
	idx := strings.LastIndexAny(value, "_-")
	if idx < 1 || idx >= len(value)-1 || idx > len(value)/2 {
		return TailMasker().Mask(value)
	}
	prefix := value[:idx+1]
	return prefix + strings.Repeat("*", utf8.RuneCountInString(value[idx+1:]))
}

var builtinMaskers = map[MaskType]Masker{
	MaskFull:  FullMasker(),
	MaskTail:  TailMasker(),
	MaskToken: TokenMasker(),
}

// Mask applies the named masking rule. Unknown types hide everything.
func Mask(value string, mt MaskType) string {
	m, ok := builtinMaskers[mt]
	if !ok {
		m = builtinMaskers[MaskFull]
	}
	return m.Mask(value)
}

// Masked decrypts the cell if needed and returns a masked rendering.
// Byte cells are masked over their hex form.
func (c *Cell) Masked(mt MaskType) string {
	data := c.open()
	if c.view == ViewText {
		return Mask(c.Text(), mt)
	}
	if len(data) == 0 {
		return ""
	}

	encoded := make([]byte, hex.EncodedLen(len(data)))
	hex.Encode(encoded, data)
	out := Mask(unsafe.String(unsafe.SliceData(encoded), len(encoded)), mt)
	mem.Wipe(encoded)
	return out
}

// String describes the cell without its contents.
func (c *Cell) String() string {
	var b strings.Builder
	b.WriteString("latent.Cell{")
	if c.name != "" {
		b.WriteString(strconv.Quote(c.name))
		b.WriteString(", ")
	}
	b.WriteString(string(c.Algo()))
	b.WriteString(", ")
	b.WriteString(string(c.view))
	b.WriteString(", ")
	b.WriteString(strconv.Itoa(len(c.buf)))
	b.WriteString(" bytes, ")
	b.WriteString(c.State().String())
	b.WriteString("}")
	return b.String()
}

// GoString keeps %#v from dumping the buffer and key.
func (c *Cell) GoString() string {
	return c.String()
}

// Format renders every verb as String, so %x and %q cannot leak the buffer.
func (c *Cell) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte(c.String()))
}

// LogValue implements slog.LogValuer.
func (c *Cell) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", c.name),
		slog.String("cipher", string(c.Algo())),
		slog.String("view", string(c.view)),
		slog.String("state", c.State().String()),
		slog.Int("size", len(c.buf)),
	)
}
