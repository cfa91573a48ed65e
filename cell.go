package latent

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/zoobzio/latent/internal/mem"
)

// State is the position of a Cell's decode gate. It only moves forward.
type State uint32

const (
	// StateEncrypted means the buffer holds ciphertext and no reader has started decoding.
	StateEncrypted State = iota

	// StateDecrypting means exactly one reader owns the buffer and is decoding it.
	StateDecrypting

	// StateDecrypted means the buffer holds plaintext and any reader may view it.
	StateDecrypted

	// StateReleased means the end-of-life action has run and the cell is inert.
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateEncrypted:
		return "encrypted"
	case StateDecrypting:
		return "decrypting"
	case StateDecrypted:
		return "decrypted"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Option configures a Cell at construction.
type Option func(*options)

type options struct {
	name    string
	view    ViewMode
	release Release
	lock    bool
}

// WithName labels the cell for signals and error messages.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithView selects how the decrypted buffer is exposed. Defaults to ViewBytes.
func WithView(mode ViewMode) Option {
	return func(o *options) { o.view = mode }
}

// WithRelease selects the end-of-life action. Defaults to Wipe.
func WithRelease(r Release) Option {
	return func(o *options) { o.release = r }
}

// WithLockedMemory pins the cell buffer in physical memory until Close.
func WithLockedMemory() Option {
	return func(o *options) { o.lock = true }
}

func buildOptions(base options, opts []Option) options {
	for _, opt := range opts {
		opt(&base)
	}
	if base.view == "" {
		base.view = ViewBytes
	}
	if base.release.kind == "" {
		base.release = Wipe()
	}
	return base
}

// Cell holds one secret as ciphertext and decodes it in place the first time it
// is read. Any number of goroutines may read a Cell concurrently; the decode runs
// exactly once. Close applies the end-of-life action.
//
// Slices and strings returned by a Cell alias its buffer. They must not be
// modified, and must not be used after Close.
type Cell struct {
	state   atomic.Uint32
	buf     []byte
	cipher  Cipher
	key     []byte
	view    ViewMode
	release Release
	name    string
	locked  bool
}

// New seals plaintext into a Cell. The key is validated before anything is
// encoded; a text view additionally requires valid UTF-8. On success the
// plaintext slice is wiped, so the cell's ciphertext is the only copy left.
func New(plaintext []byte, c Cipher, key []byte, opts ...Option) (*Cell, error) {
	o := buildOptions(options{}, opts)
	if err := validate(c, key, o); err != nil {
		return nil, withSecret(err, o.name)
	}
	if o.view == ViewText && !utf8.Valid(plaintext) {
		return nil, &ConfigError{Err: ErrInvalidText, Secret: o.name}
	}

	buf := make([]byte, len(plaintext))
	copy(buf, plaintext)
	c.Encode(buf, key)

	cell, err := newCell(buf, c, key, o)
	if err != nil {
		mem.Wipe(buf)
		return nil, err
	}
	mem.Wipe(plaintext)
	return cell, nil
}

// validate checks every construction-time constraint that does not depend on content.
func validate(c Cipher, key []byte, o options) error {
	if c == nil {
		return newConfigError(ErrUnknownCipher, "", "cipher is nil")
	}
	if err := c.ValidateKey(key); err != nil {
		return err
	}
	if !IsValidViewMode(o.view) {
		return newConfigError(ErrUnknownView, string(o.view), "")
	}
	if !IsValidReleaseKind(o.release.Kind()) {
		return newConfigError(ErrUnknownRelease, string(o.release.Kind()), "")
	}
	return o.release.validate(c)
}

// newCell wraps ciphertext that is already in its final buffer.
func newCell(ciphertext []byte, c Cipher, key []byte, o options) (*Cell, error) {
	cell := &Cell{
		buf:     ciphertext,
		cipher:  c,
		key:     append([]byte(nil), key...),
		view:    o.view,
		release: o.release,
		name:    o.name,
	}

	if o.lock {
		if err := mem.Lock(cell.buf); err != nil {
			return nil, err
		}
		cell.locked = true
		// Views alias buf and may outlive the cell, so collection only unpins.
		runtime.SetFinalizer(cell, (*Cell).unpin)
	}

	emitCellSealed(context.Background(), o.name, c.Algo(), o.view, o.release.Kind(), len(ciphertext))
	return cell, nil
}

// open runs the gate and returns the plaintext buffer.
func (c *Cell) open() []byte {
	if State(c.state.Load()) == StateDecrypted {
		return c.buf
	}

	if c.state.CompareAndSwap(uint32(StateEncrypted), uint32(StateDecrypting)) {
		start := time.Now()
		c.cipher.Decode(c.buf, c.key)
		c.state.Store(uint32(StateDecrypted))
		emitCellOpened(context.Background(), c.name, c.cipher.Algo(), len(c.buf), time.Since(start))
		return c.buf
	}

	// Another reader owns the decode. No timeout: a decoder that never finishes
	// leaves the waiters spinning.
	for {
		switch State(c.state.Load()) {
		case StateDecrypted:
			return c.buf
		case StateReleased:
			panic(ErrReleased)
		}
		runtime.Gosched()
	}
}

// View returns the decrypted buffer typed by the cell's view mode.
func (c *Cell) View() View {
	return View{mode: c.view, data: c.open()}
}

// Bytes returns the decrypted buffer.
func (c *Cell) Bytes() []byte {
	return c.View().Bytes()
}

// Text returns the decrypted buffer as a string without copying.
// Panics with ErrViewMode if the cell was not built with ViewText.
func (c *Cell) Text() string {
	return c.View().Text()
}

// Close applies the end-of-life action exactly once and leaves the cell inert.
// Nothing else runs it: a cell that is never closed keeps its plaintext.
// A decode in progress is allowed to finish first. Later reads panic with
// ErrReleased. Close is idempotent; the returned error only reports a failure
// to unlock memory.
func (c *Cell) Close() error {
	for {
		prior := State(c.state.Load())
		switch prior {
		case StateReleased:
			return nil
		case StateDecrypting:
			runtime.Gosched()
			continue
		}
		if c.state.CompareAndSwap(uint32(prior), uint32(StateReleased)) {
			runtime.SetFinalizer(c, nil)
			return c.finish(prior)
		}
	}
}

// finish runs the release action against whatever the buffer holds.
func (c *Cell) finish(prior State) error {
	c.release.apply(c.buf, c.cipher, c.key, prior)

	var err error
	if c.locked {
		err = mem.Unlock(c.buf)
	}
	emitCellReleased(context.Background(), c.name, c.release.Kind(), prior, err)
	return err
}

func (c *Cell) unpin() {
	_ = mem.Unlock(c.buf)
}

// State returns the current gate state.
func (c *Cell) State() State {
	return State(c.state.Load())
}

// Len returns the buffer size in bytes.
func (c *Cell) Len() int {
	return len(c.buf)
}

// Name returns the label given with WithName.
func (c *Cell) Name() string {
	return c.name
}

// Algo returns the cipher algorithm protecting the buffer.
func (c *Cell) Algo() CipherAlgo {
	return c.cipher.Algo()
}

// Mode returns the view mode.
func (c *Cell) Mode() ViewMode {
	return c.view
}

// ReleaseKind returns the end-of-life action that Close will apply.
func (c *Cell) ReleaseKind() ReleaseKind {
	return c.release.Kind()
}
