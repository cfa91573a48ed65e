package latent

import "unsafe"

// View is a decrypted buffer typed by its ViewMode.
// It aliases the cell's memory and is only valid until the cell is closed.
type View struct {
	mode ViewMode
	data []byte
}

// Mode returns how the buffer should be interpreted.
func (v View) Mode() ViewMode {
	return v.mode
}

// Len returns the buffer size in bytes.
func (v View) Len() int {
	return len(v.data)
}

// Bytes returns the raw buffer.
func (v View) Bytes() []byte {
	return v.data[:len(v.data):len(v.data)]
}

// Text returns the buffer as a string sharing its memory.
// The UTF-8 check happens at construction, not here.
func (v View) Text() string {
	if v.mode != ViewText {
		panic(ErrViewMode)
	}
	if len(v.data) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(v.data), len(v.data))
}
