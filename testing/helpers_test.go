package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/latent"
)

func TestTestRC4Key(t *testing.T) {
	key := TestRC4Key(t)
	if err := latent.RC4().ValidateKey(key); err != nil {
		t.Errorf("TestRC4Key() rejected: %v", err)
	}
}

func TestTestXORKey(t *testing.T) {
	key := TestXORKey(t)
	if err := latent.XOR().ValidateKey(key); err != nil {
		t.Errorf("TestXORKey() rejected: %v", err)
	}
}

func TestCountingCipher(t *testing.T) {
	c := NewCountingCipher(latent.RC4(), time.Millisecond)

	cell, err := latent.New([]byte("value"), c, TestRC4Key(t), latent.WithView(latent.ViewText))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer cell.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := cell.Text(); got != "value" {
				t.Errorf("Text() = %q", got)
			}
		}()
	}
	wg.Wait()

	if c.Encodes() != 1 {
		t.Errorf("Encodes() = %d, want 1", c.Encodes())
	}
	if c.Decodes() != 1 {
		t.Errorf("Decodes() = %d, want 1", c.Decodes())
	}
	if c.Algo() != latent.CipherRC4 {
		t.Errorf("Algo() = %q, want rc4", c.Algo())
	}
}

func TestNewTextCell(t *testing.T) {
	cell := NewTextCell(t, "greeting", "hello")
	if cell.Name() != "greeting" || cell.Text() != "hello" {
		t.Errorf("cell = %s / %q", cell.Name(), cell.Text())
	}
}

func TestSecrets_SealAll(t *testing.T) {
	secrets := Secrets(t)
	sealed := SealAll(t, secrets)

	if len(sealed) != len(secrets) {
		t.Fatalf("SealAll() returned %d records, want %d", len(sealed), len(secrets))
	}

	kinds := map[latent.ReleaseKind]bool{}
	for i, s := range sealed {
		if s.Name != secrets[i].Name {
			t.Errorf("record %d name = %q, want %q", i, s.Name, secrets[i].Name)
		}
		if err := s.Verify(); err != nil {
			t.Errorf("record %s: Verify() error: %v", s.Name, err)
		}
		kinds[s.Release] = true
	}
	if len(kinds) != 3 {
		t.Errorf("fixtures cover %d release kinds, want 3", len(kinds))
	}
}
