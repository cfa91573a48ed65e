package latent

import (
	"context"
	"errors"
	"testing"
)

type dbSecrets struct {
	Password *Cell `latent:"db_password"`
}

type appSecrets struct {
	API      *Cell `latent:"api_key"`
	HMAC     *Cell `latent:"hmac"`
	Missing  *Cell `latent:"not_there,optional"`
	Untagged *Cell
	DB       dbSecrets
	Replica  *dbSecrets
	Label    string
}

type strictSecrets struct {
	Missing *Cell `latent:"not_there"`
}

type wrongTypeSecrets struct {
	Password string `latent:"db_password"`
}

type badOptionSecrets struct {
	Password *Cell `latent:"db_password,required"`
}

type loopSecrets struct {
	Token *Cell `latent:"api_key"`
	Next  *loopSecrets
}

type manualSecrets struct {
	Token *Cell
	calls int
}

func (m *manualSecrets) BindSecrets(store *Store) error {
	m.calls++
	cell, err := store.Cell("api_key")
	if err != nil {
		return err
	}
	m.Token = cell
	return nil
}

func loadFixtureStore(t *testing.T) *Store {
	t.Helper()
	data, err := EncodeBundle(&testCodec{}, sealedFixtures(t)...)
	if err != nil {
		t.Fatalf("EncodeBundle() error: %v", err)
	}
	store, err := Load(context.Background(), &testCodec{}, data)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBind(t *testing.T) {
	ResetBindings()
	store := loadFixtureStore(t)

	var s appSecrets
	if err := Bind(store, &s); err != nil {
		t.Fatalf("Bind() error: %v", err)
	}

	api, _ := store.Cell("api_key")
	if s.API != api {
		t.Error("API should be the store's api_key cell")
	}
	if s.HMAC == nil || s.HMAC.Name() != "hmac" {
		t.Error("HMAC not bound")
	}
	if s.Missing != nil {
		t.Error("optional missing secret should leave the field nil")
	}
	if s.Untagged != nil {
		t.Error("untagged field should be left alone")
	}
	if s.DB.Password == nil || s.DB.Password.Text() != "hunter2" {
		t.Error("nested struct field not bound")
	}
	if s.Replica == nil || s.Replica.Password != s.DB.Password {
		t.Error("nil struct pointer should be allocated and bound")
	}
}

func TestBind_KeepsAllocatedPointer(t *testing.T) {
	ResetBindings()
	store := loadFixtureStore(t)

	replica := &dbSecrets{}
	s := appSecrets{Replica: replica}
	if err := Bind(store, &s); err != nil {
		t.Fatalf("Bind() error: %v", err)
	}
	if s.Replica != replica {
		t.Error("existing struct pointer should be reused")
	}
	if replica.Password == nil {
		t.Error("field behind existing pointer not bound")
	}
}

func TestBuildBindPlan_Hops(t *testing.T) {
	plan, err := buildBindPlan[appSecrets]()
	if err != nil {
		t.Fatalf("buildBindPlan() error: %v", err)
	}

	for _, f := range plan.fields {
		if len(f.hops) != len(f.index) {
			t.Errorf("%s: %d hops for %d indices", f.name, len(f.hops), len(f.index))
			continue
		}
		viaPointer := f.index[0] == 5 // Replica
		if f.hops[0] != viaPointer {
			t.Errorf("%s: hops[0] = %v, want %v", f.name, f.hops[0], viaPointer)
		}
		for _, hop := range f.hops[1:] {
			if hop {
				t.Errorf("%s: unexpected hop past the first index", f.name)
			}
		}
	}
}

func TestBind_MissingSecret(t *testing.T) {
	ResetBindings()
	store := loadFixtureStore(t)

	var s strictSecrets
	err := Bind(store, &s)
	if !errors.Is(err, ErrUnknownSecret) {
		t.Errorf("Bind() error = %v, want ErrUnknownSecret", err)
	}
}

func TestBind_InvalidTags(t *testing.T) {
	ResetBindings()
	store := loadFixtureStore(t)

	if err := Bind(store, &wrongTypeSecrets{}); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("Bind(wrong type) error = %v, want ErrInvalidTag", err)
	}
	if err := Bind(store, &badOptionSecrets{}); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("Bind(bad option) error = %v, want ErrInvalidTag", err)
	}
}

func TestBind_NonStruct(t *testing.T) {
	store := loadFixtureStore(t)

	n := 0
	if err := Bind(store, &n); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("Bind(*int) error = %v, want ErrInvalidTag", err)
	}
	if err := Bind[appSecrets](store, nil); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("Bind(nil) error = %v, want ErrInvalidTag", err)
	}
}

func TestBind_RecursiveType(t *testing.T) {
	ResetBindings()
	store := loadFixtureStore(t)

	var s loopSecrets
	if err := Bind(store, &s); err != nil {
		t.Fatalf("Bind() error: %v", err)
	}
	if s.Token == nil {
		t.Error("Token not bound")
	}
	if s.Next != nil {
		t.Error("recursive pointer should not be followed")
	}
}

func TestBind_ClosedStore(t *testing.T) {
	ResetBindings()
	store := loadFixtureStore(t)
	_ = store.Close()

	var s appSecrets
	if err := Bind(store, &s); !errors.Is(err, ErrReleased) {
		t.Errorf("Bind() error = %v, want ErrReleased", err)
	}
}

func TestBind_Binder(t *testing.T) {
	store := loadFixtureStore(t)

	var s manualSecrets
	if err := Bind(store, &s); err != nil {
		t.Fatalf("Bind() error: %v", err)
	}
	if s.calls != 1 || s.Token == nil {
		t.Errorf("BindSecrets calls = %d, token = %v", s.calls, s.Token)
	}
}

func TestParseBindTag(t *testing.T) {
	tests := []struct {
		tag      string
		secret   string
		optional bool
		wantErr  bool
	}{
		{"api_key", "api_key", false, false},
		{"api_key,optional", "api_key", true, false},
		{" api_key , optional ", "api_key", true, false},
		{"", "", false, true},
		{",optional", "", false, true},
		{"api_key,lazy", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			secret, optional, err := parseBindTag(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseBindTag(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if secret != tt.secret || optional != tt.optional {
				t.Errorf("parseBindTag(%q) = %q, %v", tt.tag, secret, optional)
			}
		})
	}
}
