package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/habitkit?sslmode=disable"
	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestGetConnectionStringNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteConnectionString()

	_, err := GetConnectionString()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://testuser@localhost:5432/habitkit"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}

	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete, GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestVaultsAreIndependent(t *testing.T) {
	gokeyring.MockInit()

	a := Vault{Service: "habitkit-test", User: "a"}
	b := Vault{Service: "habitkit-test", User: "b"}
	if err := a.Set("secret-a"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	if _, err := b.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected other vault to be empty, got %v", err)
	}
	got, err := a.Get()
	if err != nil || got != "secret-a" {
		t.Errorf("Get() = %q, %v, want secret-a", got, err)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("expected mock keyring to be available")
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus session"))
	t.Cleanup(gokeyring.MockInit)

	_, err := GetConnectionString()
	if !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("expected ErrKeyringUnavailable, got %v", err)
	}
	if IsAvailable() {
		t.Error("expected keyring to be reported unavailable")
	}
}
