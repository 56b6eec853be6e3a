//go:build !tinygo

package store

import (
	"bytes"
	"errors"
	"testing"
)

func TestBadgerInMemory(t *testing.T) {
	b, err := OpenBadger(BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	defer b.Close()

	if _, ok := b.Read(KeyCalibration); ok {
		t.Fatal("Read on empty db ok = true")
	}
	if err := b.Write(KeyCalibration, []byte{1, 2}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if v, ok := b.Read(KeyCalibration); !ok || !bytes.Equal(v, []byte{1, 2}) {
		t.Fatalf("Read = %v, %v", v, ok)
	}
	if err := b.Delete(KeyCalibration); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := b.Delete(KeyCalibration); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete err = %v, want ErrNotFound", err)
	}
}

func TestBadgerRequiresPath(t *testing.T) {
	if _, err := OpenBadger(BadgerConfig{}); err == nil {
		t.Fatal("OpenBadger without path succeeded")
	}
}
