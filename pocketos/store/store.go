// Package store persists small values (high scores, calibration, settings)
// across restarts.
package store

import (
	"encoding/binary"
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("store: key not found")
	ErrCorrupt  = errors.New("store: corrupt table")
	ErrTooLarge = errors.New("store: table too large")
)

// Well-known keys.
const (
	KeyCalibration = "touch.calibration"
	KeyBrightness  = "system.brightness"
	KeySnakeHigh   = "snake.highscore"
)

// Store is the persistent key/value collaborator.
type Store interface {
	Read(key string) ([]byte, bool)
	Write(key string, val []byte) error
}

// Memory is a volatile Store.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Read(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (m *Memory) Write(key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), val...)
	return nil
}

// Delete removes key.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return ErrNotFound
	}
	delete(m.data, key)
	return nil
}

// ReadUint32 reads a little-endian uint32 stored under key.
func ReadUint32(s Store, key string) (uint32, bool) {
	b, ok := s.Read(key)
	if !ok || len(b) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

// WriteUint32 stores v under key as a little-endian uint32.
func WriteUint32(s Store, key string, v uint32) error {
	return s.Write(key, binary.LittleEndian.AppendUint32(nil, v))
}
