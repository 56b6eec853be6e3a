package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"sort"
	"sync"
)

// Flash is the raw non-volatile memory a FlashKV lives in. hal.Flash
// satisfies it.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

var flashMagic = [4]byte{'P', 'K', 'V', '1'}

// Table layout, little endian:
//
//	magic[4] count:u16 { klen:u8 key vlen:u16 val }* crc32:u32
//
// The checksum covers everything before it.
const (
	headerLen = 6
	crcLen    = 4
)

// FlashKV keeps a small key/value table in the first erase blocks of a flash
// region. Every write rewrites the whole table.
type FlashKV struct {
	mu    sync.Mutex
	flash Flash
	size  uint32
	data  map[string][]byte
}

// OpenFlashKV loads the table at offset 0 of f, using at most size bytes
// (0 means the whole device). Erased flash opens as an empty table.
func OpenFlashKV(f Flash, size uint32) (*FlashKV, error) {
	if size == 0 || size > f.SizeBytes() {
		size = f.SizeBytes()
	}
	kv := &FlashKV{flash: f, size: size, data: make(map[string][]byte)}

	var hdr [headerLen]byte
	if _, err := f.ReadAt(hdr[:], 0); err != nil {
		return nil, fmt.Errorf("read table header: %w", err)
	}
	if isErased(hdr[:]) {
		return kv, nil
	}
	if !bytes.Equal(hdr[:4], flashMagic[:]) {
		return nil, fmt.Errorf("bad magic %q: %w", hdr[:4], ErrCorrupt)
	}

	count := int(binary.LittleEndian.Uint16(hdr[4:]))
	buf := make([]byte, size)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	off := headerLen
	for i := 0; i < count; i++ {
		if off+1 > len(buf) {
			return nil, ErrCorrupt
		}
		klen := int(buf[off])
		off++
		if off+klen+2 > len(buf) {
			return nil, ErrCorrupt
		}
		key := string(buf[off : off+klen])
		off += klen
		vlen := int(binary.LittleEndian.Uint16(buf[off:]))
		off += 2
		if off+vlen > len(buf) {
			return nil, ErrCorrupt
		}
		kv.data[key] = append([]byte(nil), buf[off:off+vlen]...)
		off += vlen
	}
	if off+crcLen > len(buf) {
		return nil, ErrCorrupt
	}
	if crc32.ChecksumIEEE(buf[:off]) != binary.LittleEndian.Uint32(buf[off:]) {
		return nil, fmt.Errorf("checksum mismatch: %w", ErrCorrupt)
	}
	return kv, nil
}

func isErased(b []byte) bool {
	for _, v := range b {
		if v != 0xFF {
			return false
		}
	}
	return true
}

func (kv *FlashKV) Read(key string) ([]byte, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (kv *FlashKV) Write(key string, val []byte) error {
	if len(key) == 0 || len(key) > 0xFF || len(val) > 0xFFFF {
		return fmt.Errorf("write %q: %w", key, ErrTooLarge)
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()

	prev, had := kv.data[key]
	if had && bytes.Equal(prev, val) {
		return nil
	}
	kv.data[key] = append([]byte(nil), val...)
	if err := kv.flush(); err != nil {
		if had {
			kv.data[key] = prev
		} else {
			delete(kv.data, key)
		}
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Delete removes key and rewrites the table.
func (kv *FlashKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	prev, ok := kv.data[key]
	if !ok {
		return ErrNotFound
	}
	delete(kv.data, key)
	if err := kv.flush(); err != nil {
		kv.data[key] = prev
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (kv *FlashKV) encode() []byte {
	keys := make([]string, 0, len(kv.data))
	for k := range kv.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := make([]byte, headerLen, 64)
	copy(buf, flashMagic[:])
	binary.LittleEndian.PutUint16(buf[4:], uint16(len(keys)))
	for _, k := range keys {
		v := kv.data[k]
		buf = append(buf, byte(len(k)))
		buf = append(buf, k...)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(v)))
		buf = append(buf, v...)
	}
	return binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))
}

func (kv *FlashKV) flush() error {
	buf := kv.encode()
	if uint32(len(buf)) > kv.size {
		return ErrTooLarge
	}
	block := kv.flash.EraseBlockBytes()
	if block == 0 {
		block = 1
	}
	n := (uint32(len(buf)) + block - 1) / block * block
	if err := kv.flash.Erase(0, n); err != nil {
		return fmt.Errorf("erase: %w", err)
	}
	if _, err := kv.flash.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("program: %w", err)
	}
	return nil
}
