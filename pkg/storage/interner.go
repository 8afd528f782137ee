package storage

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// The label interner assigns a stable, small varint id to every distinct
// label or field name ever written, persisted in bucketLabelInterner
// alongside the store. Records on disk carry the interned id, not the
// string, per spec.md §4.A.
var nextIDKey = []byte("\x00next_id")

func nameKey(name string) []byte {
	return append([]byte("n:"), name...)
}

func idKey(id uint64) []byte {
	buf := make([]byte, 1+8)
	buf[0] = 'i'
	binary.BigEndian.PutUint64(buf[1:], id)
	return buf
}

// internName returns name's id, assigning a fresh one if this is the first
// time name has been seen. Must run inside a write transaction.
func internName(tx *bolt.Tx, name string) (uint64, error) {
	b := tx.Bucket(bucketLabelInterner)
	if v := b.Get(nameKey(name)); v != nil {
		return binary.BigEndian.Uint64(v), nil
	}

	var next uint64
	if v := b.Get(nextIDKey); v != nil {
		next = binary.BigEndian.Uint64(v)
	}
	id := next
	next++

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err := b.Put(nextIDKey, buf); err != nil {
		return 0, fmt.Errorf("interning %q: %w", name, err)
	}
	binary.BigEndian.PutUint64(buf, id)
	if err := b.Put(nameKey(name), buf); err != nil {
		return 0, fmt.Errorf("interning %q: %w", name, err)
	}
	if err := b.Put(idKey(id), []byte(name)); err != nil {
		return 0, fmt.Errorf("interning %q: %w", name, err)
	}
	return id, nil
}

// lookupName resolves an already-interned id back to its string, valid in
// either a read or write transaction.
func lookupName(tx *bolt.Tx, id uint64) (string, error) {
	b := tx.Bucket(bucketLabelInterner)
	v := b.Get(idKey(id))
	if v == nil {
		return "", fmt.Errorf("interned id %d not found", id)
	}
	return string(v), nil
}
