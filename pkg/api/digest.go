package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest accumulates a BLAKE3 hash over the exact wire bytes of every
// complete record in a stream. Sender and receiver compute it
// independently, so matching digests mean the session arrived intact.
//
// Partial trailing records are never fed in.
type Digest struct {
	h *blake3.Hasher
	n uint64
}

func NewDigest() *Digest { return &Digest{h: blake3.New()} }

// Add feeds one record's wire bytes.
func (d *Digest) Add(b [RecordSize]byte) {
	_, _ = d.h.Write(b[:])
	d.n++
}

// AddRecord encodes r and feeds it.
func (d *Digest) AddRecord(r Record) {
	var b [RecordSize]byte
	enc, _ := r.AppendBinary(b[:0])
	d.Add([RecordSize]byte(enc))
}

// Count is the number of records seen.
func (d *Digest) Count() uint64 { return d.n }

// Sum returns the hex-encoded digest of everything added so far.
func (d *Digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
