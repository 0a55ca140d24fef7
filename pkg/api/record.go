// Package api holds the record type shared by the receiver and the sender.
//
// Wire format: one record is exactly RecordSize bytes, three IEEE-754
// single-precision floats in big-endian order (yaw, pitch, roll). There is
// no length prefix, checksum or delimiter; records are sent back to back.
package api

import (
	"encoding/binary"
	"errors"
	"math"
)

// RecordSize is the number of bytes one record occupies on the wire.
const RecordSize = 12

// ErrShortRecord is returned by UnmarshalBinary for inputs that are not
// exactly RecordSize bytes long.
var ErrShortRecord = errors.New("record must be exactly 12 bytes")

// Record is one yaw/pitch/roll sample.
type Record struct {
	Yaw   float32 `json:"yaw"`
	Pitch float32 `json:"pitch"`
	Roll  float32 `json:"roll"`
}

// DecodeRecord decodes a complete wire record. NaN payloads and signed
// zeros survive unchanged.
func DecodeRecord(b [RecordSize]byte) Record {
	return Record{
		Yaw:   math.Float32frombits(binary.BigEndian.Uint32(b[0:4])),
		Pitch: math.Float32frombits(binary.BigEndian.Uint32(b[4:8])),
		Roll:  math.Float32frombits(binary.BigEndian.Uint32(b[8:12])),
	}
}

// AppendBinary appends the wire encoding of r to b.
func (r Record) AppendBinary(b []byte) ([]byte, error) {
	b = binary.BigEndian.AppendUint32(b, math.Float32bits(r.Yaw))
	b = binary.BigEndian.AppendUint32(b, math.Float32bits(r.Pitch))
	b = binary.BigEndian.AppendUint32(b, math.Float32bits(r.Roll))
	return b, nil
}

// MarshalBinary returns the RecordSize-byte wire encoding of r.
func (r Record) MarshalBinary() ([]byte, error) {
	return r.AppendBinary(make([]byte, 0, RecordSize))
}

func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return ErrShortRecord
	}
	*r = DecodeRecord([RecordSize]byte(data))
	return nil
}

// Bits returns the raw bit patterns of the three fields, useful when
// comparing records that may hold NaN.
func (r Record) Bits() [3]uint32 {
	return [3]uint32{math.Float32bits(r.Yaw), math.Float32bits(r.Pitch), math.Float32bits(r.Roll)}
}
