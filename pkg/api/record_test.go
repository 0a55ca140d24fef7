package api

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord(t *testing.T) {
	t.Run("big endian layout", func(t *testing.T) {
		// 1.0, -2.5, 0.0
		b := [RecordSize]byte{
			0x3f, 0x80, 0x00, 0x00,
			0xc0, 0x20, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
		}
		r := DecodeRecord(b)
		assert.Equal(t, Record{Yaw: 1.0, Pitch: -2.5, Roll: 0}, r)
	})

	t.Run("bit exact for special values", func(t *testing.T) {
		patterns := [][3]uint32{
			{0x7fc00000, 0x7f800000, 0xff800000}, // NaN, +Inf, -Inf
			{0x7fa00001, 0xffc12345, 0x80000000}, // signalling NaN, NaN payload, -0
			{0x00000001, 0x7f7fffff, 0x00800000}, // subnormal, max, min normal
		}
		for _, p := range patterns {
			want := Record{
				Yaw:   math.Float32frombits(p[0]),
				Pitch: math.Float32frombits(p[1]),
				Roll:  math.Float32frombits(p[2]),
			}
			enc, err := want.MarshalBinary()
			require.NoError(t, err)
			require.Len(t, enc, RecordSize)
			got := DecodeRecord([RecordSize]byte(enc))
			assert.Equal(t, p, got.Bits())
		}
	})
}

func TestRecordUnmarshalBinary(t *testing.T) {
	var r Record
	assert.ErrorIs(t, r.UnmarshalBinary(make([]byte, 11)), ErrShortRecord)
	assert.ErrorIs(t, r.UnmarshalBinary(make([]byte, 13)), ErrShortRecord)

	enc, _ := Record{Yaw: 90, Pitch: 0, Roll: -90}.MarshalBinary()
	require.NoError(t, r.UnmarshalBinary(enc))
	assert.Equal(t, Record{Yaw: 90, Pitch: 0, Roll: -90}, r)
}

func TestDigest(t *testing.T) {
	recs := []Record{{1, -2.5, 0}, {90, 0, -90}}

	a := NewDigest()
	for _, r := range recs {
		a.AddRecord(r)
	}
	b := NewDigest()
	for _, r := range recs {
		enc, _ := r.MarshalBinary()
		b.Add([RecordSize]byte(enc))
	}
	assert.Equal(t, a.Sum(), b.Sum())
	assert.Equal(t, uint64(2), a.Count())

	c := NewDigest()
	c.AddRecord(recs[1])
	c.AddRecord(recs[0])
	assert.NotEqual(t, a.Sum(), c.Sum(), "order matters")

	assert.Len(t, NewDigest().Sum(), 64)
}
