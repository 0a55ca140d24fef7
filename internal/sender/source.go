package sender

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mithrel/yprlog/pkg/api"
)

// Source yields records until it returns false.
type Source interface {
	Next() (api.Record, bool)
}

type sliceSource struct {
	recs []api.Record
	i    int
}

// Records replays a fixed list.
func Records(recs ...api.Record) Source { return &sliceSource{recs: recs} }

func (s *sliceSource) Next() (api.Record, bool) {
	if s.i >= len(s.recs) {
		return api.Record{}, false
	}
	r := s.recs[s.i]
	s.i++
	return r, true
}

// Sweep generates a deterministic attitude pattern: yaw turns through a full
// circle every 120 samples, pitch and roll oscillate. Count <= 0 never ends.
type Sweep struct {
	Count int
	i     int
}

func (s *Sweep) Next() (api.Record, bool) {
	if s.Count > 0 && s.i >= s.Count {
		return api.Record{}, false
	}
	phase := 2 * math.Pi * float64(s.i%120) / 120
	r := api.Record{
		Yaw:   float32(s.i%120)*3 - 180,
		Pitch: float32(30 * math.Sin(phase)),
		Roll:  float32(45 * math.Sin(2*phase)),
	}
	s.i++
	return r, true
}

// ParseRecord parses "yaw,pitch,roll".
func ParseRecord(s string) (api.Record, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return api.Record{}, fmt.Errorf("record %q: want yaw,pitch,roll", s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return api.Record{}, fmt.Errorf("record %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return api.Record{Yaw: v[0], Pitch: v[1], Roll: v[2]}, nil
}
