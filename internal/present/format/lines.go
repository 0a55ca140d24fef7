package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mithrel/yprlog/pkg/api"
)

// StartedLayout renders the listener start time the way java.util.Date
// prints itself, which is what existing log readers expect.
const StartedLayout = "Mon Jan 02 15:04:05 MST 2006"

func StartedLine(t time.Time) string {
	return "server start at " + t.Format(StartedLayout)
}

// ConnectedLine takes the peer host without port.
func ConnectedLine(host string) string {
	return "client's ip address is " + host
}

func RecordLine(r api.Record) string {
	var b strings.Builder
	b.WriteString("yaw pitch roll received from client: ")
	b.WriteString(Float(r.Yaw))
	b.WriteByte(' ')
	b.WriteString(Float(r.Pitch))
	b.WriteByte(' ')
	b.WriteString(Float(r.Roll))
	return b.String()
}

// Float formats f like Java's Float.toString: shortest round-trip digits,
// always at least one fractional digit, and computerized scientific
// notation ("1.0E7", "1.5E-5") outside [1e-3, 1e7).
func Float(f float32) string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(v)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(v, 'f', -1, 32)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(v, 'E', -1, 32)
	mant, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mant + "E" + strconv.Itoa(e)
}
