package api

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// NewSessionID returns a short, roughly time-ordered identifier used to
// correlate log lines of one receiver session.
func NewSessionID() string {
	ts := strconv.FormatInt(time.Now().UnixNano(), 36)
	var buf [4]byte
	_, _ = rand.Read(buf[:])
	return ts + "-" + hex.EncodeToString(buf[:])
}
