package receiver

import (
	"errors"
	"fmt"
)

var (
	// ErrBind means the listening endpoint could not be created.
	ErrBind = errors.New("bind failed")
	// ErrAccept means accepting the single client failed.
	ErrAccept = errors.New("accept failed")
	// ErrDecode means the stream ended inside a record.
	ErrDecode = errors.New("partial record")
	// ErrIO means the stream failed between records.
	ErrIO = errors.New("stream i/o failed")
)

// Fault carries the failing operation, its class (one of the Err*
// sentinels) and the underlying cause. errors.Is matches both.
type Fault struct {
	Op   string
	Kind error
	Err  error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %v", f.Op, f.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", f.Op, f.Kind, f.Err)
}

func (f *Fault) Unwrap() []error { return []error{f.Kind, f.Err} }

// Reason says why a receiver stopped.
type Reason int

const (
	// ReasonStreamEnd: the peer closed cleanly on a record boundary.
	ReasonStreamEnd Reason = iota
	// ReasonCanceled: the receiver was stopped from outside.
	ReasonCanceled
	ReasonAccept
	ReasonDecode
	ReasonIO
)

func (r Reason) String() string {
	switch r {
	case ReasonStreamEnd:
		return "stream ended"
	case ReasonCanceled:
		return "canceled"
	case ReasonAccept:
		return "accept failed"
	case ReasonDecode:
		return "partial record"
	case ReasonIO:
		return "i/o error"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Outcome is the terminal report of one receiver.
type Outcome struct {
	Reason  Reason
	Remote  string
	Records uint64
	// Digest is the BLAKE3 hex digest over every complete record received.
	Digest string
	// Err is nil for ReasonStreamEnd and ReasonCanceled, a *Fault otherwise.
	Err error
}

// Clean reports whether the receiver stopped without a fault.
func (o Outcome) Clean() bool { return o.Err == nil }

func (o Outcome) String() string {
	s := fmt.Sprintf("%s after %d records", o.Reason, o.Records)
	if o.Remote != "" {
		s += " from " + o.Remote
	}
	if o.Err != nil {
		s += ": " + o.Err.Error()
	}
	return s
}
