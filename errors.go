package xo2

import "fmt"

// TransportError indicates that the underlying bus call failed.
type TransportError struct {
	Stage   string
	Command string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("transport: %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: transport: %s: %v", e.Stage, e.Command, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolErrorKind identifies which status check failed.
type ProtocolErrorKind uint8

const (
	EraseFailed ProtocolErrorKind = iota + 1
	DoneNotAsserted
)

func (k ProtocolErrorKind) String() string {
	switch k {
	case EraseFailed:
		return "erase failed"
	case DoneNotAsserted:
		return "DONE not asserted"
	}
	return fmt.Sprintf("ProtocolErrorKind(%d)", uint8(k))
}

// ProtocolError indicates that the device reported FAIL after erase or did
// not raise DONE after ISC_PROGRAMDONE.
type ProtocolError struct {
	Kind   ProtocolErrorKind
	Status Status
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s (status %s)", e.Kind, e.Status)
}

// TimeoutError indicates that the busy flag did not clear within the retry
// budget.
type TimeoutError struct {
	Stage      string
	Iterations int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: device still busy after %d polls", e.Stage, e.Iterations)
}

// RefreshExhaustedError indicates that the device never reported a valid
// configuration within the refresh budget.
type RefreshExhaustedError struct {
	Iterations int
	Status     Status
}

func (e *RefreshExhaustedError) Error() string {
	return fmt.Sprintf("refresh not verified after %d attempts (last status %s)", e.Iterations, e.Status)
}

// PageError attaches the page index to a failure while programming.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// CapacityError indicates that a bitstream does not fit the device.
type CapacityError struct {
	Device string
	Pages  int
	Frames int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("bitstream has %d frames, %s has %d configuration pages", e.Frames, e.Device, e.Pages)
}
