// ABOUTME: Explicit per-operation state for view code
// ABOUTME: Tracks Idle, InFlight, Succeeded(value), and Failed(error) for one UI element

package opstate

import "sync"

// Status is the lifecycle position of an operation
type Status int

const (
	Idle Status = iota
	InFlight
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in-flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Op tracks one operation. The zero value is Idle and ready to use.
type Op[T any] struct {
	mu     sync.Mutex
	status Status
	value  T
	err    error
}

// Start moves to InFlight. It returns false, changing nothing, if a call is
// already outstanding; callers use this to avoid issuing a second request.
func (o *Op[T]) Start() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status == InFlight {
		return false
	}
	var zero T
	o.status = InFlight
	o.value = zero
	o.err = nil
	return true
}

// Succeed records the result of the outstanding call
func (o *Op[T]) Succeed(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = Succeeded
	o.value = v
	o.err = nil
}

// Fail records the error of the outstanding call
func (o *Op[T]) Fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var zero T
	o.status = Failed
	o.value = zero
	o.err = err
}

// Finish records v or err depending on whether err is nil
func (o *Op[T]) Finish(v T, err error) {
	if err != nil {
		o.Fail(err)
		return
	}
	o.Succeed(v)
}

// Reset returns to Idle
func (o *Op[T]) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	var zero T
	o.status = Idle
	o.value = zero
	o.err = nil
}

// Status returns the current status
func (o *Op[T]) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Value returns the last successful result (zero unless Succeeded)
func (o *Op[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Err returns the last failure (nil unless Failed)
func (o *Op[T]) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// InFlight reports whether a call is outstanding
func (o *Op[T]) InFlight() bool {
	return o.Status() == InFlight
}
