package permit

import "sync"

// Coordinator hands out at most one turn permit per session id.
//
// Acquire is non-blocking: a second turn for the same session gets an
// immediate refusal instead of queueing, and the caller surfaces it as a
// "busy, try again" reply. Distinct sessions never contend - the underlying
// sync.Map keeps its own bookkeeping safe without a global lock on the hot
// path.
//
// There is no timeout: a turn that hangs inside an external call holds the
// permit until process restart. Known limitation, deliberately not papered
// over here.
type Coordinator struct {
	inFlight sync.Map // sessionID -> struct{}
}

func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Acquire claims the permit for sessionID. Returns false immediately when a
// turn for the same session is already in flight.
func (c *Coordinator) Acquire(sessionID string) bool {
	_, loaded := c.inFlight.LoadOrStore(sessionID, struct{}{})
	return !loaded
}

// Release returns the permit. Must run on every exit path of turn handling,
// error paths included, or the session deadlocks permanently.
func (c *Coordinator) Release(sessionID string) {
	c.inFlight.Delete(sessionID)
}

// Held reports whether a permit is currently outstanding for sessionID.
func (c *Coordinator) Held(sessionID string) bool {
	_, ok := c.inFlight.Load(sessionID)
	return ok
}
