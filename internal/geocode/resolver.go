package geocode

import (
	"context"
	"log"
	"sync"
	"time"
)

// Geocoder is the lookup surface the Resolver depends on. *Client
// implements it; tests substitute a fake.
type Geocoder interface {
	Forward(ctx context.Context, area, city, state string) (Coordinates, bool, error)
	Reverse(ctx context.Context, lat, lon float64) (Address, error)
}

// Resolver debounces forward geocode lookups for one wizard session.
//
// Semantics:
//   - An edit (re)arms a single timer; at most one timer is alive at a
//     time, so at most one lookup fires per quiet period.
//   - Deferred lookups run on the resolver's own lifecycle context,
//     not the caller's: an edit arriving over HTTP outlives its
//     request, and the lookup must still fire after the handler
//     returns. Stop cancels the lifecycle context.
//   - Every issued lookup carries a monotonically increasing sequence
//     number. A result is applied only when its sequence is still the
//     latest issued, so a slow stale response can never overwrite a
//     newer one.
//   - Lookup failures and empty results leave the previous coordinate
//     unchanged and are not surfaced beyond a log line.
type Resolver struct {
	mu       sync.Mutex
	client   Geocoder
	debounce time.Duration

	// ctx bounds all deferred lookups; cancelled by Stop
	ctx    context.Context
	cancel context.CancelFunc

	timer  *time.Timer
	seq    uint64 // latest issued lookup
	coords *Coordinates

	// onUpdate, if set, is called with every applied coordinate.
	// Called without the lock held.
	onUpdate func(Coordinates)
}

// NewResolver creates a Resolver with the given quiet period.
func NewResolver(client Geocoder, debounce time.Duration) *Resolver {
	ctx, cancel := context.WithCancel(context.Background())
	return &Resolver{
		client:   client,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// OnUpdate registers a callback invoked whenever a lookup result is
// applied. Must be set before the first edit.
func (r *Resolver) OnUpdate(fn func(Coordinates)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onUpdate = fn
}

// NoteEdit records a change to the address fields and schedules a
// forward lookup after the quiet period. A pending timer from an
// earlier edit is cancelled, never queued.
//
// The lookup deliberately does not borrow the caller's context: the
// quiet period outlasts an HTTP request, and the lookup must still
// fire after the handler that noted the edit has returned.
func (r *Resolver) NoteEdit(area, city, state string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
	}

	r.timer = time.AfterFunc(r.debounce, func() {
		r.lookup(area, city, state)
	})
}

// lookup issues one forward geocode and applies the result if it is
// still the latest.
func (r *Resolver) lookup(area, city, state string) {
	if r.ctx.Err() != nil {
		return
	}

	r.mu.Lock()
	r.seq++
	mySeq := r.seq
	r.mu.Unlock()

	coords, ok, err := r.client.Forward(r.ctx, area, city, state)
	if err != nil {
		// Degrade silently: no map movement, no user-visible error
		log.Printf("⚠️  Forward geocode failed: %v", err)
		return
	}
	if !ok {
		return
	}

	var notify func(Coordinates)
	r.mu.Lock()
	if mySeq == r.seq && r.ctx.Err() == nil {
		r.coords = &coords
		notify = r.onUpdate
	}
	r.mu.Unlock()

	if notify != nil {
		notify(coords)
	}
}

// Locate performs a reverse lookup for a device-reported position and
// records the coordinate. Unlike forward lookups it is user-initiated
// and awaited within the request, so it runs on the caller's context
// and is not debounced.
func (r *Resolver) Locate(ctx context.Context, lat, lon float64) (Address, error) {
	addr, err := r.client.Reverse(ctx, lat, lon)
	if err != nil {
		return Address{}, err
	}

	coords := Coordinates{Lat: lat, Lon: lon}
	r.mu.Lock()
	r.seq++ // invalidate any in-flight forward lookup
	r.coords = &coords
	notify := r.onUpdate
	r.mu.Unlock()

	if notify != nil {
		notify(coords)
	}
	return addr, nil
}

// Coordinates returns the last applied coordinate, if any.
func (r *Resolver) Coordinates() (Coordinates, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.coords == nil {
		return Coordinates{}, false
	}
	return *r.coords, true
}

// Stop cancels the lifecycle context and any pending debounce timer.
// Called when the wizard session ends so no lookup fires into a dead
// session.
func (r *Resolver) Stop() {
	r.cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
