// Package dispatcher runs the proximity-notification loop: sample the device
// location on a fixed interval, query nearby users, raise Connect
// notifications, and push the coordinate to the profile when it moved.
package dispatcher

import (
	"context"
	"log"
	"math"
	"time"

	"network_server/models"

	"github.com/jonboulle/clockwork"
)

// Coordinate is a device location in decimal degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// LocationSource yields the current device coordinate. ok is false when no
// fix is available; the tick is skipped without error.
type LocationSource interface {
	Current(ctx context.Context) (coord Coordinate, ok bool, err error)
}

// API is the slice of the server the dispatcher talks to. *client.Client
// satisfies it.
type API interface {
	NearbyUsers(ctx context.Context, latitude, longitude float64) ([]models.UserProfile, error)
	SendConnectRequest(ctx context.Context, recipientID, senderID string) error
	UpdateLocation(ctx context.Context, userID string, latitude, longitude float64) error
}

const (
	// DefaultInterval between proximity ticks.
	DefaultInterval = 30 * time.Second

	// DefaultEpsilon in degrees per axis below which the coordinate counts
	// as unmoved and the profile write is suppressed.
	DefaultEpsilon = 1e-4
)

// Dispatcher drives the tick loop for one signed-in user. Not safe for
// concurrent use; run a single Run loop per instance.
type Dispatcher struct {
	userID   string
	api      API
	location LocationSource
	clock    clockwork.Clock
	interval time.Duration
	epsilon  float64

	lastPushed *Coordinate
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithInterval overrides the tick interval.
func WithInterval(d time.Duration) Option {
	return func(disp *Dispatcher) { disp.interval = d }
}

// WithEpsilon overrides the per-axis movement threshold.
func WithEpsilon(e float64) Option {
	return func(disp *Dispatcher) { disp.epsilon = e }
}

// WithClock substitutes the clock, e.g. a fake in tests.
func WithClock(c clockwork.Clock) Option {
	return func(disp *Dispatcher) { disp.clock = c }
}

// New builds a dispatcher for userID.
func New(userID string, api API, location LocationSource, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		userID:   userID,
		api:      api,
		location: location,
		clock:    clockwork.NewRealClock(),
		interval: DefaultInterval,
		epsilon:  DefaultEpsilon,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run ticks until ctx is cancelled. The ticker is released on return so a
// torn-down consumer leaves nothing firing.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := d.clock.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			d.Tick(ctx)
		}
	}
}

// Tick executes one proximity cycle. Every failure inside a tick is logged
// and contained: a bad candidate never aborts the rest, and a failed tick
// never stops the loop.
func (d *Dispatcher) Tick(ctx context.Context) {
	coord, ok, err := d.location.Current(ctx)
	if err != nil {
		log.Printf("Location read failed, skipping tick: %v", err)
		return
	}
	if !ok {
		return
	}

	d.notifyNearby(ctx, coord)

	if d.moved(coord) {
		if err := d.api.UpdateLocation(ctx, d.userID, coord.Latitude, coord.Longitude); err != nil {
			log.Printf("Location update failed: %v", err)
		} else {
			c := coord
			d.lastPushed = &c
		}
	}
}

func (d *Dispatcher) notifyNearby(ctx context.Context, coord Coordinate) {
	users, err := d.api.NearbyUsers(ctx, coord.Latitude, coord.Longitude)
	if err != nil {
		log.Printf("Nearby query failed: %v", err)
		return
	}

	for _, user := range users {
		if user.UserID == d.userID {
			continue
		}
		if err := d.api.SendConnectRequest(ctx, user.UserID, d.userID); err != nil {
			// Continue on error: one candidate must not block the rest.
			log.Printf("Failed to notify %s: %v", user.UserID, err)
		}
	}
}

func (d *Dispatcher) moved(coord Coordinate) bool {
	if d.lastPushed == nil {
		return true
	}
	return math.Abs(coord.Latitude-d.lastPushed.Latitude) >= d.epsilon ||
		math.Abs(coord.Longitude-d.lastPushed.Longitude) >= d.epsilon
}
