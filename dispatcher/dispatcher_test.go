package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"network_server/models"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLocation struct {
	coord Coordinate
	ok    bool
	err   error
}

var _ LocationSource = (*stubLocation)(nil)

func (s *stubLocation) Current(context.Context) (Coordinate, bool, error) {
	return s.coord, s.ok, s.err
}

type recordingAPI struct {
	mu sync.Mutex

	nearby    []models.UserProfile
	nearbyErr error

	notified       []string
	notifyErrFor   map[string]error
	locationPushes []Coordinate
	locationErr    error
}

var _ API = (*recordingAPI)(nil)

func (a *recordingAPI) NearbyUsers(context.Context, float64, float64) ([]models.UserProfile, error) {
	return a.nearby, a.nearbyErr
}

func (a *recordingAPI) SendConnectRequest(_ context.Context, recipientID, _ string) error {
	if err := a.notifyErrFor[recipientID]; err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notified = append(a.notified, recipientID)
	return nil
}

func (a *recordingAPI) UpdateLocation(_ context.Context, _ string, latitude, longitude float64) error {
	if a.locationErr != nil {
		return a.locationErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.locationPushes = append(a.locationPushes, Coordinate{Latitude: latitude, Longitude: longitude})
	return nil
}

func (a *recordingAPI) pushCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.locationPushes)
}

func profile(id string) models.UserProfile {
	return models.UserProfile{UserID: id}
}

func TestTickNotifiesNearbyAndPushesLocation(t *testing.T) {
	api := &recordingAPI{nearby: []models.UserProfile{profile("B"), profile("C")}}
	loc := &stubLocation{coord: Coordinate{Latitude: 12.9716, Longitude: 77.5946}, ok: true}
	d := New("A", api, loc)

	d.Tick(context.Background())

	assert.Equal(t, []string{"B", "C"}, api.notified)
	require.Len(t, api.locationPushes, 1)
	assert.InDelta(t, 12.9716, api.locationPushes[0].Latitude, 1e-9)
}

func TestTickExcludesSelf(t *testing.T) {
	api := &recordingAPI{nearby: []models.UserProfile{profile("A"), profile("B")}}
	loc := &stubLocation{coord: Coordinate{}, ok: true}
	d := New("A", api, loc)

	d.Tick(context.Background())

	assert.Equal(t, []string{"B"}, api.notified)
}

func TestTickContinuesPastFailedCandidate(t *testing.T) {
	api := &recordingAPI{
		nearby:       []models.UserProfile{profile("B"), profile("C")},
		notifyErrFor: map[string]error{"B": errors.New("unreachable")},
	}
	loc := &stubLocation{coord: Coordinate{}, ok: true}
	d := New("A", api, loc)

	d.Tick(context.Background())

	assert.Equal(t, []string{"C"}, api.notified)
}

func TestTickSkipsWhenNoFix(t *testing.T) {
	api := &recordingAPI{nearby: []models.UserProfile{profile("B")}}
	loc := &stubLocation{ok: false}
	d := New("A", api, loc)

	d.Tick(context.Background())

	assert.Empty(t, api.notified)
	assert.Empty(t, api.locationPushes)
}

func TestTickSkipsOnLocationError(t *testing.T) {
	api := &recordingAPI{}
	loc := &stubLocation{ok: true, err: errors.New("gps timeout")}
	d := New("A", api, loc)

	d.Tick(context.Background())

	assert.Empty(t, api.locationPushes)
}

func TestUnmovedCoordinateSuppressesLocationPush(t *testing.T) {
	api := &recordingAPI{nearby: []models.UserProfile{profile("B")}}
	loc := &stubLocation{coord: Coordinate{Latitude: 12.9716, Longitude: 77.5946}, ok: true}
	d := New("A", api, loc)
	ctx := context.Background()

	d.Tick(ctx)
	// Drift below the threshold on both axes.
	loc.coord.Longitude += 5e-5
	d.Tick(ctx)

	assert.Len(t, api.locationPushes, 1)
	// The nearby query still runs every tick.
	assert.Equal(t, []string{"B", "B"}, api.notified)

	// Crossing the threshold pushes again.
	loc.coord.Longitude += 2e-4
	d.Tick(ctx)
	assert.Len(t, api.locationPushes, 2)
}

func TestFailedLocationPushRetriesNextTick(t *testing.T) {
	api := &recordingAPI{locationErr: errors.New("write throttled")}
	loc := &stubLocation{coord: Coordinate{Latitude: 1, Longitude: 1}, ok: true}
	d := New("A", api, loc)
	ctx := context.Background()

	d.Tick(ctx)
	require.Empty(t, api.locationPushes)

	// Same coordinate, but the last push never landed so it goes out now.
	api.locationErr = nil
	d.Tick(ctx)
	assert.Len(t, api.locationPushes, 1)
}

func TestRunTicksOnIntervalAndStopsOnCancel(t *testing.T) {
	api := &recordingAPI{nearby: []models.UserProfile{profile("B")}}
	loc := &stubLocation{coord: Coordinate{Latitude: 1, Longitude: 1}, ok: true}
	fc := clockwork.NewFakeClock()
	d := New("A", api, loc, WithClock(fc), WithInterval(30*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	fc.BlockUntil(1)
	fc.Advance(30 * time.Second)

	require.Eventually(t, func() bool {
		return api.pushCount() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
