package solar

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/daynight/internal/model"
)

func countingCalculator(calls *atomic.Int64) Calculator {
	return Func(func(c model.Coordinates, day time.Time) (model.SolarWindow, error) {
		calls.Add(1)
		return model.NewSolarWindow("06:00", "20:00"), nil
	})
}

func TestMemo_CachesByExactKey(t *testing.T) {
	var calls atomic.Int64
	m := NewMemo(countingCalculator(&calls))
	day := date(t, "2025-09-01")

	a := model.Coordinates{Lon: 18.86, Lat: 50.44}
	b := model.Coordinates{Lon: 18.86, Lat: 50.440000001}

	_, err := m.Window(a, day)
	require.NoError(t, err)
	_, err = m.Window(a, day)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	// Nearly identical coordinates are distinct stations.
	_, err = m.Window(b, day)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())

	_, err = m.Window(a, date(t, "2025-09-02"))
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, 3, m.Len())
}

func TestMemo_ConcurrentMissesComputeOnce(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	slow := Func(func(c model.Coordinates, day time.Time) (model.SolarWindow, error) {
		calls.Add(1)
		<-release
		return model.NewSolarWindow("06:00", "20:00"), nil
	})
	m := NewMemo(slow)
	day := date(t, "2025-09-01")
	c := model.Coordinates{Lon: 1, Lat: 2}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := m.Window(c, day)
			assert.NoError(t, err)
			assert.Equal(t, "06:00", w.Sunrise)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Less(t, calls.Load(), int64(8))
	assert.Equal(t, 1, m.Len())
}

func TestMemo_DoesNotCacheErrors(t *testing.T) {
	var calls atomic.Int64
	failing := Func(func(model.Coordinates, time.Time) (model.SolarWindow, error) {
		calls.Add(1)
		return model.SolarWindow{}, errors.New("boom")
	})
	m := NewMemo(failing)
	day := date(t, "2025-09-01")

	_, err := m.Window(model.Coordinates{}, day)
	require.Error(t, err)
	_, err = m.Window(model.Coordinates{}, day)
	require.Error(t, err)
	assert.EqualValues(t, 2, calls.Load())
	assert.Zero(t, m.Len())
}

func TestFixed(t *testing.T) {
	w := model.NewSolarWindow("06:00", "20:00")
	got, err := Fixed(w).Window(model.Coordinates{Lon: 100, Lat: -40}, date(t, "2030-01-01"))
	require.NoError(t, err)
	assert.Equal(t, w, got)
}
