package solar

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sells-group/daynight/internal/model"
)

// memoKey holds exact coordinates: two stations a hair apart never share a
// cached window.
type memoKey struct {
	lon, lat float64
	date     string
}

func (k memoKey) String() string {
	return strconv.FormatFloat(k.lon, 'g', -1, 64) + "|" +
		strconv.FormatFloat(k.lat, 'g', -1, 64) + "|" + k.date
}

// Memo caches another Calculator's windows keyed by exact coordinates and
// date. Concurrent misses on one key compute once. Errors are not cached.
type Memo struct {
	next  Calculator
	group singleflight.Group

	mu    sync.RWMutex
	cache map[memoKey]model.SolarWindow
}

// NewMemo wraps next.
func NewMemo(next Calculator) *Memo {
	return &Memo{next: next, cache: make(map[memoKey]model.SolarWindow)}
}

// Window returns the cached window or computes and stores it.
func (m *Memo) Window(c model.Coordinates, day time.Time) (model.SolarWindow, error) {
	key := memoKey{lon: c.Lon, lat: c.Lat, date: day.Format(model.DateLayout)}

	m.mu.RLock()
	w, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return w, nil
	}

	v, err, _ := m.group.Do(key.String(), func() (any, error) {
		w, err := m.next.Window(c, day)
		if err != nil {
			return model.SolarWindow{}, err
		}
		m.mu.Lock()
		m.cache[key] = w
		m.mu.Unlock()
		return w, nil
	})
	if err != nil {
		return model.SolarWindow{}, err
	}
	return v.(model.SolarWindow), nil
}

// Len reports the number of cached windows.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}
