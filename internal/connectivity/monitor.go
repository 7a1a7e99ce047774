package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/openbrew/brewlog/internal/logging"
)

const (
	DefaultThrottle     = 30 * time.Second
	DefaultProbeTimeout = 5 * time.Second
	DefaultSyncInterval = 120 * time.Second
)

// Config wires a Monitor. Zero durations get the package defaults.
type Config struct {
	Signal       Signal
	Prober       Prober
	Logger       logging.Logger
	Throttle     time.Duration
	ProbeTimeout time.Duration
	SyncInterval time.Duration
}

// Monitor combines the cheap platform signal with an active, throttled
// probe. Platform "online" events are treated as hints, never trusted
// without re-validation; "offline" events are believed immediately since
// there is no network left to probe with.
type Monitor struct {
	signal       Signal
	prober       Prober
	log          logging.Logger
	throttle     time.Duration
	probeTimeout time.Duration
	syncInterval time.Duration

	mu        sync.Mutex
	lastProbe time.Time
}

func NewMonitor(cfg Config) *Monitor {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.Throttle <= 0 {
		cfg.Throttle = DefaultThrottle
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = DefaultSyncInterval
	}
	return &Monitor{
		signal:       cfg.Signal,
		prober:       cfg.Prober,
		log:          cfg.Logger,
		throttle:     cfg.Throttle,
		probeTimeout: cfg.ProbeTimeout,
		syncInterval: cfg.SyncInterval,
	}
}

// IsOnline is the synchronous fast path. It never touches the network.
func (m *Monitor) IsOnline() bool {
	return m.signal.Online()
}

// Check validates reachability. A false fast-path signal short-circuits to
// offline. Within the throttle window the fast-path value is returned
// without probing; otherwise one bounded round-trip decides, and any
// failure counts as offline.
func (m *Monitor) Check(ctx context.Context) bool {
	if !m.signal.Online() {
		return false
	}

	m.mu.Lock()
	if time.Since(m.lastProbe) < m.throttle {
		m.mu.Unlock()
		return true
	}
	m.lastProbe = time.Now()
	m.mu.Unlock()

	probeCtx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()

	if err := m.prober.Probe(probeCtx); err != nil {
		m.log.Debug(ctx, "connectivity probe failed", "error", err)
		return false
	}
	return true
}

// OnChange notifies fn of validated reachability transitions. Offline
// events pass through immediately; online and resume events are
// re-validated with Check first. The returned function unregisters fn.
func (m *Monitor) OnChange(fn func(online bool)) func() {
	return m.signal.Subscribe(func(ev Event) {
		switch ev {
		case EventOffline:
			fn(false)
		case EventOnline, EventResume:
			ctx, cancel := context.WithTimeout(context.Background(), m.probeTimeout)
			fn(m.Check(ctx))
			cancel()
		}
	})
}

// StartBackgroundSync schedules syncFn: on a recurring timer while the
// fast path reports online and hasPending is true, and immediately on a
// validated transition to online. syncFn runs on its own goroutine so a
// slow sync never blocks the timer; overlapping invocations are the
// orchestrator's single-flight guard's problem, not ours. The returned
// disposer cancels both the timer and the transition listener.
func (m *Monitor) StartBackgroundSync(ctx context.Context, hasPending func(context.Context) bool, syncFn func(context.Context)) func() {
	stop := make(chan struct{})
	var once sync.Once

	trigger := func(reason string) {
		if hasPending != nil && !hasPending(ctx) {
			return
		}
		m.log.Debug(ctx, "background sync triggered", "reason", reason)
		go syncFn(ctx)
	}

	unsubscribe := m.OnChange(func(online bool) {
		if online {
			trigger("online")
		}
	})

	go func() {
		ticker := time.NewTicker(m.syncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if m.signal.Online() {
					trigger("interval")
				}
			}
		}
	}()

	return func() {
		once.Do(func() {
			unsubscribe()
			close(stop)
		})
	}
}
