// Package connectivity tracks network reachability for the sync engine,
// combining a cheap platform signal with an actively probed, throttled
// check, and drives background sync scheduling.
package connectivity

import (
	"net"
	"sync"
	"time"
)

// Event is a reachability transition reported by a Signal.
type Event int

const (
	// EventOffline means the platform reports the network as gone.
	EventOffline Event = iota
	// EventOnline means the platform reports the network as back. The
	// monitor re-validates before believing it.
	EventOnline
	// EventResume means the process regained the foreground after being
	// suspended; treated like a suspect online transition.
	EventResume
)

// Signal is the injectable environment source of reachability hints. The
// Online fast path must be cheap and synchronous; Subscribe delivers
// transition events until the returned function is called.
type Signal interface {
	Online() bool
	Subscribe(fn func(Event)) (unsubscribe func())
}

// InterfaceSignal derives the fast-path signal from the kernel's view of
// the network interfaces: online means some non-loopback interface is up
// and running. Transitions are detected by polling, since Go has no
// portable interface-change notification.
type InterfaceSignal struct {
	poll time.Duration

	mu       sync.Mutex
	subs     map[int]func(Event)
	nextID   int
	online   bool
	stopPoll chan struct{}
}

func NewInterfaceSignal(poll time.Duration) *InterfaceSignal {
	if poll <= 0 {
		poll = 5 * time.Second
	}
	return &InterfaceSignal{poll: poll, subs: make(map[int]func(Event))}
}

func (s *InterfaceSignal) Online() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagRunning != 0 {
			return true
		}
	}
	return false
}

// Subscribe registers fn for transitions. The poll loop starts with the
// first subscriber and stops with the last unsubscribe.
func (s *InterfaceSignal) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	if len(s.subs) == 1 {
		s.online = s.Online()
		s.stopPoll = make(chan struct{})
		go s.loop(s.stopPoll)
	}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		if len(s.subs) == 0 && s.stopPoll != nil {
			close(s.stopPoll)
			s.stopPoll = nil
		}
		s.mu.Unlock()
	}
}

func (s *InterfaceSignal) loop(stop chan struct{}) {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := s.Online()

			s.mu.Lock()
			changed := now != s.online
			s.online = now
			var fns []func(Event)
			if changed {
				fns = make([]func(Event), 0, len(s.subs))
				for _, fn := range s.subs {
					fns = append(fns, fn)
				}
			}
			s.mu.Unlock()

			ev := EventOffline
			if now {
				ev = EventOnline
			}
			for _, fn := range fns {
				fn(ev)
			}
		}
	}
}
