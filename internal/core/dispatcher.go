package core

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// ErrStopped is returned by queries submitted after the dispatcher shut down.
var ErrStopped = errors.New("dispatcher stopped")

// route is one row of the routing table: the queue feeding a user's delivery
// goroutine plus the handles needed to stop it. Entries and delivery
// goroutines are created and removed together, always by the dispatcher.
type route struct {
	queue chan string
	conn  io.WriteCloser
	done  chan struct{}
}

// Options tunes dispatcher capacities. Zero values pick defaults.
type Options struct {
	// EventBuffer is the capacity of the shared event channel.
	EventBuffer int
	// QueueSize is the capacity of each user's outbound queue.
	QueueSize int
	// DrainTimeout bounds how long a logout waits for the delivery goroutine
	// to drain before the connection is forced closed.
	DrainTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.EventBuffer <= 0 {
		o.EventBuffer = 64
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 32
	}
	if o.DrainTimeout <= 0 {
		o.DrainTimeout = 5 * time.Second
	}
	return o
}

// Dispatcher is the single consumer of the event channel and the only
// goroutine allowed to touch the routing table. Sessions and delivery
// goroutines never see the table; they reach it exclusively through events.
type Dispatcher struct {
	events chan Event
	stopCh chan struct{}
	doneCh chan struct{}

	opts Options
	log  *zerolog.Logger
}

func NewDispatcher(opts Options, logger *zerolog.Logger) *Dispatcher {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	opts = opts.withDefaults()
	return &Dispatcher{
		events: make(chan Event, opts.EventBuffer),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		opts:   opts,
		log:    logger,
	}
}

// Events is the submission side of the shared event channel.
func (d *Dispatcher) Events() chan<- Event {
	return d.events
}

// Stop signals the Run loop to tear down all routes and exit.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
}

// Wait blocks until the Run loop has completely finished.
func (d *Dispatcher) Wait() {
	<-d.doneCh
}

// Users returns the sorted names of currently logged-in users. The lookup
// goes through the event channel like every other table access.
func (d *Dispatcher) Users(ctx context.Context) ([]string, error) {
	reply := make(chan []string, 1)
	select {
	case d.events <- Event{Kind: EventNames, Reply: reply}:
	case <-d.stopCh:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case names := <-reply:
		return names, nil
	case <-d.doneCh:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Dispatcher) Run() {
	defer close(d.doneCh)
	// Single-writer ownership: this map is only accessed in this goroutine.
	routes := make(map[string]*route)

	for {
		select {
		case ev := <-d.events:
			start := time.Now()

			switch ev.Kind {
			case EventLogin:
				d.handleLogin(routes, ev)
				connectedUsers.Set(float64(len(routes)))
			case EventMessage:
				d.handleMessage(routes, ev)
			case EventLogout:
				d.handleLogout(routes, ev)
				connectedUsers.Set(float64(len(routes)))
			case EventNames:
				d.handleNames(routes, ev)
			}

			label := ev.Kind.String()
			eventsTotal.WithLabelValues(label).Inc()
			eventDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		case <-d.stopCh:
			d.closeAll(routes)
			return
		}
	}
}

func (d *Dispatcher) handleLogin(routes map[string]*route, ev Event) {
	if _, taken := routes[ev.Name]; taken {
		// Matches the observed protocol: a second login for a live name is
		// dropped without feedback. Whether it should notify or replace the
		// old session instead is a product decision.
		d.log.Debug().Str("user", ev.Name).Msg("duplicate login dropped")
		return
	}

	r := &route{
		queue: make(chan string, d.opts.QueueSize),
		conn:  ev.Conn,
		done:  make(chan struct{}),
	}
	r.queue <- "Logged in as: " + ev.Name + "\n"
	routes[ev.Name] = r

	go func() {
		defer close(r.done)
		deliver(ev.Name, r.conn, r.queue, d.events, d.log)
	}()

	d.log.Info().Str("user", ev.Name).Msg("user logged in")
}

func (d *Dispatcher) handleMessage(routes map[string]*route, ev Event) {
	line := "from " + ev.From + ": " + ev.Body + "\n"
	for _, to := range ev.To {
		r, ok := routes[to]
		if !ok {
			// Recipient never existed or already left.
			continue
		}
		d.enqueue(r, to, line)
	}
}

func (d *Dispatcher) handleLogout(routes map[string]*route, ev Event) {
	r, ok := routes[ev.Name]
	if !ok {
		// Never logged in, already evicted, or a repeated logout.
		return
	}
	delete(routes, ev.Name)
	close(r.queue)

	// The entry is only gone once the delivery goroutine is. Draining is the
	// normal path; a write wedged on a dead peer is unstuck by closing the
	// connection.
	select {
	case <-r.done:
	case <-time.After(d.opts.DrainTimeout):
		_ = r.conn.Close()
		<-r.done
	}

	d.log.Info().Str("user", ev.Name).Msg("user logged out")
}

func (d *Dispatcher) handleNames(routes map[string]*route, ev Event) {
	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	sort.Strings(names)

	select {
	case ev.Reply <- names:
	default:
		// Caller handed over an unbuffered or abandoned channel; not our
		// problem to wait on.
	}
}

func (d *Dispatcher) enqueue(r *route, name, line string) {
	select {
	case r.queue <- line:
	default:
		// Never block the dispatcher on a slow consumer.
		droppedLines.Inc()
		d.log.Warn().Str("user", name).Msg("outbound queue full, line dropped")
	}
}

// closeAll tears down every remaining route on shutdown, same discipline as a
// logout: close, drain, force only on timeout.
func (d *Dispatcher) closeAll(routes map[string]*route) {
	for name, r := range routes {
		delete(routes, name)
		close(r.queue)
		select {
		case <-r.done:
		case <-time.After(d.opts.DrainTimeout):
			_ = r.conn.Close()
			<-r.done
		}
		d.log.Info().Str("user", name).Msg("user disconnected on shutdown")
	}
	connectedUsers.Set(0)
}
