package dhis2

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/stratosilva/ethiopia-thdf/pkg/platform/circuit"
)

// ErrCircuitOpen is returned when the registry circuit is open and the
// request was shed without hitting the network.
var ErrCircuitOpen = errors.New("registry circuit open")

// probeInterval is how many shed requests pass between recovery probes
// while the circuit is open.
const probeInterval = 5

// BreakerDoer guards an HTTP client with a circuit breaker. Consecutive
// transport failures or 5xx responses trip the circuit; while open, most
// requests fail fast and every probeInterval-th request is let through to
// test recovery.
type BreakerDoer struct {
	next    HTTPDoer
	breaker *circuit.Breaker
	logger  *slog.Logger

	mu   sync.Mutex
	shed int
}

// NewBreakerDoer wraps the given HTTP client with circuit breaking.
func NewBreakerDoer(next HTTPDoer, logger *slog.Logger) *BreakerDoer {
	if logger == nil {
		logger = slog.Default()
	}
	return &BreakerDoer{
		next:    next,
		breaker: circuit.New("registry"),
		logger:  logger,
	}
}

func (d *BreakerDoer) Do(req *http.Request) (*http.Response, error) {
	if d.breaker.IsOpen() && !d.probeDue() {
		return nil, ErrCircuitOpen
	}

	resp, err := d.next.Do(req)
	if err != nil || resp.StatusCode >= 500 {
		if _, change := d.breaker.RecordFailure(); change.Opened {
			d.logger.Warn("registry circuit opened", "breaker", d.breaker.Name())
		}
		return resp, err
	}

	if _, change := d.breaker.RecordSuccess(); change.Closed {
		d.logger.Info("registry circuit closed", "breaker", d.breaker.Name())
	}
	return resp, nil
}

// probeDue lets one request through per probeInterval shed requests.
func (d *BreakerDoer) probeDue() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shed++
	if d.shed >= probeInterval {
		d.shed = 0
		return true
	}
	return false
}
