package faulttolerance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// CircuitBreakerState represents the current state of the circuit breaker
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreakerConfig holds configuration for the circuit breaker
type CircuitBreakerConfig struct {
	MaxFailures      int           // Consecutive failures before opening
	Cooldown         time.Duration // Time to wait before transitioning from Open to Half-Open
	SuccessThreshold int           // Consecutive successes needed to close from Half-Open
	Name             string        // Name for logging
}

// ErrCircuitBreakerOpen is returned when a call is short-circuited because
// the breaker is open.
var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

// CircuitBreaker implements the circuit breaker pattern: after MaxFailures
// consecutive failures the breaker opens and calls fail fast without touching
// the upstream. After Cooldown it lets probe calls through in half-open state
// and closes again once SuccessThreshold probes succeed.
type CircuitBreaker struct {
	config          CircuitBreakerConfig
	state           CircuitBreakerState
	failures        int
	successes       int
	lastFailureTime time.Time
	mutex           sync.Mutex
	logger          *logrus.Logger
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(config CircuitBreakerConfig, logger *logrus.Logger) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 30 * time.Second
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 2
	}
	if config.Name == "" {
		config.Name = "CircuitBreaker"
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		logger: logger,
	}
}

// Execute runs the given function with circuit breaker protection.
// Returns ErrCircuitBreakerOpen without invoking fn when the breaker is open.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if !cb.allowRequest() {
		return ErrCircuitBreakerOpen
	}

	err := fn()
	cb.recordResult(err)
	return err
}

// allowRequest determines if the circuit breaker permits a call, moving an
// expired open breaker to half-open.
func (cb *CircuitBreaker) allowRequest() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if time.Since(cb.lastFailureTime) > cb.config.Cooldown {
			cb.setState(StateHalfOpen)
			cb.successes = 0
			return true
		}
		return false
	default:
		return false
	}
}

// recordResult records the result of an execution
func (cb *CircuitBreaker) recordResult(err error) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if err != nil {
		cb.failures++
		cb.successes = 0
		cb.lastFailureTime = time.Now()

		switch cb.state {
		case StateClosed:
			if cb.failures >= cb.config.MaxFailures {
				cb.setState(StateOpen)
				cb.logger.Warnf("[%s] Circuit breaker OPENED after %d failures", cb.config.Name, cb.failures)
			}
		case StateHalfOpen:
			cb.setState(StateOpen)
			cb.logger.Warnf("[%s] Circuit breaker reopened from HALF_OPEN due to failure", cb.config.Name)
		}
		return
	}

	cb.failures = 0
	cb.successes++

	if cb.state == StateHalfOpen && cb.successes >= cb.config.SuccessThreshold {
		cb.setState(StateClosed)
		cb.logger.Infof("[%s] Circuit breaker CLOSED after %d successes", cb.config.Name, cb.successes)
	}
}

func (cb *CircuitBreaker) setState(state CircuitBreakerState) {
	if cb.state != state {
		oldState := cb.state
		cb.state = state
		cb.logger.Infof("[%s] Circuit breaker state changed: %s -> %s", cb.config.Name, oldState, state)
	}
}

// State returns the current state of the circuit breaker
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}
