/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/carverauto/warrantysync/pkg/logger"
	"github.com/carverauto/warrantysync/pkg/models"
)

var errCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerState represents the current state of the circuit breaker
type CircuitBreakerState int

const (
	// StateClosed - lookups are sent to the vendor
	StateClosed CircuitBreakerState = iota
	// StateOpen - lookups fail without contacting the vendor
	StateOpen
	// StateHalfOpen - a probe lookup is allowed through
	StateHalfOpen
)

// CircuitBreakerConfig controls when a vendor is considered down.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive faults before opening.
	FailureThreshold int
	// SuccessThreshold is the number of successes needed to close from half-open.
	SuccessThreshold int
	// Cooldown is how long the circuit stays open before a probe.
	Cooldown time.Duration
}

// DefaultCircuitBreakerConfig returns the settings used when only a
// threshold is configured.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 1,
		Cooldown:         60 * time.Second,
	}
}

// CircuitBreaker counts transport faults of one vendor. Not-found results
// are answers, not failures, and never trip it.
type CircuitBreaker struct {
	config       CircuitBreakerConfig
	state        CircuitBreakerState
	failureCount int
	successCount int
	openedAt     time.Time
	mu           sync.Mutex
	clock        Clock
	logger       logger.Logger
	name         string
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(name string, config CircuitBreakerConfig, clock Clock, log logger.Logger) *CircuitBreaker {
	if config.SuccessThreshold < 1 {
		config.SuccessThreshold = 1
	}

	if clock == nil {
		clock = realClock{}
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		clock:  clock,
		logger: log,
		name:   name,
	}
}

// Execute runs fn unless the circuit is open. Rejections wrap
// models.ErrTransportFault so callers treat them like the fault that
// opened the circuit.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allowRequest() {
		return fmt.Errorf("%w: %w: %s", models.ErrTransportFault, errCircuitOpen, cb.name)
	}

	err := fn()
	cb.recordResult(err)

	return err
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if cb.clock.Now().Sub(cb.openedAt) < cb.config.Cooldown {
			return false
		}

		cb.state = StateHalfOpen
		cb.successCount = 0

		cb.logger.Info().
			Str("circuit_breaker", cb.name).
			Msg("Circuit breaker transitioning to half-open")

		return true
	default:
		return false
	}
}

func (cb *CircuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if Classify(err) == OutcomeFault && !errors.Is(err, context.Canceled) {
		cb.onFailure()

		return
	}

	cb.onSuccess()
}

func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++

	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.open()
		}
	case StateHalfOpen:
		cb.open()
	case StateOpen:
	}
}

func (cb *CircuitBreaker) open() {
	cb.state = StateOpen
	cb.openedAt = cb.clock.Now()

	cb.logger.Warn().
		Str("circuit_breaker", cb.name).
		Int("failure_count", cb.failureCount).
		Dur("cooldown", cb.config.Cooldown).
		Msg("Circuit breaker opened, skipping further lookups")
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateHalfOpen:
		cb.successCount++

		if cb.successCount >= cb.config.SuccessThreshold {
			cb.state = StateClosed
			cb.failureCount = 0

			cb.logger.Info().
				Str("circuit_breaker", cb.name).
				Msg("Circuit breaker closed after successful recovery")
		}
	case StateClosed:
		cb.failureCount = 0
	case StateOpen:
	}
}

// GetState returns the current state of the circuit breaker
func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// breakerStrategy guards a vendor Strategy with a CircuitBreaker.
type breakerStrategy struct {
	next    Strategy
	breaker *CircuitBreaker
}

// WithCircuitBreaker wraps next so that repeated transport faults stop
// further calls to the vendor for the cooldown period.
func WithCircuitBreaker(next Strategy, breaker *CircuitBreaker) Strategy {
	return &breakerStrategy{next: next, breaker: breaker}
}

func (b *breakerStrategy) Lookup(ctx context.Context, device *models.Device) (*models.WarrantyRecord, error) {
	var record *models.WarrantyRecord

	err := b.breaker.Execute(func() error {
		var err error

		record, err = b.next.Lookup(ctx, device)

		return err
	})

	return record, err
}
