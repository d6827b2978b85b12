package resilience

import "time"

// CircuitBreakerConfig is loaded per dependency from <PREFIX>_CIRCUIT_* variables.
type CircuitBreakerConfig struct {
	Enabled bool
	// TripAfter consecutive failures open the circuit.
	TripAfter int
	// Cooldown is how long the circuit stays open before probing.
	Cooldown time.Duration
	// Probes is how many trial calls a half-open circuit admits.
	Probes int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:   true,
		TripAfter: 5,
		Cooldown:  15 * time.Second,
		Probes:    2,
	}
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	d := DefaultCircuitBreakerConfig()
	if c.TripAfter < 1 {
		c.TripAfter = d.TripAfter
	}
	if c.Cooldown <= 0 {
		c.Cooldown = d.Cooldown
	}
	if c.Probes < 1 {
		c.Probes = d.Probes
	}
	return c
}
