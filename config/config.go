// Package config describes which hardware timers a board enables and how
package config

import (
	"encoding/json"
	"fmt"
)

// BoardConfig is the board-level timer configuration
type BoardConfig struct {
	// Board names the target, e.g. "nrf51"
	Board string `json:"board"`

	// HFXOStart makes the driver start the crystal oscillator before any
	// timer counts. Boards whose startup code already runs it may leave it off.
	HFXOStart bool `json:"hfxo_start"`

	Timers []TimerConfig `json:"timers"`

	// Demo timers scheduled by the host simulation and the example firmware
	Demo []DemoTimer `json:"demo,omitempty"`
}

// TimerConfig enables one hardware timer slot
type TimerConfig struct {
	ID          int    `json:"id"`
	Enabled     bool   `json:"enabled"`
	// Priority is the NVIC level, 0 highest. Unset means DefaultPriority.
	Priority    *uint8 `json:"priority,omitempty"`
	FrequencyHz uint32 `json:"frequency_hz"`
}

// DemoTimer is a periodic scheduled timer
type DemoTimer struct {
	Name   string `json:"name"`
	Timer  int    `json:"timer"`
	Period uint32 `json:"period_ticks"`
	Count  int    `json:"count"`
}

// LoadConfig parses a JSON configuration and applies defaults
func LoadConfig(jsonData []byte) (*BoardConfig, error) {
	var config BoardConfig

	if err := json.Unmarshal(jsonData, &config); err != nil {
		return nil, fmt.Errorf("parse board config: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *BoardConfig) {
	if config.Board == "" {
		config.Board = "nrf51"
	}

	for i := range config.Timers {
		timer := &config.Timers[i]
		if timer.FrequencyHz == 0 {
			timer.FrequencyHz = 1000000 // 1MHz
		}
		if timer.Priority == nil {
			timer.Priority = priority(DefaultPriority)
		}
	}

	for i := range config.Demo {
		demo := &config.Demo[i]
		if demo.Name == "" {
			demo.Name = fmt.Sprintf("demo%d", i)
		}
		if demo.Period == 0 {
			demo.Period = 1000
		}
	}
}

// Validate checks ids are in range and unique
func (c *BoardConfig) Validate() error {
	seen := make(map[int]bool)
	for _, timer := range c.Timers {
		if timer.ID < 0 || timer.ID >= MaxTimers {
			return fmt.Errorf("timer id %d out of range", timer.ID)
		}
		if timer.Priority != nil && *timer.Priority > MaxPriority {
			return fmt.Errorf("timer %d priority %d above %d", timer.ID, *timer.Priority, MaxPriority)
		}
		if seen[timer.ID] {
			return fmt.Errorf("timer id %d configured twice", timer.ID)
		}
		seen[timer.ID] = true
	}
	for _, demo := range c.Demo {
		if t, ok := c.Timer(demo.Timer); !ok || !t.Enabled {
			return fmt.Errorf("demo %q uses disabled timer %d", demo.Name, demo.Timer)
		}
	}
	return nil
}

// Timer returns the configuration of timer id
func (c *BoardConfig) Timer(id int) (TimerConfig, bool) {
	for _, timer := range c.Timers {
		if timer.ID == id {
			return timer, true
		}
	}
	return TimerConfig{}, false
}

// MaxTimers is the number of TIMER instances on an nRF51
const MaxTimers = 3

// The nRF51 NVIC implements 2 priority bits
const (
	MaxPriority     = 3
	DefaultPriority = MaxPriority
)

// IRQPriority returns the configured priority, DefaultPriority if unset
func (t TimerConfig) IRQPriority() uint8 {
	if t.Priority == nil {
		return DefaultPriority
	}
	return *t.Priority
}

func priority(p uint8) *uint8 {
	return &p
}

// DefaultNRF51Config enables all three timers at 1MHz
func DefaultNRF51Config() *BoardConfig {
	return &BoardConfig{
		Board:     "nrf51",
		HFXOStart: true,
		Timers: []TimerConfig{
			{ID: 0, Enabled: true, Priority: priority(1), FrequencyHz: 1000000},
			{ID: 1, Enabled: true, Priority: priority(1), FrequencyHz: 1000000},
			{ID: 2, Enabled: true, Priority: priority(2), FrequencyHz: 31250},
		},
		Demo: []DemoTimer{
			{Name: "blink", Timer: 1, Period: 500000},
			{Name: "fast", Timer: 0, Period: 12500},
			{Name: "slow", Timer: 2, Period: 40000, Count: 4},
		},
	}
}
