// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package util

import "time"

// Ticker delivers the ticks that pace repeated work, such as periodic scans.
type Ticker interface {
	Channel() <-chan time.Time
	Stop()
}

type ticker struct {
	*time.Ticker
}

func (t *ticker) Channel() <-chan time.Time {
	return t.C
}

func NewTicker(d time.Duration) Ticker {
	return &ticker{time.NewTicker(d)}
}

// ManualTicker ticks only when told to. With an unbuffered channel Tick
// returns once the consumer has taken the tick.
type ManualTicker struct {
	C chan time.Time
}

func (m *ManualTicker) Channel() <-chan time.Time {
	return m.C
}

func (m *ManualTicker) Tick() {
	m.C <- time.Now()
}

func (m *ManualTicker) Stop() {}

func NewManualTicker(channelSize int) *ManualTicker {
	return &ManualTicker{C: make(chan time.Time, channelSize)}
}
