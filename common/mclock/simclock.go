// Copyright 2025 The tiercache Authors
// This file is part of the tiercache library.
//
// The tiercache library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The tiercache library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the tiercache library. If not, see <http://www.gnu.org/licenses/>.

package mclock

import (
	"sync"
	"time"
)

// Simulated is a virtual Clock for reproducible tests of latency-bound code.
// Its reading only moves when Run or Sleep is called, so Sleep never blocks.
// The zero value is ready to use.
type Simulated struct {
	mu  sync.Mutex
	now AbsTime
}

// Now returns the current virtual time.
func (s *Simulated) Now() AbsTime {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.now
}

// Run moves the clock forward by d.
func (s *Simulated) Run(d time.Duration) {
	if d < 0 {
		panic("mclock: negative duration")
	}
	s.mu.Lock()
	s.now = s.now.Add(d)
	s.mu.Unlock()
}

// Sleep advances the virtual clock by d.
func (s *Simulated) Sleep(d time.Duration) {
	s.Run(d)
}
