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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var _ Clock = System{}
var _ Clock = new(Simulated)

func TestSimulatedRun(t *testing.T) {
	var c Simulated
	assert.Equal(t, AbsTime(0), c.Now())

	c.Run(99 * time.Hour)
	c.Run(0)
	assert.Equal(t, AbsTime(0).Add(99*time.Hour), c.Now())
	assert.Panics(t, func() { c.Run(-time.Second) })
}

func TestSimulatedSleepAdvances(t *testing.T) {
	var c Simulated
	start := c.Now()
	c.Sleep(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, c.Now().Sub(start))
}

func TestSimulatedConcurrentSleep(t *testing.T) {
	var (
		c  Simulated
		wg sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Sleep(time.Millisecond)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800*time.Millisecond, c.Now().Sub(0))
}

func TestSystemNowMonotonic(t *testing.T) {
	start := System{}.Now()
	System{}.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, Since(start), time.Millisecond)
	assert.Equal(t, AbsTime(10), AbsTime(4).Add(6))
}
