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

// Package mclock is a wrapper for a monotonic clock source. The tiered cache
// uses it to model the latency of its slow backing source.
package mclock

import (
	"time"

	_ "unsafe" // for go:linkname
)

//go:noescape
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// AbsTime represents absolute monotonic time.
type AbsTime int64

// Now returns the current absolute monotonic time.
func Now() AbsTime {
	return AbsTime(nanotime())
}

// Add returns t + d as absolute time.
func (t AbsTime) Add(d time.Duration) AbsTime {
	return t + AbsTime(d)
}

// Sub returns t - t2 as a duration.
func (t AbsTime) Sub(t2 AbsTime) time.Duration {
	return time.Duration(t - t2)
}

// Clock measures and spends time. The system clock blocks in Sleep; a simulated
// clock only moves its reading forward.
// Clock 接口使得可以用模拟时钟替换单调系统时钟。
type Clock interface {
	Now() AbsTime
	Sleep(time.Duration)
}

// System implements Clock using the monotonic system clock.
type System struct{}

// Now returns the current monotonic time.
func (System) Now() AbsTime {
	return Now()
}

// Sleep blocks for the given duration.
func (System) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Since returns the time elapsed since start on the system clock.
func Since(start AbsTime) time.Duration {
	return Now().Sub(start)
}
