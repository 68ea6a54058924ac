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

package ethdb

import "errors"

var (
	// ErrNotFound is returned by every backend when a requested key is absent.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned when accessing a database after Close.
	ErrClosed = errors.New("database closed")
)

// IsNotFound reports whether err signals an absent key.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
