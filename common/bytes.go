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

// Package common contains various helper functions.
package common

import "fmt"

// CopyBytes returns an exact copy of the provided bytes.
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)

	return
}

// StorageSize is a wrapper around a float value that supports user friendly
// formatting.
type StorageSize float64

// String implements the stringer interface.
func (s StorageSize) String() string {
	if s > 1099511627776 {
		return fmt.Sprintf("%.2f TiB", float64(s)/1099511627776)
	} else if s > 1073741824 {
		return fmt.Sprintf("%.2f GiB", float64(s)/1073741824)
	} else if s > 1048576 {
		return fmt.Sprintf("%.2f MiB", float64(s)/1048576)
	} else if s > 1024 {
		return fmt.Sprintf("%.2f KiB", float64(s)/1024)
	}
	return fmt.Sprintf("%.2f B", float64(s))
}

// TerminalString implements log.TerminalStringer, formatting a string for console
// output during logging.
func (s StorageSize) TerminalString() string {
	return s.String()
}
