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

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCopyBytes(t *testing.T) {
	input := []byte{1, 2, 3, 4}
	v := CopyBytes(input)
	assert.Equal(t, input, v)
	v[0] = 99
	assert.Equal(t, byte(1), input[0], "copy must not alias the input")
	assert.Nil(t, CopyBytes(nil))
}

func TestStorageSize(t *testing.T) {
	assert.Equal(t, "512.00 B", StorageSize(512).String())
	assert.Equal(t, "2.00 KiB", StorageSize(2048).String())
	assert.Equal(t, "16.00 MiB", StorageSize(16*1024*1024).String())
}
