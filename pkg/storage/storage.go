// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Dir reads game files from a directory. Names are matched case
// insensitively since the data files ship in upper case on some media.
type Dir struct {
	Path string
}

func (d Dir) Read(name string, offset uint32, length int) ([]byte, error) {
	file, err := d.open(name)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	buffer := make([]byte, length)

	n, err := file.ReadAt(buffer, int64(offset))

	if err == io.EOF && n == length {
		err = nil
	} else if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}

	if err != nil {
		return buffer[:n], err
	}

	return buffer, nil
}

func (d Dir) open(name string) (*os.File, error) {
	file, err := os.Open(filepath.Join(d.Path, name))

	if err == nil || !os.IsNotExist(err) {
		return file, err
	}

	entries, derr := os.ReadDir(d.Path)

	if derr != nil {
		return nil, err
	}

	for _, entry := range entries {
		if strings.EqualFold(entry.Name(), name) {
			return os.Open(filepath.Join(d.Path, entry.Name()))
		}
	}

	return nil, err
}

// Memory serves files from a map, mostly for tests and embedded data.
type Memory map[string][]byte

func (m Memory) Read(name string, offset uint32, length int) ([]byte, error) {
	data, exists := m[name]

	if !exists {
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}

	if int64(offset) > int64(len(data)) {
		return nil, io.ErrUnexpectedEOF
	}

	end := int64(offset) + int64(length)

	if end > int64(len(data)) {
		return data[offset:], io.ErrUnexpectedEOF
	}

	result := make([]byte, length)
	copy(result, data[offset:end])

	return result, nil
}
