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

package main

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/lassandro/goaw/pkg/config"
	"github.com/lassandro/goaw/pkg/video"
)

// frontend presents frames and samples the controls. Run drives step at the
// tick interval until step fails or the user closes the frontend.
type frontend interface {
	Present(buffer *video.Buffer, palette *video.Palette)
	Input() Input
	Run(interval time.Duration, step func() error) error
	Close() error
}

// Returned by step to end Run without an error
var errQuit = errors.New("Quit")

func newFrontend(cfg *config.Config) (frontend, error) {
	switch cfg.Video.Frontend {
	case config.FRONTEND_WINDOW:
		return newWindowFrontend(cfg.Video.Scale)
	case config.FRONTEND_TERMINAL:
		return newTerminalFrontend()
	case config.FRONTEND_PNG:
		return newPNGFrontend(cfg.Video.PNGDir, cfg.Video.Scale)
	}

	return nil, fmt.Errorf("Unknown frontend %q", cfg.Video.Frontend)
}

func runTicker(interval time.Duration, step func() error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := step(); errors.Is(err, errQuit) {
			return nil
		} else if err != nil {
			return err
		}
	}

	return nil
}

// pngFrontend writes every presented frame to a numbered file.
type pngFrontend struct {
	dir   string
	scale int
	frame int
	err   error
}

func newPNGFrontend(dir string, scale int) (*pngFrontend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &pngFrontend{dir: dir, scale: scale}, nil
}

func (fe *pngFrontend) Present(buffer *video.Buffer, palette *video.Palette) {
	if fe.err != nil {
		return
	}

	name := filepath.Join(fe.dir, fmt.Sprintf("frame%05d.png", fe.frame))
	fe.frame++

	file, err := os.Create(name)

	if err != nil {
		fe.err = err
		return
	}

	defer file.Close()

	img := video.Scale(video.Image(buffer, palette), fe.scale)

	if err := png.Encode(file, img); err != nil {
		fe.err = fmt.Errorf("%s: %w", name, err)
	}
}

func (fe *pngFrontend) Input() Input {
	return Input{}
}

func (fe *pngFrontend) Run(interval time.Duration, step func() error) error {
	return runTicker(interval, func() error {
		if err := step(); err != nil {
			return err
		}

		return fe.err
	})
}

func (fe *pngFrontend) Close() error {
	return fe.err
}
