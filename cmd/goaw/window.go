//go:build !headless

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
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lassandro/goaw/pkg/video"
)

type windowFrontend struct {
	scale int

	mutex  sync.Mutex
	pixels []byte
	frame  *ebiten.Image

	step func() error
	err  error
}

func newWindowFrontend(scale int) (frontend, error) {
	return &windowFrontend{
		scale:  scale,
		pixels: make([]byte, video.WIDTH*video.HEIGHT*4),
	}, nil
}

func (fe *windowFrontend) Present(buffer *video.Buffer, palette *video.Palette) {
	fe.mutex.Lock()
	defer fe.mutex.Unlock()

	video.RGBA(buffer, palette, fe.pixels)
}

// Input is only valid from the game loop, which is where step runs.
func (fe *windowFrontend) Input() Input {
	pressed := func(keys ...ebiten.Key) bool {
		for _, key := range keys {
			if ebiten.IsKeyPressed(key) {
				return true
			}
		}

		return false
	}

	return Input{
		Left:   pressed(ebiten.KeyArrowLeft, ebiten.KeyA),
		Right:  pressed(ebiten.KeyArrowRight, ebiten.KeyD),
		Up:     pressed(ebiten.KeyArrowUp, ebiten.KeyW),
		Down:   pressed(ebiten.KeyArrowDown, ebiten.KeyS),
		Action: pressed(ebiten.KeySpace, ebiten.KeyEnter),
	}
}

func (fe *windowFrontend) Run(interval time.Duration, step func() error) error {
	fe.step = step

	ebiten.SetWindowSize(video.WIDTH*fe.scale, video.HEIGHT*fe.scale)
	ebiten.SetWindowTitle("Another World")
	ebiten.SetWindowResizable(true)
	ebiten.SetTPS(int(time.Second / interval))

	if err := ebiten.RunGame(fe); err != nil {
		return err
	}

	return fe.err
}

func (fe *windowFrontend) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	if err := fe.step(); err != nil {
		if !errors.Is(err, errQuit) {
			fe.err = err
		}

		return ebiten.Termination
	}

	return nil
}

func (fe *windowFrontend) Draw(screen *ebiten.Image) {
	if fe.frame == nil {
		fe.frame = ebiten.NewImage(video.WIDTH, video.HEIGHT)
	}

	fe.mutex.Lock()
	fe.frame.WritePixels(fe.pixels)
	fe.mutex.Unlock()

	bounds := screen.Bounds()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(
		float64(bounds.Dx())/video.WIDTH,
		float64(bounds.Dy())/video.HEIGHT,
	)

	screen.DrawImage(fe.frame, op)
}

func (fe *windowFrontend) Layout(outsideWidth, outsideHeight int) (int, int) {
	return video.WIDTH * fe.scale, video.HEIGHT * fe.scale
}

func (fe *windowFrontend) Close() error {
	return nil
}
