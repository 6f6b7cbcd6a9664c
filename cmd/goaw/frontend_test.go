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
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lassandro/goaw/pkg/video"
)

func TestParseKeys(t *testing.T) {
	testCases := []struct {
		Input string
		Keys  []key
	}{
		{"\x1b[A\x1b[B\x1b[C\x1b[D", []key{KEY_UP, KEY_DOWN, KEY_RIGHT, KEY_LEFT}},
		{"wasd", []key{KEY_UP, KEY_LEFT, KEY_DOWN, KEY_RIGHT}},
		{"hjkl", []key{KEY_LEFT, KEY_DOWN, KEY_UP, KEY_RIGHT}},
		{" \r", []key{KEY_ACTION, KEY_ACTION}},
		{"q", []key{KEY_QUIT}},
		{"\x1b", []key{KEY_QUIT}},
		{"\x03", []key{KEY_QUIT}},
		{"xyz", nil},
	}

	for _, test := range testCases {
		keys := parseKeys([]byte(test.Input))

		if !reflect.DeepEqual(keys, test.Keys) {
			t.Errorf(
				"Key mismatch for %q\nwant:%v\nhave:%v",
				test.Input,
				test.Keys,
				keys,
			)
		}
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	var buffer video.Buffer
	var out bytes.Buffer

	buffer.SetPixel(0, 0, 0x01)
	buffer.SetPixel(0, 2, 0x0F)

	palette := video.GrayPalette()

	renderHalfBlocks(&out, &buffer, &palette, 160, 50)

	want := fmt.Sprintf(
		"\033[H\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▀",
		palette[1].R, palette[1].G, palette[1].B,
		palette[15].R, palette[15].G, palette[15].B,
	)

	if !strings.HasPrefix(out.String(), want) {
		t.Errorf("First cell mismatch\nwant:%q\nhave:%q", want, out.String()[:len(want)])
	}

	if lines := strings.Count(out.String(), "\r\n"); lines != 50 {
		t.Errorf("Line count mismatch\nwant:50\nhave:%d", lines)
	}

	if cells := strings.Count(out.String(), "▀"); cells != 160*50 {
		t.Errorf("Cell count mismatch\nwant:%d\nhave:%d", 160*50, cells)
	}
}

func TestTerminalKeyHold(t *testing.T) {
	fe := &terminalFrontend{}

	fe.press([]key{KEY_LEFT, KEY_ACTION})

	if in := fe.Input(); !in.Left || !in.Action || in.Right {
		t.Errorf("Input mismatch\nwant:left+action\nhave:%+v", in)
	}

	fe.pressed[KEY_LEFT] = time.Now().Add(-2 * KEY_HOLD)

	if in := fe.Input(); in.Left {
		t.Errorf("Key still held after %v", 2*KEY_HOLD)
	}
}

func TestPNGFrontend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")

	fe, err := newPNGFrontend(dir, 2)

	if err != nil {
		t.Fatal(err)
	}

	var buffer video.Buffer
	buffer.Fill(0x03)

	palette := video.GrayPalette()

	fe.Present(&buffer, &palette)
	fe.Present(&buffer, &palette)

	if err := fe.Close(); err != nil {
		t.Fatal(err)
	}

	file, err := os.Open(filepath.Join(dir, "frame00001.png"))

	if err != nil {
		t.Fatal(err)
	}

	defer file.Close()

	img, err := png.Decode(file)

	if err != nil {
		t.Fatal(err)
	}

	if bounds := img.Bounds(); bounds.Dx() != 640 || bounds.Dy() != 400 {
		t.Errorf("Frame size mismatch\nwant:640x400\nhave:%dx%d", bounds.Dx(), bounds.Dy())
	}

	r, _, _, _ := img.At(10, 10).RGBA()

	if uint8(r>>8) != palette[3].R {
		t.Errorf("Pixel mismatch\nwant:%#02x\nhave:%#02x", palette[3].R, uint8(r>>8))
	}
}

func TestRunTicker(t *testing.T) {
	calls := 0

	err := runTicker(time.Millisecond, func() error {
		calls++

		if calls == 3 {
			return errQuit
		}

		return nil
	})

	if err != nil || calls != 3 {
		t.Errorf("Run mismatch\nwant:<nil> after 3\nhave:%v after %d", err, calls)
	}

	failure := errors.New("failure")

	if err := runTicker(time.Millisecond, func() error { return failure }); err != failure {
		t.Errorf("Error mismatch\nwant:%v\nhave:%v", failure, err)
	}
}
