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
	"strings"

	"github.com/tliron/commonlog"

	"github.com/lassandro/goaw/pkg/resource"
	"github.com/lassandro/goaw/pkg/storage"
	"github.com/lassandro/goaw/pkg/video"
)

// host connects the machine to the data directory, a frontend and the log.
type host struct {
	storage.Dir

	frontend frontend
	layout   video.PaletteLayout
	palette  video.Palette
	log      commonlog.Logger

	frames uint32
}

func newHost(dir string, fe frontend, layout video.PaletteLayout) *host {
	return &host{
		Dir:      storage.Dir{Path: dir},
		frontend: fe,
		layout:   layout,
		palette:  video.GrayPalette(),
		log:      commonlog.GetLogger("goaw.vm"),
	}
}

func (h *host) Present(buffer *video.Buffer) {
	h.frames++
	h.frontend.Present(buffer, &h.palette)
}

func (h *host) SetPalette(palette [16]uint16) {
	h.palette = video.DecodePalette(palette, h.layout)
}

func (h *host) Log(message string) {
	level, text := severity(message)
	h.log.Log(level, 1, text)
}

// severity maps the machine's leading log tag to a level and strips it.
func severity(message string) (commonlog.Level, string) {
	if text, ok := strings.CutPrefix(message, resource.LOG_ERROR); ok {
		return commonlog.Error, text
	}

	if text, ok := strings.CutPrefix(message, resource.LOG_WARNING); ok {
		return commonlog.Warning, text
	}

	return commonlog.Debug, message
}

func (h *host) Yield(ticks uint32) {
	h.log.Debugf("Polygon drawn after %d opcodes", ticks)
}
