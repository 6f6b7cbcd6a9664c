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

package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lassandro/goaw/pkg/config"
	"github.com/lassandro/goaw/pkg/machine"
	"github.com/lassandro/goaw/pkg/video"
)

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(`
[data]
dir = "/games/aw"

[engine]
start_chapter = 16002
max_steps = 10000
seed = -5

[video]
palette_layout = "vga"
frontend = "png"
`))

	if err != nil {
		t.Fatal(err)
	}

	want := config.Default()
	want.Data.Dir = "/games/aw"
	want.Engine.StartChapter = 16002
	want.Engine.MaxSteps = 10000
	want.Engine.Seed = -5
	want.Video.PaletteLayout = "vga"
	want.Video.Frontend = config.FRONTEND_PNG

	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Config mismatch\nwant:%+v\nhave:%+v", want, cfg)
	}

	options := cfg.MachineOptions()

	if options.Seed != -5 || options.MaxSteps != 10000 {
		t.Errorf("Options mismatch\nhave:%+v", options)
	}

	if cfg.Layout().Decode(0x0F00) != video.LAYOUT_VGA.Decode(0x0F00) {
		t.Error("Palette layout not applied")
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := config.Parse(nil)

	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(cfg, config.Default()) {
		t.Errorf("Config mismatch\nwant:%+v\nhave:%+v", config.Default(), cfg)
	}

	if cfg.Engine.StartChapter != machine.CHAPTER_BASE+1 {
		t.Errorf("Start chapter mismatch\nwant:16001\nhave:%d", cfg.Engine.StartChapter)
	}
}

func TestParseFail(t *testing.T) {
	testCases := map[string]string{
		"Syntax":         "[data",
		"Unknown Key":    "[data]\nfolder = \"x\"",
		"Chapter":        "[engine]\nstart_chapter = 15000",
		"Seed Overflow":  "[engine]\nseed = 40000",
		"Frontend":       "[video]\nfrontend = \"vulkan\"",
		"Palette Layout": "[video]\npalette_layout = \"cga\"",
		"Scale":          "[video]\nscale = 0",
		"Tick":           "[engine]\ntick_ms = 0",
		"Step Budget":    "[engine]\nmax_steps = -1",
	}

	for name, input := range testCases {
		t.Run(name, func(t *testing.T) {
			if _, err := config.Parse([]byte(input)); err == nil {
				t.Errorf("Expected error parsing %q", input)
			}
		})
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")

	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(root, config.FILE_NAME)
	data := []byte("[data]\ndir = \"data\"\n\n[log]\nverbosity = 2\n")

	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.FindAndLoad(nested)

	if err != nil {
		t.Fatal(err)
	}

	if cfg.Path != path {
		t.Errorf("Path mismatch\nwant:%s\nhave:%s", path, cfg.Path)
	}

	if want := filepath.Join(root, "data"); cfg.Data.Dir != want {
		t.Errorf("Data dir mismatch\nwant:%s\nhave:%s", want, cfg.Data.Dir)
	}

	if cfg.Log.Verbosity != 2 {
		t.Errorf("Verbosity mismatch\nwant:2\nhave:%d", cfg.Log.Verbosity)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error loading a missing file")
	}
}
