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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lassandro/goaw/pkg/machine"
	"github.com/lassandro/goaw/pkg/resource"
	"github.com/lassandro/goaw/pkg/video"
)

const FILE_NAME = "goaw.toml"

const (
	FRONTEND_WINDOW   = "window"
	FRONTEND_TERMINAL = "terminal"
	FRONTEND_PNG      = "png"
)

type Config struct {
	Data   Data   `toml:"data"`
	Engine Engine `toml:"engine"`
	Video  Video  `toml:"video"`
	Log    Log    `toml:"log"`

	// File the configuration was read from, empty for defaults
	Path string `toml:"-"`
}

type Data struct {
	Dir         string `toml:"dir"`
	Catalog     string `toml:"catalog"`
	CatalogSize int    `toml:"catalog_size"`
}

type Engine struct {
	StartChapter uint16 `toml:"start_chapter"`
	MaxSteps     int    `toml:"max_steps"`
	Seed         int16  `toml:"seed"`
	HeapSize     int    `toml:"heap_size"`
	TickMillis   int    `toml:"tick_ms"`
	Trace        bool   `toml:"trace"`
}

type Video struct {
	Scale         int    `toml:"scale"`
	PaletteLayout string `toml:"palette_layout"`
	Frontend      string `toml:"frontend"`
	PNGDir        string `toml:"png_dir"`
}

type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

func Default() *Config {
	return &Config{
		Data: Data{
			Dir:         ".",
			Catalog:     resource.CATALOG_NAME,
			CatalogSize: resource.CATALOG_SIZE,
		},
		Engine: Engine{
			StartChapter: machine.CHAPTER_BASE + 1,
			HeapSize:     resource.HEAP_SIZE,
			TickMillis:   20,
		},
		Video: Video{
			Scale:         3,
			PaletteLayout: "amiga",
			Frontend:      FRONTEND_WINDOW,
			PNGDir:        "frames",
		},
		Log: Log{
			Verbosity: 1,
		},
	}
}

// Parse decodes data over the defaults, so a file only needs the keys it
// changes.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	meta, err := toml.Decode(string(data), cfg)

	if err != nil {
		return nil, err
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("Unknown configuration key %q", undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg, err := Parse(data)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.Path = path

	// Data paths are relative to the file that names them
	if !filepath.IsAbs(cfg.Data.Dir) {
		cfg.Data.Dir = filepath.Join(filepath.Dir(path), cfg.Data.Dir)
	}

	return cfg, nil
}

// FindAndLoad walks up from startDir looking for FILE_NAME. The defaults
// are returned when no file exists.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)

	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FILE_NAME)

		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)

		if parent == dir {
			return Default(), nil
		}

		dir = parent
	}
}

func (cfg *Config) Validate() error {
	if _, ok := machine.ChapterIndex(cfg.Engine.StartChapter); !ok {
		return &machine.InvalidChapterError{ID: cfg.Engine.StartChapter}
	}

	if _, err := video.ParseLayout(cfg.Video.PaletteLayout); err != nil {
		return err
	}

	switch cfg.Video.Frontend {
	case FRONTEND_WINDOW, FRONTEND_TERMINAL, FRONTEND_PNG:
	default:
		return fmt.Errorf("Unknown frontend %q", cfg.Video.Frontend)
	}

	if cfg.Video.Scale < 1 {
		return fmt.Errorf("Invalid video scale %d", cfg.Video.Scale)
	}

	if cfg.Engine.TickMillis < 1 {
		return fmt.Errorf("Invalid tick length %dms", cfg.Engine.TickMillis)
	}

	if cfg.Engine.MaxSteps < 0 {
		return fmt.Errorf("Invalid step budget %d", cfg.Engine.MaxSteps)
	}

	return nil
}

// Layout returns the palette decoder. Validate has already checked the name.
func (cfg *Config) Layout() video.PaletteLayout {
	layout, err := video.ParseLayout(cfg.Video.PaletteLayout)

	if err != nil {
		return video.LAYOUT_AMIGA
	}

	return layout
}

func (cfg *Config) MachineOptions() machine.Options {
	return machine.Options{
		HeapSize:    cfg.Engine.HeapSize,
		CatalogName: cfg.Data.Catalog,
		CatalogSize: cfg.Data.CatalogSize,
		Seed:        cfg.Engine.Seed,
		MaxSteps:    cfg.Engine.MaxSteps,
		Trace:       cfg.Engine.Trace,
	}
}
