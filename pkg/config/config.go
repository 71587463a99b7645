// Package config handles prism.toml viewer configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/chazu/prism/pkg/color"
	"github.com/chazu/prism/pkg/gizmo"
	"github.com/chazu/prism/pkg/scene"
	"github.com/chazu/prism/pkg/viewer"
)

// FileName is the configuration file looked up next to the binary or
// in the working directory.
const FileName = "prism.toml"

// Config is the persisted viewer configuration.
type Config struct {
	Viewer ViewerConfig `toml:"viewer"`
	Gizmo  GizmoConfig  `toml:"gizmo"`
}

// ViewerConfig configures the viewer core.
type ViewerConfig struct {
	Palette        string `toml:"palette"`
	HighlightColor string `toml:"highlight-color"`
	RenderTrigger  string `toml:"render-trigger"`
	ShowBounds     bool   `toml:"show-bounds"`
	MaxFPS         int    `toml:"max-fps"`
}

// GizmoConfig configures the selection gizmo.
type GizmoConfig struct {
	LeaveVisible    bool   `toml:"leave-visible"`
	IgnoreInvisible bool   `toml:"ignore-invisible"`
	CountUnknown    bool   `toml:"count-unknown"`
	Color           string `toml:"color"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Viewer: ViewerConfig{
			Palette:        color.DefaultPalette,
			HighlightColor: "#ff00ff",
			RenderTrigger:  "reactive",
			MaxFPS:         60,
		},
		Gizmo: GizmoConfig{
			IgnoreInvisible: true,
			Color:           "#ffffff",
		},
	}
}

// Load reads a prism.toml file. A missing file yields the defaults;
// fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return cfg, nil
}

// Apply pushes the viewer settings onto a viewer instance.
func (c Config) Apply(v *viewer.Viewer) error {
	if c.Viewer.Palette != "" {
		if _, err := color.Palette(c.Viewer.Palette); err != nil {
			return err
		}
		v.SetPalette(c.Viewer.Palette)
	}
	if c.Viewer.HighlightColor != "" {
		hc, err := color.Parse(c.Viewer.HighlightColor)
		if err != nil {
			return fmt.Errorf("highlight-color: %w", err)
		}
		v.SetHighlightColor(hc)
	}
	trigger, err := parseTrigger(c.Viewer.RenderTrigger)
	if err != nil {
		return err
	}
	v.Trigger = trigger
	if c.Viewer.MaxFPS < 0 {
		return fmt.Errorf("max-fps must not be negative, got %d", c.Viewer.MaxFPS)
	}
	v.MaxFPS = c.Viewer.MaxFPS
	if c.Viewer.ShowBounds {
		v.ShowBounds(true)
	}
	return nil
}

// GizmoSettings converts the persisted gizmo section into the runtime
// configuration.
func (c Config) GizmoSettings() (gizmo.Config, error) {
	gc := gizmo.Config{
		LeaveVisible:    c.Gizmo.LeaveVisible,
		IgnoreInvisible: c.Gizmo.IgnoreInvisible,
		CountUnknown:    c.Gizmo.CountUnknown,
	}
	if c.Gizmo.Color == "" {
		gc.Color = color.MustParse("#ffffff")
		return gc, nil
	}
	gcColor, err := color.Parse(c.Gizmo.Color)
	if err != nil {
		return gc, fmt.Errorf("gizmo color: %w", err)
	}
	gc.Color = gcColor
	return gc, nil
}

func parseTrigger(s string) (scene.RenderTrigger, error) {
	switch s {
	case "", "reactive":
		return scene.TriggerReactive, nil
	case "continuous":
		return scene.TriggerContinuous, nil
	case "active_window", "active-window":
		return scene.TriggerActiveWindow, nil
	default:
		return scene.TriggerReactive, fmt.Errorf("unknown render-trigger %q", s)
	}
}
