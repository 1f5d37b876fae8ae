package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RenderConfig holds the settings for one render/export run. Every field
// is optional: Get* accessors fall back to defaults, so a partial JSON
// file (or none at all) is valid.
type RenderConfig struct {
	// Input
	DataDir *string `json:"data_dir,omitempty"`

	// Output
	OutputDir     *string `json:"output_dir,omitempty"`
	GIFName       *string `json:"gif_name,omitempty"`
	WriteHTML     *bool   `json:"write_html,omitempty"`
	HTMLFrame     *int    `json:"html_frame,omitempty"` // negative counts from the end
	WriteNetCDF   *bool   `json:"write_netcdf,omitempty"`
	WriteManifest *bool   `json:"write_manifest,omitempty"`

	// Animation
	FPS           *float64 `json:"fps,omitempty"`
	PanelWidthIn  *float64 `json:"panel_width_in,omitempty"`
	PanelHeightIn *float64 `json:"panel_height_in,omitempty"`
	DPI           *int     `json:"dpi,omitempty"`
	Palette       *string  `json:"palette,omitempty"` // blackbody, kindlmann or bluered
	ColorBar      *bool    `json:"color_bar,omitempty"`
}

// Palettes lists the accepted palette names.
var Palettes = []string{"blackbody", "kindlmann", "bluered"}

const maxConfigSize = 1 * 1024 * 1024 // 1MB

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyRenderConfig returns a RenderConfig with all fields unset.
func EmptyRenderConfig() *RenderConfig {
	return &RenderConfig{}
}

// DefaultRenderConfig returns a RenderConfig with every field set to its
// default value.
func DefaultRenderConfig() *RenderConfig {
	c := EmptyRenderConfig()
	return &RenderConfig{
		DataDir:       ptrString(c.GetDataDir()),
		OutputDir:     ptrString(c.GetOutputDir()),
		GIFName:       ptrString(c.GetGIFName()),
		WriteHTML:     ptrBool(c.GetWriteHTML()),
		HTMLFrame:     ptrInt(c.GetHTMLFrame()),
		WriteNetCDF:   ptrBool(c.GetWriteNetCDF()),
		WriteManifest: ptrBool(c.GetWriteManifest()),
		FPS:           ptrFloat64(c.GetFPS()),
		PanelWidthIn:  ptrFloat64(c.GetPanelWidthIn()),
		PanelHeightIn: ptrFloat64(c.GetPanelHeightIn()),
		DPI:           ptrInt(c.GetDPI()),
		Palette:       ptrString(c.GetPalette()),
		ColorBar:      ptrBool(c.GetColorBar()),
	}
}

// LoadRenderConfig loads a RenderConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadRenderConfig(path string) (*RenderConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRenderConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *RenderConfig) Validate() error {
	if c.FPS != nil && (*c.FPS <= 0 || *c.FPS > 100) {
		return fmt.Errorf("fps must be in (0, 100], got %g", *c.FPS)
	}

	if c.PanelWidthIn != nil && *c.PanelWidthIn <= 0 {
		return fmt.Errorf("panel_width_in must be positive, got %g", *c.PanelWidthIn)
	}
	if c.PanelHeightIn != nil && *c.PanelHeightIn <= 0 {
		return fmt.Errorf("panel_height_in must be positive, got %g", *c.PanelHeightIn)
	}

	if c.DPI != nil && (*c.DPI < 10 || *c.DPI > 600) {
		return fmt.Errorf("dpi must be between 10 and 600, got %d", *c.DPI)
	}

	if c.Palette != nil {
		known := false
		for _, p := range Palettes {
			if *c.Palette == p {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown palette %q (want one of %v)", *c.Palette, Palettes)
		}
	}

	if c.GIFName != nil {
		name := *c.GIFName
		if name == "" || filepath.Base(name) != name {
			return fmt.Errorf("gif_name must be a bare file name, got %q", name)
		}
		if filepath.Ext(name) != ".gif" {
			return fmt.Errorf("gif_name must have .gif extension, got %q", name)
		}
	}

	return nil
}

// GetDataDir returns the data_dir value or the default.
func (c *RenderConfig) GetDataDir() string {
	if c.DataDir == nil || *c.DataDir == "" {
		return "./data"
	}
	return *c.DataDir
}

// GetOutputDir returns the output_dir value or the default.
func (c *RenderConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "."
	}
	return *c.OutputDir
}

// GetGIFName returns the gif_name value or the default.
func (c *RenderConfig) GetGIFName() string {
	if c.GIFName == nil {
		return "result.gif"
	}
	return *c.GIFName
}

// GetWriteHTML returns the write_html value or the default.
func (c *RenderConfig) GetWriteHTML() bool {
	if c.WriteHTML == nil {
		return false
	}
	return *c.WriteHTML
}

// GetHTMLFrame returns the html_frame value or the default (last frame).
func (c *RenderConfig) GetHTMLFrame() int {
	if c.HTMLFrame == nil {
		return -1
	}
	return *c.HTMLFrame
}

// GetWriteNetCDF returns the write_netcdf value or the default.
func (c *RenderConfig) GetWriteNetCDF() bool {
	if c.WriteNetCDF == nil {
		return false
	}
	return *c.WriteNetCDF
}

// GetWriteManifest returns the write_manifest value or the default.
func (c *RenderConfig) GetWriteManifest() bool {
	if c.WriteManifest == nil {
		return true
	}
	return *c.WriteManifest
}

// GetFPS returns the fps value or the default.
func (c *RenderConfig) GetFPS() float64 {
	if c.FPS == nil {
		return 5
	}
	return *c.FPS
}

// GetPanelWidthIn returns the panel_width_in value or the default.
func (c *RenderConfig) GetPanelWidthIn() float64 {
	if c.PanelWidthIn == nil {
		return 4
	}
	return *c.PanelWidthIn
}

// GetPanelHeightIn returns the panel_height_in value or the default.
func (c *RenderConfig) GetPanelHeightIn() float64 {
	if c.PanelHeightIn == nil {
		return 4
	}
	return *c.PanelHeightIn
}

// GetDPI returns the dpi value or the default.
func (c *RenderConfig) GetDPI() int {
	if c.DPI == nil {
		return 72
	}
	return *c.DPI
}

// GetPalette returns the palette value or the default.
func (c *RenderConfig) GetPalette() string {
	if c.Palette == nil {
		return "blackbody"
	}
	return *c.Palette
}

// GetColorBar returns the color_bar value or the default.
func (c *RenderConfig) GetColorBar() bool {
	if c.ColorBar == nil {
		return true
	}
	return *c.ColorBar
}
