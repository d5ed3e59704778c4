package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCanvas(); err != nil {
		return err
	}
	if err := c.validateKeying(); err != nil {
		return err
	}
	if err := c.validateOverlay(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCanvas() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas: width and height must be positive (got %dx%d)", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.Width%2 != 0 || c.Canvas.Height%2 != 0 {
		return fmt.Errorf("canvas: dimensions must be even for yuv420p (got %dx%d)", c.Canvas.Width, c.Canvas.Height)
	}
	return nil
}

func (c *Config) validateKeying() error {
	if c.Keying.Similarity <= 0 || c.Keying.Similarity > 1 {
		return fmt.Errorf("keying.similarity must be within (0, 1], got %v", c.Keying.Similarity)
	}
	if c.Keying.Blend < 0 || c.Keying.Blend > 1 {
		return fmt.Errorf("keying.blend must be within [0, 1], got %v", c.Keying.Blend)
	}
	switch c.Keying.Anchor {
	case AnchorCenter, AnchorBottom:
	default:
		return fmt.Errorf("keying.anchor: unsupported value %q (expected %q or %q)", c.Keying.Anchor, AnchorCenter, AnchorBottom)
	}
	return nil
}

func (c *Config) validateOverlay() error {
	if c.Overlay.BoxWidthRatio > 1 {
		return errors.New("overlay.box_width_ratio must not exceed 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
