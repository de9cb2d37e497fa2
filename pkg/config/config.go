// Package config provides default filesystem locations for the font pipeline.
package config

import "os"

// GetFontRoot returns the font root directory.
// It checks for the FONT_ROOT environment variable, otherwise uses ./fonts.
func GetFontRoot() string {
	if path := os.Getenv("FONT_ROOT"); path != "" {
		return path
	}
	return "fonts"
}

// GetDistPath returns the directory build targets are written under.
// It checks for the DIST_PATH environment variable, otherwise uses ./dist.
func GetDistPath() string {
	if path := os.Getenv("DIST_PATH"); path != "" {
		return path
	}
	return "dist"
}

// GetStaticPath returns the directory of static assets copied into builds.
// It checks for the STATIC_PATH environment variable, otherwise uses ./static.
func GetStaticPath() string {
	if path := os.Getenv("STATIC_PATH"); path != "" {
		return path
	}
	return "static"
}
