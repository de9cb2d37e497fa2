package config

import (
	"os"

	pathcfg "github.com/joeblew999/plat-fonts/pkg/config"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
)

// Config holds the pipeline configuration.
type Config struct {
	Fonts    FontsConfig    `json:",optional"`
	Output   OutputConfig   `json:",optional"`
	Build    BuildConfig    `json:",optional"`
	Database DatabaseConfig `json:",optional"`
	Metrics  MetricsConfig  `json:",optional"`
	Log      logx.LogConf   `json:",optional"`
}

// FontsConfig holds font root scanning settings.
type FontsConfig struct {
	Root    string   `json:",optional"`
	Ignore  []string `json:",optional"`
	Workers int      `json:",default=4"`
}

// OutputConfig holds catalog and chunk artifact settings.
type OutputConfig struct {
	Document     string `json:",default=fonts.json"`
	Inline       string `json:",default=inline-fonts-data.js"`
	InlineGlobal string `json:",default=fontData"`
	ChunkDir     string `json:",default=font-chunks"`
	Precompress  bool   `json:",optional"`
}

// BuildConfig holds build target settings.
type BuildConfig struct {
	DistDir   string `json:",optional"`
	StaticDir string `json:",optional"`
	Debounce  string `json:",default=500ms"`
}

// DatabaseConfig holds the optional SQLite catalog export settings.
// An empty Path disables the export.
type DatabaseConfig struct {
	Path string `json:",optional"`
}

// MetricsConfig holds the metrics endpoint started by watch. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `json:",optional"`
}

// Load reads the config file when one is given and fills defaults otherwise.
// Paths left empty fall back to the environment-aware defaults.
func Load(file string) (Config, error) {
	var c Config
	if file != "" {
		if err := conf.Load(file, &c, conf.UseEnv()); err != nil {
			return c, err
		}
	} else if err := conf.FillDefault(&c); err != nil {
		return c, err
	}
	c.applyPathDefaults()
	return c, nil
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (c *Config) applyPathDefaults() {
	if c.Fonts.Root == "" {
		c.Fonts.Root = pathcfg.GetFontRoot()
	}
	if c.Build.DistDir == "" {
		c.Build.DistDir = pathcfg.GetDistPath()
	}
	if c.Build.StaticDir == "" {
		c.Build.StaticDir = pathcfg.GetStaticPath()
	}
	if c.Fonts.Workers <= 0 {
		c.Fonts.Workers = 1
	}
}
