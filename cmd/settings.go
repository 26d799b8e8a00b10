package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/pkg/shotlib"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

var settingsFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "config, c",
		Usage:  "read settings from a YAML file; other flags override it",
		EnvVar: "AUTOSHOT_SETTINGS",
	},
	cli.IntFlag{
		Name:  "interval, i",
		Usage: fmt.Sprintf("minutes between captures (default: %d)", shotlib.DefaultIntervalMinutes),
	},
	cli.StringFlag{
		Name:  "dir, d",
		Usage: "folder the screenshots are saved in (default: ~/Documents/autoshot)",
	},
	cli.StringFlag{
		Name:  "from",
		Usage: "start of the daily capture window, HH:MM",
	},
	cli.StringFlag{
		Name:  "to",
		Usage: "end of the daily capture window, HH:MM",
	},
	cli.StringFlag{
		Name:  "days",
		Usage: "comma separated days to capture on (default: Mon,Tue,Wed,Thu,Fri)",
	},
	cli.IntFlag{
		Name:  "scale",
		Usage: "output width in percent of the display width (default: 100)",
	},
	cli.IntFlag{
		Name:  "quality, q",
		Usage: "JPEG quality in percent (default: 100)",
	},
}

var errNoSettings = errors.New("no settings given")

// settingsGiven reports whether any settings flag or a settings file was
// supplied.
func settingsGiven(ctx *cli.Context) bool {
	for _, f := range settingsFlags {
		name := strings.TrimSpace(strings.Split(f.GetName(), ",")[0])
		if ctx.IsSet(name) {
			return true
		}
	}
	return false
}

// defaultSettings is the base a fresh configuration is built on.
func defaultSettings() shotlib.Configuration {
	cfg := shotlib.Configuration{
		IntervalMinutes: shotlib.DefaultIntervalMinutes,
	}
	if dir, err := common.DefaultSaveDirectory(); err == nil {
		cfg.SaveDirectory = dir
	}
	return cfg
}

// buildSettings layers the settings file and then the flags over base.
func buildSettings(ctx *cli.Context, base shotlib.Configuration) (shotlib.Configuration, error) {
	cfg := base
	if path := ctx.String("config"); path != "" {
		f, err := os.Open(expandHome(path))
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		if cfg, err = decodeSettings(f, cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if ctx.IsSet("interval") {
		cfg.IntervalMinutes = ctx.Int("interval")
	}
	if ctx.IsSet("dir") {
		cfg.SaveDirectory = ctx.String("dir")
	}
	if ctx.IsSet("from") {
		cfg.AllowedStartTime = ctx.String("from")
	}
	if ctx.IsSet("to") {
		cfg.AllowedEndTime = ctx.String("to")
	}
	if ctx.IsSet("days") {
		cfg.AllowedDays = splitDays(ctx.String("days"))
	}
	if ctx.IsSet("scale") {
		cfg.OutputScalePercent = ctx.Int("scale")
	}
	if ctx.IsSet("quality") {
		cfg.OutputQualityPercent = ctx.Int("quality")
	}
	if cfg.SaveDirectory != "" {
		dir, err := filepath.Abs(expandHome(cfg.SaveDirectory))
		if err != nil {
			return cfg, err
		}
		cfg.SaveDirectory = dir
	}
	return cfg.Normalize(), nil
}

// decodeSettings reads a YAML settings document over base. Unknown keys
// are rejected so that typos do not go unnoticed.
func decodeSettings(r io.Reader, base shotlib.Configuration) (shotlib.Configuration, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return base, err
	}
	cfg := base
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil {
		return base, err
	}
	return cfg, nil
}

// loadSettingsFile reads the YAML file at path over the defaults.
func loadSettingsFile(path string) (shotlib.Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return shotlib.Configuration{}, err
	}
	defer f.Close()
	cfg, err := decodeSettings(f, defaultSettings())
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.SaveDirectory != "" {
		cfg.SaveDirectory = expandHome(cfg.SaveDirectory)
	}
	return cfg.Normalize(), nil
}

func splitDays(s string) []string {
	var days []string
	for _, d := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		days = append(days, d)
	}
	return days
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
