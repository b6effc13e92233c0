// Package config decodes the daemon's small CLI/config surface: quiet
// logging, cache opt-out, an optional forced pixel format, and the client
// socket path. Everything else (binding the socket, the Wayland connection)
// is wired directly in cmd/wlwallpaperd; this package only owns decoding
// these four knobs from flags and an optional config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
)

// Config is the daemon's small CLI/config surface.
type Config struct {
	Quiet      bool
	NoCache    bool
	SocketPath string
	// Format, if non-nil, overrides the pixel format negotiated with the
	// compositor at startup.
	Format *common.PixelFormat
}

const defaultsTOML = "quiet = false\nno_cache = false\n"

// DefaultSocketPath returns $XDG_RUNTIME_DIR/wlwallpaperd.sock, falling back
// to /tmp/wlwallpaperd.sock when XDG_RUNTIME_DIR is unset.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "wlwallpaperd.sock")
	}
	return "/tmp/wlwallpaperd.sock"
}

// Load builds a *pflag.FlagSet bound to Config's fields, parses args
// against it, and layers an optional config file on top of the compiled-in
// defaults (flags take precedence). An empty path skips the file layer.
//
// Parameters:
//   - args: the CLI arguments (excluding argv[0])
//   - path: an optional config file path
//
// Returns:
//   - Config: the decoded configuration
//   - error: error if a non-empty path cannot be read or parsed, if the
//     flags do not parse, or if the format names an unknown pixel format
func Load(args []string, path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider([]byte(defaultsTOML)), toml.Parser()); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	fs := pflag.NewFlagSet("wlwallpaperd", pflag.ContinueOnError)
	quiet := fs.Bool("quiet", k.Bool("quiet"), "suppress non-error log output")
	noCache := fs.Bool("no-cache", k.Bool("no_cache"), "disable the on-disk image cache")
	formatFlag := fs.String("format", k.String("format"), "force a pixel format (xrgb, xbgr, rgb, bgr)")
	socketFlag := fs.String("socket", k.String("socket"), "UNIX socket path (defaults to $XDG_RUNTIME_DIR/wlwallpaperd.sock)")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: parse flags: %w", err)
	}

	cfg := Config{Quiet: *quiet, NoCache: *noCache, SocketPath: *socketFlag}
	if cfg.SocketPath == "" {
		cfg.SocketPath = DefaultSocketPath()
	}
	if *formatFlag != "" {
		f, err := parseFormat(*formatFlag)
		if err != nil {
			return Config{}, err
		}
		cfg.Format = &f
	}
	return cfg, nil
}

func parseFormat(s string) (common.PixelFormat, error) {
	switch s {
	case "xrgb", "xrgb8888":
		return common.XRGB8888, nil
	case "xbgr", "xbgr8888":
		return common.XBGR8888, nil
	case "rgb", "rgb888":
		return common.RGB888, nil
	case "bgr", "bgr888":
		return common.BGR888, nil
	default:
		return 0, fmt.Errorf("config: unknown pixel format %q", s)
	}
}
