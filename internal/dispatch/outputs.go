package dispatch

import (
	"fmt"

	"github.com/wlwallpaperd/wlwallpaperd/internal/wallpaper"
	"github.com/wlwallpaperd/wlwallpaperd/internal/wire"
)

const layerNamespace = "wlwallpaperd"

// entry pairs one output's Wallpaper with the registry global name it was
// bound under, so a later global_remove(name) can find it again.
type entry struct {
	globalName uint32
	w          wallpaper.Wallpaper
}

// onGlobal handles registry.global: only "wl_output" is acted on, every
// other advertised interface is ignored (its singleton, if needed, was
// already bound once during startup in New).
func (d *Dispatcher) onGlobal(name uint32, iface string, version uint32) {
	if iface != "wl_output" {
		return
	}
	if err := d.addOutput(name, version); err != nil {
		d.log.Error().Err(err).Uint32("name", name).Msg("failed to bind output")
	}
}

func (d *Dispatcher) onGlobalRemove(name uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, e := range d.outputs {
		if e.globalName != name {
			continue
		}
		e.w.Destroy()
		d.outputs = append(d.outputs[:i], d.outputs[i+1:]...)
		d.log.Info().Uint32("name", name).Msg("output removed")
		return
	}
}

func (d *Dispatcher) addOutput(name, version uint32) error {
	output, err := d.registry.BindOutput(name, version)
	if err != nil {
		return fmt.Errorf("bind wl_output: %w", err)
	}
	surface, err := d.compositor.CreateSurface()
	if err != nil {
		return fmt.Errorf("create wl_surface: %w", err)
	}
	layerSurface, err := d.layerShell.GetLayerSurface(surface, output, wire.LayerBackground, layerNamespace)
	if err != nil {
		return fmt.Errorf("get layer surface: %w", err)
	}

	opts := []wallpaper.Option{
		wallpaper.WithLogger(d.log),
		wallpaper.WithLayerSurface(layerSurface),
		wallpaper.WithFormatSource(d.formatSource),
	}
	if d.cache != nil {
		opts = append(opts, wallpaper.WithImageCache(d.cache))
	}
	if d.viewporter != nil {
		if vp, err := d.viewporter.GetViewport(surface); err == nil {
			opts = append(opts, wallpaper.WithViewport(vp))
		} else {
			d.log.Debug().Err(err).Msg("no viewport for output")
		}
	}
	var fracScale wire.FractionalScale
	if d.fracMgr != nil {
		if fs, err := d.fracMgr.GetFractionalScale(surface); err == nil {
			fracScale = fs
			opts = append(opts, wallpaper.WithFractionalScale(fs))
		} else {
			d.log.Debug().Err(err).Msg("no fractional scale for output")
		}
	}

	w := wallpaper.New(output, surface, d.shm, opts...)
	if fracScale != nil {
		fracScale.SetPreferredScale(w.SetFractionalScale)
	}

	output.SetHandlers(wire.OutputHandlers{
		Geometry:    w.SetTransform,
		Mode:        w.SetMode,
		Scale:       w.SetScale,
		Name:        w.SetName,
		Description: func(string) {},
		Done:        func() {},
	})

	surface.SetHandlers(
		func(wire.Output) {},
		func(wire.Output) {},
		w.SetScale,
		w.SetTransform,
	)

	layerSurface.SetHandlers(func(serial uint32, width, height uint32) {
		d.onLayerConfigure(w, layerSurface, serial)
	}, func() {
		d.onLayerClosed(w)
	})

	if err := layerSurface.SetAnchor(anchorFill); err != nil {
		return fmt.Errorf("set anchor: %w", err)
	}
	if err := layerSurface.SetExclusiveZone(-1); err != nil {
		return fmt.Errorf("set exclusive zone: %w", err)
	}
	if err := surface.Commit(); err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	d.mu.Lock()
	d.outputs = append(d.outputs, entry{globalName: name, w: w})
	d.mu.Unlock()

	d.log.Info().Uint32("name", name).Msg("output added")
	return nil
}

// anchorFill mirrors zwlr_layer_surface_v1's top|bottom|left|right anchor
// bitmask, pinning the surface to every edge so it fills the output.
const anchorFill = 1 | 2 | 4 | 8

func (d *Dispatcher) onLayerConfigure(w wallpaper.Wallpaper, ls wire.LayerSurface, serial uint32) {
	if err := ls.AckConfigure(serial); err != nil {
		d.log.Error().Err(err).Msg("ack_configure failed")
		return
	}
	invalidated, err := w.CommitSurfaceChanges(!d.noCache)
	if err != nil {
		d.log.Error().Err(err).Msg("commit_surface_changes failed")
		return
	}
	if invalidated {
		d.log.Debug().Msg("buffer reallocated, any in-flight animation is now stale")
	}
	if err := w.CommitFrame(); err != nil {
		d.log.Error().Err(err).Msg("initial commit_frame failed")
		return
	}
	if err := w.RequestFrameCallback(); err != nil {
		d.log.Error().Err(err).Msg("request frame callback failed")
	}
}

func (d *Dispatcher) onLayerClosed(w wallpaper.Wallpaper) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, e := range d.outputs {
		if e.w == w {
			w.Destroy()
			d.outputs = append(d.outputs[:i], d.outputs[i+1:]...)
			return
		}
	}
}

// wallpapersByNames returns every tracked wallpaper whose output name is in
// names, or every tracked wallpaper if names is empty.
func (d *Dispatcher) wallpapersByNames(names []string) []wallpaper.Wallpaper {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(names) == 0 {
		out := make([]wallpaper.Wallpaper, len(d.outputs))
		for i, e := range d.outputs {
			out[i] = e.w
		}
		return out
	}

	var out []wallpaper.Wallpaper
	for _, e := range d.outputs {
		for _, n := range names {
			if e.w.HasName(n) {
				out = append(out, e.w)
				break
			}
		}
	}
	return out
}
