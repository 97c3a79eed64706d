package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/rangebar/internal/config"
	"github.com/dshills/rangebar/internal/slider"
	"github.com/dshills/rangebar/internal/surface"
	"github.com/dshills/rangebar/internal/transform"
)

type dumpOptions struct {
	width  int
	sets   []string
	drags  []string
	pretty bool
}

func dumpCmd() *cobra.Command {
	var (
		configPath string
		opts       dumpOptions
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the settled bar state as JSON",
		Long: `Dump builds the bar on an in-memory track, applies the --set writes and
--drag gestures in order (all sets first), and prints the resulting state.`,
		Example: `  rangebar dump -c bar.toml --set low=35 --drag high=90`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(doc, os.Stderr)
			if err != nil {
				return err
			}

			out, err := dump(doc, opts, log)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (TOML, YAML or JSON)")
	cmd.Flags().IntVar(&opts.width, "width", 100, "Track length in cells")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Write a handle value, as key=value")
	cmd.Flags().StringArrayVar(&opts.drags, "drag", nil, "Drag a handle to a track offset, as key=offset")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", true, "Indent the JSON output")

	return cmd
}

// dump builds the bar of doc on a memory surface, applies opts and returns
// the JSON state.
func dump(doc *config.Document, opts dumpOptions, log zerolog.Logger) ([]byte, error) {
	if opts.width < 1 {
		return nil, fmt.Errorf("width must be positive, got %d", opts.width)
	}

	exprs, err := doc.CompileTransforms(log)
	if err != nil {
		return nil, err
	}
	defer transform.CloseAll(exprs)

	mem := surface.NewMemory()
	mem.SetLayout(surface.Layout{Cells: opts.width + 1, Vertical: doc.Bar.Vertical})
	mem.RegisterConfig(doc.Bar, 1)

	bar, err := slider.New(doc.Bar, slider.WithSurface(mem), slider.WithLogger(log))
	if err != nil {
		return nil, err
	}
	defer func() { _ = bar.Destroy() }()

	for _, s := range opts.sets {
		id, v, err := parseAssignment(bar, "set", s)
		if err != nil {
			return nil, err
		}
		if err := bar.SetValue(id, v); err != nil {
			return nil, err
		}
	}

	for _, d := range opts.drags {
		id, off, err := parseAssignment(bar, "drag", d)
		if err != nil {
			return nil, err
		}
		if err := simulateDrag(bar, mem, id, off); err != nil {
			return nil, fmt.Errorf("drag %s: %w", bar.HandleKey(id), err)
		}
	}

	st, err := bar.Snapshot()
	if err != nil {
		return nil, err
	}
	js, err := stateJSON(st, opts.width)
	if err != nil {
		return nil, err
	}
	if opts.pretty {
		js = pretty.Pretty(js)
	} else {
		js = append(js, '\n')
	}
	return js, nil
}

// parseAssignment splits "key=number" and resolves the handle key.
func parseAssignment(bar *slider.Bar, flag, s string) (slider.HandleID, float64, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, fmt.Errorf("--%s %q: want key=number", flag, s)
	}
	id, ok := bar.Handle(key)
	if !ok {
		return 0, 0, fmt.Errorf("--%s %q: %w %q", flag, s, slider.ErrUnknownHandle, key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, 0, fmt.Errorf("--%s %q: bad number %q", flag, s, raw)
	}
	return id, v, nil
}

// errNotDraggable is returned when a --drag names a handle the press would
// not pick up.
var errNotDraggable = errors.New("handle cannot be dragged")

// simulateDrag presses on the handle, moves to offset along the track and
// releases there, the way a mouse drag would arrive from a terminal.
func simulateDrag(bar *slider.Bar, mem *surface.Memory, id slider.HandleID, offset float64) error {
	if bar.Disabled() || !bar.CanBeMoved(id) {
		return fmt.Errorf("%w: %q", errNotDraggable, bar.HandleKey(id))
	}

	el := bar.HandleElement(id)
	press, err := mem.Center(el)
	if err != nil {
		return err
	}
	if err := bar.OnGestureStart(press, el); err != nil {
		return err
	}
	// Overlapping handles can win the hit test.
	if got, ok := bar.DraggingHandle(); !ok || got != id {
		if err := bar.OnGestureEnd(press); err != nil {
			return err
		}
		return fmt.Errorf("%w: %q", errNotDraggable, bar.HandleKey(id))
	}

	to := mem.Layout().Point(offset)
	if err := mem.Emit(slider.ListenMove, to); err != nil {
		return err
	}
	return mem.Emit(slider.ListenEnd, to)
}

// stateJSON encodes st with sjson paths so the field order stays stable.
func stateJSON(st slider.State, width int) ([]byte, error) {
	js := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			js, err = sjson.SetBytes(js, path, v)
		}
	}

	set("min", st.Min)
	set("max", st.Max)
	set("width", width)
	set("disabled", st.Disabled)
	set("drag", st.Drag.String())
	set("handles", []any{})
	for i, h := range st.Handles {
		p := fmt.Sprintf("handles.%d.", i)
		set(p+"key", h.Key)
		set(p+"value", h.Value)
		set(p+"min", h.Min)
		set(p+"max", h.Max)
		set(p+"position", h.Position)
		set(p+"offset", h.Offset)
		set(p+"disabled", h.Disabled)
		set(p+"movable", h.Movable)
	}
	set("ranges", []any{})
	for i, r := range st.Ranges {
		p := fmt.Sprintf("ranges.%d.", i)
		set(p+"key", r.Key)
		set(p+"start", r.Start)
		set(p+"stop", r.Stop)
		set(p+"span_start", r.SpanStart)
		set(p+"span_width", r.SpanWidth)
	}
	return js, err
}
