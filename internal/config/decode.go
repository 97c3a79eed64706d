package config

import (
	"fmt"
	"slices"

	"github.com/dshills/rangebar/internal/slider"
)

// Decode converts a merged configuration map into a Document.
func Decode(raw map[string]any) (*Document, error) {
	doc := &Document{Bar: slider.DefaultConfig()}
	bar := &doc.Bar
	bar.Element = TrackElement

	for key, val := range raw {
		var err error
		switch key {
		case "min":
			bar.Min, err = number(key, val)
		case "max":
			bar.Max, err = number(key, val)
		case "step":
			bar.Step, err = number(key, val)
		case "keydown_step":
			bar.KeydownStep, err = number(key, val)
		case "disabled":
			bar.Disabled, err = boolean(key, val)
		case "vertical":
			bar.Vertical, err = boolean(key, val)
		case "handles":
			err = decodeHandles(doc, val)
		case "ranges":
			err = decodeRanges(doc, val)
		case "theme":
			err = decodeTheme(&doc.Theme, val)
		case "log":
			err = decodeLog(&doc.Log, val)
		default:
			err = fieldErr(key, ErrUnknownKey)
		}
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// entry is one element of a handles or ranges section.
type entry struct {
	path   string
	key    string
	fields map[string]any
}

// entries normalizes a section given either as keyed tables, ordered by
// key, or as an array of tables.
func entries(section string, val any) ([]entry, error) {
	switch v := val.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		out := make([]entry, 0, len(keys))
		for _, k := range keys {
			path := section + "." + k
			fields, ok := v[k].(map[string]any)
			if !ok {
				return nil, typeErr(path, "table", v[k])
			}
			out = append(out, entry{path: path, key: k, fields: fields})
		}
		return out, nil

	case []any:
		out := make([]entry, 0, len(v))
		for i, item := range v {
			path := fmt.Sprintf("%s[%d]", section, i)
			fields, ok := item.(map[string]any)
			if !ok {
				return nil, typeErr(path, "table", item)
			}
			e := entry{path: path, fields: fields}
			if k, ok := fields["key"]; ok {
				s, ok := k.(string)
				if !ok {
					return nil, typeErr(path+".key", "string", k)
				}
				e.key = s
			}
			out = append(out, e)
		}
		return out, nil

	default:
		return nil, typeErr(section, "table or array", val)
	}
}

func decodeHandles(doc *Document, val any) error {
	list, err := entries("handles", val)
	if err != nil {
		return err
	}

	doc.Bar.Handles = make([]slider.HandleConfig, len(list))
	doc.Transforms = make([]string, len(list))
	for i, e := range list {
		hc := slider.HandleConfig{Key: e.key, Element: HandleElement(i)}
		for name, fv := range e.fields {
			path := e.path + "." + name
			switch name {
			case "key":
			case "value":
				hc.Value, err = number(path, fv)
			case "min":
				hc.Min, err = optionalNumber(path, fv)
			case "max":
				hc.Max, err = optionalNumber(path, fv)
			case "step":
				hc.Step, err = number(path, fv)
			case "disabled":
				hc.Disabled, err = boolean(path, fv)
			case "transform":
				doc.Transforms[i], err = str(path, fv)
			default:
				err = fieldErr(path, ErrUnknownKey)
			}
			if err != nil {
				return err
			}
		}
		doc.Bar.Handles[i] = hc
	}
	return nil
}

func decodeRanges(doc *Document, val any) error {
	list, err := entries("ranges", val)
	if err != nil {
		return err
	}

	doc.Bar.Ranges = make([]slider.RangeConfig, len(list))
	for i, e := range list {
		rc := slider.RangeConfig{Key: e.key, Element: RangeElement(i)}
		for name, fv := range e.fields {
			path := e.path + "." + name
			switch name {
			case "key":
			case "start":
				rc.Start, err = endpoint(path, fv)
			case "stop":
				rc.Stop, err = endpoint(path, fv)
			case "min":
				rc.Min, err = optionalNumber(path, fv)
			case "max":
				rc.Max, err = optionalNumber(path, fv)
			case "pull":
				rc.Pull, err = boolean(path, fv)
			default:
				err = fieldErr(path, ErrUnknownKey)
			}
			if err != nil {
				return err
			}
		}
		doc.Bar.Ranges[i] = rc
	}
	return nil
}

// endpoint decodes a range side: a handle key, a fixed number, or a table
// with either handle (key or index) or value.
func endpoint(path string, val any) (slider.Endpoint, error) {
	switch v := val.(type) {
	case nil:
		return slider.Unbounded(), nil
	case string:
		return slider.HandleKey(v), nil
	case map[string]any:
		if h, ok := v["handle"]; ok {
			if key, ok := h.(string); ok {
				return slider.HandleKey(key), nil
			}
			idx, err := integer(path+".handle", h)
			if err != nil {
				return slider.Endpoint{}, err
			}
			return slider.HandleAt(idx), nil
		}
		if fv, ok := v["value"]; ok {
			f, err := number(path+".value", fv)
			if err != nil {
				return slider.Endpoint{}, err
			}
			return slider.Fixed(f), nil
		}
		return slider.Endpoint{}, fieldErr(path, fmt.Errorf("%w: endpoint table needs handle or value", ErrTypeMismatch))
	default:
		f, err := number(path, val)
		if err != nil {
			return slider.Endpoint{}, typeErr(path, "handle key, number or table", val)
		}
		return slider.Fixed(f), nil
	}
}

func decodeTheme(t *Theme, val any) error {
	m, ok := val.(map[string]any)
	if !ok {
		return typeErr("theme", "table", val)
	}
	for name, fv := range m {
		path := "theme." + name
		var err error
		switch name {
		case "track":
			t.Track, err = str(path, fv)
		case "range":
			t.Range, err = str(path, fv)
		case "handle":
			t.Handle, err = str(path, fv)
		case "focus":
			t.Focus, err = str(path, fv)
		case "disabled":
			t.Disabled, err = str(path, fv)
		case "handle_glyph":
			t.HandleGlyph, err = str(path, fv)
		default:
			err = fieldErr(path, ErrUnknownKey)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeLog(l *LogSettings, val any) error {
	m, ok := val.(map[string]any)
	if !ok {
		return typeErr("log", "table", val)
	}
	for name, fv := range m {
		path := "log." + name
		var err error
		switch name {
		case "level":
			l.Level, err = str(path, fv)
		case "format":
			l.Format, err = str(path, fv)
		default:
			err = fieldErr(path, ErrUnknownKey)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// number accepts every numeric type the TOML, YAML and JSON decoders
// produce.
func number(path string, val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, typeErr(path, "number", val)
	}
}

func optionalNumber(path string, val any) (*float64, error) {
	if val == nil {
		return nil, nil
	}
	f, err := number(path, val)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func integer(path string, val any) (int, error) {
	f, err := number(path, val)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, typeErr(path, "integer", val)
	}
	return int(f), nil
}

func boolean(path string, val any) (bool, error) {
	b, ok := val.(bool)
	if !ok {
		return false, typeErr(path, "bool", val)
	}
	return b, nil
}

func str(path string, val any) (string, error) {
	s, ok := val.(string)
	if !ok {
		return "", typeErr(path, "string", val)
	}
	return s, nil
}
