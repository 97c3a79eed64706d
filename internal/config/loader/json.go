package loader

import (
	"errors"

	"github.com/tidwall/gjson"
)

var errNotObject = errors.New("top level must be an object")

func parseJSON(source string, data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Format: FormatJSON, Message: "invalid JSON"}
	}

	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, &ParseError{Path: source, Format: FormatJSON, Message: errNotObject.Error(), Err: errNotObject}
	}

	config, _ := res.Value().(map[string]any)
	return config, nil
}
