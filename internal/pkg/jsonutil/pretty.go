package jsonutil

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Pretty indents a JSON frame for human-readable dumps. Invalid JSON is returned as is.
func Pretty(raw []byte) string {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return string(raw)
	}
	return string(pretty.Pretty(raw))
}
