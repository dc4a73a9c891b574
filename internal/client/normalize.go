package client

import (
	"encoding/json"
	"strconv"
	"strings"
)

// listEnvelope accepts the response shapes the webhooks have been seen to
// use for list payloads: a bare array, or an object wrapping the array under
// "items", "updated", "json", "data" or "rows".
type listEnvelope struct {
	list json.RawMessage
}

func (e *listEnvelope) UnmarshalJSON(raw []byte) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		e.list = json.RawMessage(raw)
		return nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return err
	}
	for _, key := range []string{"items", "updated", "json", "data", "rows"} {
		if inner, ok := wrapper[key]; ok && strings.HasPrefix(strings.TrimSpace(string(inner)), "[") {
			e.list = inner
			return nil
		}
	}
	return nil
}

// Decode unmarshals the extracted list into out. An absent list is an empty
// list, not an error.
func (e *listEnvelope) Decode(out any) error {
	if e.list == nil {
		return nil
	}
	return json.Unmarshal(e.list, out)
}

// flexString tolerates a field arriving as a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(raw []byte) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" || trimmed == "" {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexMoney tolerates an amount arriving as a JSON number (possibly with a
// fractional part, truncated) or a numeric string.
type flexMoney int64

func (f *flexMoney) UnmarshalJSON(raw []byte) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" || trimmed == "" {
		*f = 0
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		trimmed = strings.TrimSpace(s)
		if trimmed == "" {
			*f = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return err
	}
	*f = flexMoney(int64(v))
	return nil
}
