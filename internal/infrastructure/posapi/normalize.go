package posapi

import (
	"bytes"
	"encoding/json"
)

// envelopeKeys are the keys allowed next to "data" in a response wrapper.
var envelopeKeys = map[string]bool{
	"data":       true,
	"success":    true,
	"message":    true,
	"statusCode": true,
	"status":     true,
	"meta":       true,
	"pagination": true,
	"timestamp":  true,
}

// Normalize rewrites a backend payload into the single flattened shape the
// console decodes: response wrappers ({"data": ...}) are removed and every
// entity serialized as {"_props": {...}} is replaced by its properties.
func Normalize(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return raw, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	v = flattenProps(unwrapEnvelope(v))
	return json.Marshal(v)
}

func unwrapEnvelope(v interface{}) interface{} {
	for {
		m, ok := v.(map[string]interface{})
		if !ok {
			return v
		}
		data, has := m["data"]
		if !has {
			return v
		}
		for k := range m {
			if !envelopeKeys[k] {
				return v
			}
		}
		if list, ok := data.([]interface{}); ok {
			if page := pageOf(list, m); page != nil {
				return page
			}
		}
		v = data
	}
}

// pageOf folds the paging block of a list envelope into one object next to
// the items, so {"data": [...], "meta": {"total": 57}} keeps its total.
func pageOf(items []interface{}, envelope map[string]interface{}) map[string]interface{} {
	var paging map[string]interface{}
	for _, key := range []string{"meta", "pagination"} {
		if m, ok := envelope[key].(map[string]interface{}); ok {
			paging = m
			break
		}
	}
	if paging == nil {
		return nil
	}
	page := make(map[string]interface{}, len(paging)+1)
	for k, val := range paging {
		page[k] = val
	}
	page["items"] = items
	return page
}

func flattenProps(v interface{}) interface{} {
	switch t := v.(type) {
	case []interface{}:
		for i := range t {
			t[i] = flattenProps(t[i])
		}
		return t
	case map[string]interface{}:
		if props, ok := t["_props"].(map[string]interface{}); ok {
			out := make(map[string]interface{}, len(props)+2)
			for k, val := range props {
				out[k] = val
			}
			for k, val := range t {
				if k == "_props" {
					continue
				}
				if k == "_id" {
					if _, exists := out["id"]; !exists {
						out["id"] = val
					}
					continue
				}
				if _, exists := out[k]; !exists {
					out[k] = val
				}
			}
			t = out
		}
		for k, val := range t {
			t[k] = flattenProps(val)
		}
		return t
	default:
		return v
	}
}
