package ethsgw

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tunnckoCore/ethsgw/schema"
)

// Project applies the only= and without= field lists to env.Data. only wins
// when both are given; scalars are left alone.
func Project(params url.Values, env *schema.Envelope) error {
	only := splitList(params.Get("only"))
	without := splitList(params.Get("without"))
	if len(only) == 0 && len(without) == 0 {
		return nil
	}
	if len(only) > 0 {
		without = nil
	}

	by, err := json.Marshal(env.Data)
	if err != nil {
		return err
	}
	data := gjson.ParseBytes(by)
	switch {
	case data.IsArray():
		list := make([]json.RawMessage, 0)
		for _, it := range data.Array() {
			list = append(list, projectObject(it, only, without))
		}
		env.Data = list
	case data.IsObject():
		env.Data = projectObject(data, only, without)
	}
	return nil
}

func projectObject(obj gjson.Result, only, without []string) json.RawMessage {
	if !obj.IsObject() {
		return json.RawMessage(obj.Raw)
	}
	fields := make(map[string]json.RawMessage)
	obj.ForEach(func(k, v gjson.Result) bool {
		fields[k.String()] = json.RawMessage(v.Raw)
		return true
	})

	out := make(map[string]json.RawMessage)
	if len(only) > 0 {
		for _, k := range only {
			if v, ok := fields[k]; ok {
				out[k] = v
			}
		}
	} else {
		for k, v := range fields {
			if !contains(without, k) {
				out[k] = v
			}
		}
	}
	by, _ := json.Marshal(out)
	return by
}

func splitList(s string) []string {
	res := make([]string, 0)
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
