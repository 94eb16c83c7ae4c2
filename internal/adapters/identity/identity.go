// Package identity manages OS accounts: groups and users. Both adapters
// are idempotent; a converged host produces no changes on re-runs.
package identity

import (
	"fmt"

	"github.com/bkocaman/stagehand/internal/core"
)

func init() {
	core.RegisterResource("group", func(name string, params map[string]interface{}, ctx *core.SystemContext) (core.Resource, error) {
		return NewGroupAdapter(name, params), nil
	})
	core.RegisterResource("user", func(name string, params map[string]interface{}, ctx *core.SystemContext) (core.Resource, error) {
		return NewUserAdapter(name, params), nil
	})
}

func stringParam(params map[string]interface{}, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	if v, ok := params[key].(int); ok {
		return fmt.Sprintf("%d", v)
	}
	if v, ok := params[key].(float64); ok {
		return fmt.Sprintf("%d", int(v))
	}
	return ""
}

func boolParam(params map[string]interface{}, key string) bool {
	v, _ := params[key].(bool)
	return v
}

func stringSliceParam(params map[string]interface{}, key string) []string {
	raw, ok := params[key].([]interface{})
	if !ok {
		if s, ok := params[key].(string); ok && s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		out = append(out, fmt.Sprintf("%v", item))
	}
	return out
}

func stateParam(params map[string]interface{}) string {
	state, _ := params["state"].(string)
	if state == "" {
		state = "present"
	}
	return state
}
