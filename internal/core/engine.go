package core

import (
	"fmt"

	"github.com/google/uuid"
)

// RunRecorder persists the outcome of a run. It keeps the engine
// independent of the state package.
type RunRecorder interface {
	Record(runID string, status string, changes []ChangeRecord) error
}

// ChangeRecord describes a single applied change within a run.
type ChangeRecord struct {
	Type   string
	Name   string
	Action string
	Target string
	Diff   string
}

// Hooks defines lifecycle hooks for a task execution.
type Hooks struct {
	Pre      string `yaml:"pre"`
	Post     string `yaml:"post"`
	OnChange string `yaml:"on_change"`
	OnFail   string `yaml:"on_fail"`
}

// TaskItem is the raw task definition the engine processes.
type TaskItem struct {
	Name   string
	Type   string
	State  string
	When   string
	Params map[string]interface{}
	Hooks  Hooks
}

// ResourceCreator builds a Resource from a task definition.
type ResourceCreator func(resType, name string, params map[string]interface{}, ctx *SystemContext) (Resource, error)

// Engine executes tasks strictly sequentially. Each task either converges
// (idempotent, safe to re-run) or fails, and a failure aborts the rest of
// the sequence. There is no retry and no rollback.
type Engine struct {
	Context  *SystemContext
	Recorder RunRecorder
}

// NewEngine creates a new engine instance.
func NewEngine(ctx *SystemContext, recorder RunRecorder) *Engine {
	return &Engine{
		Context:  ctx,
		Recorder: recorder,
	}
}

// Run processes the given task list in order. It returns the number of
// tasks that changed the system and the first error encountered, if any.
func (e *Engine) Run(items []TaskItem, createFn ResourceCreator) (int, error) {
	runID := uuid.New().String()
	e.Context.TxID = runID

	changed := 0
	var changes []ChangeRecord

	for _, item := range items {
		if item.Params == nil {
			item.Params = make(map[string]interface{})
		}
		item.Params["state"] = item.State

		// Condition gate: a false `when` skips the task entirely.
		if item.When != "" {
			shouldRun, err := EvaluateCondition(item.When, e.Context)
			if err != nil {
				return changed, e.abort(runID, changes, item, err)
			}
			if !shouldRun {
				e.Context.Logger.Debug(fmt.Sprintf("[%s] Skipped (condition not met)", item.Name))
				continue
			}
		}

		if err := renderParams(item.Params, e.Context); err != nil {
			return changed, e.abort(runID, changes, item, fmt.Errorf("template: %w", err))
		}

		res, err := createFn(item.Type, item.Name, item.Params, e.Context)
		if err != nil {
			return changed, e.abort(runID, changes, item, err)
		}

		if err := res.Validate(e.Context); err != nil {
			return changed, e.abort(runID, changes, item, fmt.Errorf("validation: %w", err))
		}

		if item.Hooks.Pre != "" {
			if err := e.executeHook(item.Hooks.Pre); err != nil {
				return changed, e.abort(runID, changes, item, fmt.Errorf("pre-hook: %w", err))
			}
		}

		result, applyErr := res.Apply(e.Context)

		// Post hook runs whenever Apply was attempted; a failing post hook
		// is a warning, not a task failure.
		if item.Hooks.Post != "" {
			if hookErr := e.executeHook(item.Hooks.Post); hookErr != nil {
				e.Context.Logger.Warn(fmt.Sprintf("[%s] Post-hook failed: %v", item.Name, hookErr))
			}
		}

		if applyErr != nil {
			if item.Hooks.OnFail != "" {
				if hookErr := e.executeHook(item.Hooks.OnFail); hookErr != nil {
					e.Context.Logger.Warn(fmt.Sprintf("[%s] On-fail hook failed: %v", item.Name, hookErr))
				}
			}
			return changed, e.abort(runID, changes, item, applyErr)
		}

		if result.Changed {
			changed++
			e.Context.Logger.Info(fmt.Sprintf("[%s] %s", item.Name, result.Message))

			if item.Hooks.OnChange != "" {
				if hookErr := e.executeHook(item.Hooks.OnChange); hookErr != nil {
					e.Context.Logger.Warn(fmt.Sprintf("[%s] On-change hook failed: %v", item.Name, hookErr))
				}
			}

			changes = append(changes, changeFor(item))
		} else {
			msg := "OK"
			if result.Message != "" {
				msg = result.Message
			}
			e.Context.Logger.Debug(fmt.Sprintf("[%s] %s: %s", item.Type, item.Name, msg))
		}
	}

	e.record(runID, "success", changes)
	return changed, nil
}

// abort logs the failure, records the partial run and returns an error that
// names the failed task.
func (e *Engine) abort(runID string, changes []ChangeRecord, item TaskItem, err error) error {
	e.Context.Logger.Error(fmt.Sprintf("[%s] Failed: %v", item.Name, err))
	e.record(runID, "failed", changes)
	return fmt.Errorf("task %q: %w", item.Name, err)
}

func (e *Engine) record(runID, status string, changes []ChangeRecord) {
	if e.Context.DryRun || e.Recorder == nil {
		return
	}
	if err := e.Recorder.Record(runID, status, changes); err != nil {
		e.Context.Logger.Warn(fmt.Sprintf("Failed to save run history: %v", err))
	}
}

func changeFor(item TaskItem) ChangeRecord {
	change := ChangeRecord{
		Type:   item.Type,
		Name:   item.Name,
		Action: "applied",
	}
	if p, ok := item.Params["path"].(string); ok {
		change.Target = p
	} else {
		change.Target = item.Name
	}
	return change
}

// PlanResult represents the outcome of a Plan operation.
type PlanResult struct {
	Changes []PlanChange
}

// PlanChange represents a single proposed change.
type PlanChange struct {
	Type   string
	Name   string
	Action string // "apply" or "noop"
	Diff   string
}

// Plan generates a preview of changes without applying anything.
func (e *Engine) Plan(items []TaskItem, createFn ResourceCreator) (*PlanResult, error) {
	result := &PlanResult{Changes: []PlanChange{}}

	for _, item := range items {
		if item.Params == nil {
			item.Params = make(map[string]interface{})
		}
		item.Params["state"] = item.State

		if item.When != "" {
			shouldRun, err := EvaluateCondition(item.When, e.Context)
			if err != nil {
				return nil, fmt.Errorf("task %q: condition: %w", item.Name, err)
			}
			if !shouldRun {
				continue
			}
		}

		if err := renderParams(item.Params, e.Context); err != nil {
			return nil, fmt.Errorf("task %q: template: %w", item.Name, err)
		}

		res, err := createFn(item.Type, item.Name, item.Params, e.Context)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", item.Name, err)
		}

		if err := res.Validate(e.Context); err != nil {
			return nil, fmt.Errorf("task %q: validation: %w", item.Name, err)
		}

		needsAction, err := res.Check(e.Context)
		if err != nil {
			return nil, fmt.Errorf("task %q: check: %w", item.Name, err)
		}
		if !needsAction {
			continue
		}

		var diff string
		if differ, ok := res.(Differ); ok {
			if d, err := differ.Diff(e.Context); err == nil {
				diff = d
			}
		}

		result.Changes = append(result.Changes, PlanChange{
			Type:   item.Type,
			Name:   item.Name,
			Action: "apply",
			Diff:   diff,
		})
	}

	return result, nil
}

// executeHook runs a shell command through the context's transport.
func (e *Engine) executeHook(cmd string) error {
	if e.Context.DryRun {
		e.Context.Logger.Info(fmt.Sprintf("[DryRun] Would execute hook: %s", cmd))
		return nil
	}
	out, err := e.Context.Transport.Execute(e.Context.Context, cmd)
	if err != nil {
		return fmt.Errorf("command %q failed: %w, output: %s", cmd, err, out)
	}
	return nil
}

// renderParams traverses the map and renders any string values as templates.
func renderParams(params map[string]interface{}, ctx *SystemContext) error {
	for k, v := range params {
		switch val := v.(type) {
		case string:
			rendered, err := ExecuteTemplate(val, ctx)
			if err != nil {
				return fmt.Errorf("param %q: %w", k, err)
			}
			params[k] = rendered
		case map[string]interface{}:
			if err := renderParams(val, ctx); err != nil {
				return err
			}
		case []interface{}:
			for i, item := range val {
				if str, ok := item.(string); ok {
					rendered, err := ExecuteTemplate(str, ctx)
					if err != nil {
						return fmt.Errorf("param %q index %d: %w", k, i, err)
					}
					val[i] = rendered
				} else if subMap, ok := item.(map[string]interface{}); ok {
					if err := renderParams(subMap, ctx); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
