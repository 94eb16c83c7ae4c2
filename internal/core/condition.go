package core

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// EvaluateCondition evaluates a task's `when:` expression against the
// system context. The expression must yield a boolean.
func EvaluateCondition(expression string, ctx *SystemContext) (bool, error) {
	env := conditionEnv(ctx)

	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("invalid condition %q: %w", expression, err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("condition %q: %w", expression, err)
	}

	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not return a boolean", expression)
	}
	return result, nil
}

func conditionEnv(ctx *SystemContext) map[string]interface{} {
	vars := ctx.Vars
	if vars == nil {
		vars = map[string]string{}
	}
	return map[string]interface{}{
		"os":       ctx.OS,
		"distro":   ctx.Distro,
		"version":  ctx.Version,
		"hostname": ctx.Hostname,
		"user":     ctx.User,
		"dry_run":  ctx.DryRun,
		"vars":     vars,
	}
}
