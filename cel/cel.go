// Package cel compiles CEL expressions into bind functions for the rete
// engine, so productions can compute derived bindings (or re-check
// consistency) in a real expression language instead of hand-written Go.
// See https://github.com/google/cel-go for the expression language itself.
//
// Each declared parameter becomes a dynamically typed CEL variable carrying
// the value bound to it at match time. Facts resolved from identifiers are
// presented to the expression as maps (see Convert). CEL's numeric results
// arrive as int64/float64; conditions comparing a CEL result against fact
// values should store those widths in the facts as well.
package cel

import (
	celgo "github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"github.com/slott56/rete"
)

// Func compiles expr into a rete.BindFunc over the given parameters. The
// expression is parsed and checked once, here; evaluation failures at match
// time (a missing map key, a type error on particular values) surface as
// the usual silent non-match.
func Func(expr string, params ...rete.Variable) (rete.BindFunc, error) {
	opts := make([]celgo.EnvOption, 0, len(params))
	for _, p := range params {
		opts = append(opts, celgo.Variable(string(p), celgo.DynType))
	}

	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating CEL environment")
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, errors.Wrapf(iss.Err(), "compiling %q", expr)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, "building program for %q", expr)
	}

	return func(args map[rete.Variable]any) (any, error) {
		in := make(map[string]any, len(args))
		for k, v := range args {
			in[string(k)] = Convert(v)
		}
		out, _, err := prg.Eval(in)
		if err != nil {
			return nil, err
		}
		return out.Value(), nil
	}, nil
}

// MustFunc is Func for expressions known good at author time; it panics on
// compilation errors.
func MustFunc(expr string, params ...rete.Variable) rete.BindFunc {
	fn, err := Func(expr, params...)
	if err != nil {
		panic(err)
	}
	return fn
}
