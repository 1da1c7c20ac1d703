package expr

import (
	"fmt"
	"os"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// EnvFunc reads an environment variable, with an optional fallback for
// when it is unset.
var EnvFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	VarParam: &function.Parameter{Name: "default", Type: cty.String},
	Type:     function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		name := args[0].AsString()
		if value, ok := os.LookupEnv(name); ok {
			return cty.StringVal(value), nil
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return cty.NilVal, fmt.Errorf("environment variable %q is not set and no default was given", name)
	},
})

// CwdFunc returns the process working directory.
var CwdFunc = function.New(&function.Spec{
	Params: []function.Parameter{},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		dir, err := os.Getwd()
		if err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(dir), nil
	},
})

// registerBuiltins loads the default function set: arithmetic and string
// helpers, collection utilities, formatting, encoding and the process
// environment helpers.
func registerBuiltins(r *Registry) {
	builtins := map[string]function.Function{
		"abs":      stdlib.AbsoluteFunc,
		"ceil":     stdlib.CeilFunc,
		"floor":    stdlib.FloorFunc,
		"log":      stdlib.LogFunc,
		"pow":      stdlib.PowFunc,
		"signum":   stdlib.SignumFunc,
		"parseint": stdlib.ParseIntFunc,
		"int":      stdlib.IntFunc,
		"max":      stdlib.MaxFunc,
		"min":      stdlib.MinFunc,

		"upper":      stdlib.UpperFunc,
		"lower":      stdlib.LowerFunc,
		"strlen":     stdlib.StrlenFunc,
		"substr":     stdlib.SubstrFunc,
		"title":      stdlib.TitleFunc,
		"chomp":      stdlib.ChompFunc,
		"indent":     stdlib.IndentFunc,
		"trim":       stdlib.TrimFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"trimprefix": stdlib.TrimPrefixFunc,
		"trimsuffix": stdlib.TrimSuffixFunc,
		"replace":    stdlib.ReplaceFunc,
		"join":       stdlib.JoinFunc,
		"split":      stdlib.SplitFunc,
		"sort":       stdlib.SortFunc,
		"regex":      stdlib.RegexFunc,
		"regexall":   stdlib.RegexAllFunc,

		"length":    stdlib.LengthFunc,
		"element":   stdlib.ElementFunc,
		"concat":    stdlib.ConcatFunc,
		"contains":  stdlib.ContainsFunc,
		"distinct":  stdlib.DistinctFunc,
		"flatten":   stdlib.FlattenFunc,
		"keys":      stdlib.KeysFunc,
		"values":    stdlib.ValuesFunc,
		"lookup":    stdlib.LookupFunc,
		"merge":     stdlib.MergeFunc,
		"range":     stdlib.RangeFunc,
		"slice":     stdlib.SliceFunc,
		"zipmap":    stdlib.ZipmapFunc,
		"compact":   stdlib.CompactFunc,
		"coalesce":  stdlib.CoalesceFunc,
		"reverse":   stdlib.ReverseListFunc,
		"chunklist": stdlib.ChunklistFunc,

		"format":     stdlib.FormatFunc,
		"formatlist": stdlib.FormatListFunc,
		"formatdate": stdlib.FormatDateFunc,
		"timeadd":    stdlib.TimeAddFunc,

		"jsonencode": stdlib.JSONEncodeFunc,
		"jsondecode": stdlib.JSONDecodeFunc,
		"csvdecode":  stdlib.CSVDecodeFunc,

		"tostring": stdlib.MakeToFunc(cty.String),
		"tonumber": stdlib.MakeToFunc(cty.Number),
		"tobool":   stdlib.MakeToFunc(cty.Bool),

		"env": EnvFunc,
		"cwd": CwdFunc,
	}

	for name, fn := range builtins {
		r.Register(name, fn)
	}
}
