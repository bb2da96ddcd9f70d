/*
Copyright (C) IBM Corporation 2015, Michele Franceschini <franceschini@us.ibm.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package parserfuncs implements common MediaWiki parser functions for
// wikiexpand.
package parserfuncs

import (
	"strconv"
	"strings"

	"github.com/m-m-f/wikiexpand"
)

// Default returns the built-in functions keyed by name.
func Default() map[string]wikiexpand.ParserFunc {
	return map[string]wikiexpand.ParserFunc{
		"#switch":      Switch,
		"#if":          If,
		"#ifeq":        IfEq,
		"#expr":        Expr,
		"uc":           UC,
		"lc":           LC,
		"ucfirst":      UCFirst,
		"lcfirst":      LCFirst,
		"urlencode":    URLEncode,
		"anchorencode": AnchorEncode,
		"localurl":     LocalURL,
	}
}

// Register adds the built-in functions to m.
func Register(m *wikiexpand.PageModel) {
	for name, f := range Default() {
		m.Register(name, f)
	}
}

// Switch implements {{#switch: value | case = result | ... | default}}.
// Cases without '=' fall through to the next result. A trailing argument
// without '=' and "#default = ..." give the default.
func Switch(call *wikiexpand.FunctionCall) (string, bool) {
	if len(call.Args) < 2 {
		return "", false
	}
	value := call.Arg(0)
	var (
		found         bool
		hasDefault    bool
		defaultResult string
	)
	last := len(call.Args) - 1
	for i := 1; i <= last; i++ {
		arg := call.Expand(call.Args[i])
		eq := strings.IndexByte(arg, '=')
		if eq < 0 {
			if i == last {
				return strings.TrimSpace(arg), true
			}
			if !found && equals(value, strings.TrimSpace(arg)) {
				found = true
			}
			continue
		}
		result := strings.TrimSpace(arg[eq+1:])
		if found {
			return result, true
		}
		lhs := strings.TrimSpace(arg[:eq])
		if lhs == "#default" {
			defaultResult, hasDefault = result, true
			continue
		}
		if equals(value, lhs) {
			return result, true
		}
	}
	return defaultResult, hasDefault
}

// If implements {{#if: test | then | else}}. The test holds when it is not
// blank.
func If(call *wikiexpand.FunctionCall) (string, bool) {
	if call.Arg(0) != "" {
		return call.Arg(1), true
	}
	return call.Arg(2), true
}

// IfEq implements {{#ifeq: a | b | then | else}}.
func IfEq(call *wikiexpand.FunctionCall) (string, bool) {
	if equals(call.Arg(0), call.Arg(1)) {
		return call.Arg(2), true
	}
	return call.Arg(3), true
}

// equals compares numerically when both sides are numbers and as strings
// otherwise.
func equals(a, b string) bool {
	x, errx := number(a)
	y, erry := number(b)
	if errx == nil && erry == nil {
		return x == y
	}
	return a == b
}

// number parses a plain decimal number. The words and hex forms ParseFloat
// also takes ("inf", "NaN", "0x1p3") are not numbers here.
func number(s string) (float64, error) {
	s = strings.TrimPrefix(s, "+")
	if s == "" || strings.Trim(s, "0123456789.eE+-") != "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(s, 64)
}
