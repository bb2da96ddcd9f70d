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

package parserfuncs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/m-m-f/wikiexpand"
)

var (
	exprMod = regexp.MustCompile(`(?i)\bmod\b`)
	exprDiv = regexp.MustCompile(`(?i)\bdiv\b`)
	exprNot = regexp.MustCompile(`(?i)\bnot\b`)
	exprAnd = regexp.MustCompile(`(?i)\band\b`)
	exprOr  = regexp.MustCompile(`(?i)\bor\b`)
)

// Expr implements {{#expr: ...}}. MediaWiki operators are rewritten to the
// expression language; comparisons yield 1 or 0.
func Expr(call *wikiexpand.FunctionCall) (string, bool) {
	src := call.Arg(0)
	if src == "" {
		return "", true
	}
	v, err := evalExpr(src)
	if err != nil {
		return `<strong class="error">Expression error: ` + err.Error() + `</strong>`, true
	}
	return v, true
}

func evalExpr(src string) (string, error) {
	src = exprMod.ReplaceAllString(src, "%")
	src = exprDiv.ReplaceAllString(src, "/")
	src = exprNot.ReplaceAllString(src, "!")
	src = exprAnd.ReplaceAllString(src, "&&")
	src = exprOr.ReplaceAllString(src, "||")
	src = strings.ReplaceAll(src, "<>", "!=")
	src = doubleEquals(src)

	out, err := expr.Eval(src, map[string]any{})
	if err != nil {
		return "", fmt.Errorf("invalid expression %q", strings.TrimSpace(src))
	}
	switch v := out.(type) {
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return "", fmt.Errorf("division by zero")
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return fmt.Sprint(out), nil
}

// doubleEquals turns MediaWiki's '=' comparison into '=='.
func doubleEquals(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		b.WriteByte(c)
		switch {
		case c != '=':
		case i+1 < len(s) && s[i+1] == '=':
			b.WriteByte('=')
			i++
		case i > 0 && strings.IndexByte("!<>", s[i-1]) >= 0:
		default:
			b.WriteByte('=')
		}
	}
	return b.String()
}
