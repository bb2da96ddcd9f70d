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

package wikiexpand

import (
	"strconv"
	"strings"
)

// splitByPipe splits src[start:end] at every top level '|'. Pipes inside
// [[...]], {{...}} and {{{...}}} do not split. Each field has its trailing
// newline whitespace removed. A range ending in '|' yields a final empty
// field, so no argument is ever dropped.
func splitByPipe(src string, start, end int) []string {
	var fields []string
	last := start
	pos := start
	for pos < end {
		pos++
		switch src[pos-1] {
		case '[', '{':
			pos = skipNested(src, pos)
		case '|':
			fields = append(fields, trimNewlineRight(src[last:pos-1]))
			last = pos
		}
	}
	if pos > end {
		pos = end
	}
	if last > pos {
		last = pos
	}
	return append(fields, trimNewlineRight(src[last:pos]))
}

// trimNewlineRight removes the trailing whitespace of s, but only when that
// whitespace contains a line break. "a \n" becomes "a" while "a " is kept.
func trimNewlineRight(s string) string {
	i := len(s)
	newline := false
	for i > 0 {
		switch s[i-1] {
		case '\n', '\r':
			newline = true
		case ' ', '\t', '\f', '\v':
		default:
			if newline {
				return s[:i]
			}
			return s
		}
		i--
	}
	if newline {
		return ""
	}
	return s
}

// argumentEquals returns the offset of the first top level '=' in field, or
// -1. Signs inside links and nested calls are ignored.
func argumentEquals(field string) int {
	pos := 0
	for pos < len(field) {
		pos++
		switch field[pos-1] {
		case '[', '{':
			pos = skipNested(field, pos)
		case '=':
			return pos - 1
		}
	}
	return -1
}

// addArgument stores one template argument into params. Named arguments use
// the trimmed text before the first top level '='; others are numbered by
// index. Values are trimmed on both sides except for the last argument, which
// only loses trailing line breaks.
func addArgument(params map[string]string, index int, field string, last bool) {
	key := strconv.Itoa(index)
	value := field
	if eq := argumentEquals(field); eq >= 0 {
		key = strings.TrimSpace(field[:eq])
		value = field[eq+1:]
	}
	if last {
		value = trimNewlineRight(value)
	} else {
		value = strings.TrimSpace(value)
	}
	params[key] = value
}

// argumentMap builds the parameter map for the arguments following the
// template name. args[0] is argument 1.
func argumentMap(args []string) map[string]string {
	params := make(map[string]string, len(args))
	for i, a := range args {
		addArgument(params, i+1, a, i == len(args)-1)
	}
	return params
}
