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
	"strings"

	"go.uber.org/zap"
)

// SubstituteParameters replaces every {{{name|default}}} reference in text
// with its value from params, falling back to the default. References that
// resolve to nothing stay as they are.
func (e *Expander) SubstituteParameters(text string, params map[string]string) string {
	if e.rc == nil {
		e.rc = &RecursionContext{}
		defer func() { e.rc = nil }()
	}
	if out, ok := e.substituteParameters(text, params); ok {
		return out
	}
	return text
}

// substituteParameters reports false when no reference was replaced.
func (e *Expander) substituteParameters(text string, params map[string]string) (string, bool) {
	depth := e.rc.IncrementDepth()
	defer e.rc.DecrementDepth()
	if depth > e.limits.ParserRecursion {
		return "", false
	}
	var (
		buf  *strings.Builder
		last int
		pos  int
	)
	for pos < len(text) {
		if lookBrace(text, pos) != braceParam {
			pos++
			continue
		}
		body := pos + 3
		end, _ := matchParamEnd(text, body)
		if end < 0 {
			pos = body
			continue
		}
		fields := splitByPipe(text, body, end-3)
		value, ok := params[strings.TrimSpace(fields[0])]
		if !ok && len(fields) > 1 {
			value, ok = fields[1], true
		}
		switch {
		case !ok:
		case len(value) > e.limits.TemplateValue:
			e.log.Debug("parameter value over size limit",
				zap.String("parameter", fields[0]), zap.Int("size", len(value)))
		default:
			if buf == nil {
				buf = &strings.Builder{}
				buf.Grow(len(text))
			}
			buf.WriteString(text[last:pos])
			if sub, ok := e.substituteParameters(value, params); ok {
				buf.WriteString(sub)
			} else {
				buf.WriteString(value)
			}
			last = end
		}
		pos = end
		if buf != nil && buf.Len() > e.limits.TemplateBuffer {
			e.log.Debug("parameter substitution truncated", zap.Int("size", buf.Len()))
			return buf.String(), true
		}
	}
	if buf == nil {
		return "", false
	}
	buf.WriteString(text[last:])
	return buf.String(), true
}
