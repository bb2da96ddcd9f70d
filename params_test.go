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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteParameters(t *testing.T) {
	params := map[string]string{"1": "one", "name": "N", "empty": ""}
	tests := []struct {
		in, want string
	}{
		{"{{{1}}}", "one"},
		{"[{{{ name }}}]", "[N]"},
		{"{{{missing|fallback}}}", "fallback"},
		{"{{{missing}}}", "{{{missing}}}"},
		{"{{{empty|fallback}}}", ""},
		{"{{{missing|{{{1}}}}}}", "one"},
		{"{{{missing|a|b}}}", "a"},
		{"{{{{1}}}}", "{one}"},
		{"no references", "no references"},
		{"{{{1", "{{{1"},
	}
	e := New(&stubResolver{})
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.SubstituteParameters(tt.in, params), tt.in)
	}
}

func TestSubstituteParametersValueSeesSameMap(t *testing.T) {
	e := New(&stubResolver{})
	params := map[string]string{"a": "<{{{b}}}>", "b": "B"}
	assert.Equal(t, "x<B>y", e.SubstituteParameters("x{{{a}}}y", params))
}

func TestSubstituteParametersCycle(t *testing.T) {
	e := New(&stubResolver{})
	params := map[string]string{"1": "{{{1}}}"}
	assert.Equal(t, "{{{1}}}", e.SubstituteParameters("{{{1}}}", params))
}

func TestSubstituteParametersBufferLimit(t *testing.T) {
	e := New(&stubResolver{}, WithLimits(Limits{TemplateBuffer: 100}))
	params := map[string]string{"1": "{{{1}}}{{{1}}}"}
	out := e.SubstituteParameters("{{{1}}}", params)
	assert.LessOrEqual(t, len(out), 400)
	assert.True(t, strings.HasPrefix(out, "{{{1}}}"))
}

func TestSubstituteParametersValueLimit(t *testing.T) {
	e := New(&stubResolver{}, WithLimits(Limits{TemplateValue: 3}))
	params := map[string]string{"short": "abc", "long": "abcd"}
	assert.Equal(t, "abc {{{long}}}", e.SubstituteParameters("{{{short}}} {{{long}}}", params))
}
