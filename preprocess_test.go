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
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessInclusionTags(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		asTemplate bool
		want       string
	}{
		{"noinclude on page", "<noinclude>A</noinclude>B", false, "AB"},
		{"noinclude in template", "<noinclude>A</noinclude>B", true, "B"},
		{"includeonly on page", "A<includeonly>B</includeonly>C", false, "AC"},
		{"includeonly in template", "A<includeonly>B</includeonly>C", true, "ABC"},
		{"unterminated includeonly on page", "A<includeonly>B", false, "A"},
		{"unterminated includeonly in template", "A<includeonly>B", true, "A"},
		{"unterminated noinclude", "A<noinclude>B", true, "AB"},
		{"onlyinclude on page", "a<onlyinclude>X</onlyinclude>b<onlyinclude>Y</onlyinclude>c", false, "XY"},
		{"onlyinclude in template", "a<onlyinclude>X</onlyinclude>b", true, "aXb"},
		{"onlyinclude hides later tags", "a<onlyinclude>X</onlyinclude><noinclude>N</noinclude>", false, "X"},
		{"onlyinclude inside noinclude", "A<noinclude>B<onlyinclude>C</onlyinclude>D</noinclude>E", false, "C"},
		{"onlyinclude inside noinclude after onlyinclude", "<onlyinclude>X</onlyinclude>A<noinclude>B<onlyinclude>C</onlyinclude>D</noinclude>E", false, "XC"},
		{"noinclude without onlyinclude", "A<noinclude>B</noinclude>C", false, "ABC"},
		{"onlyinclude inside includeonly in template", "A<includeonly>B<onlyinclude>C</onlyinclude></includeonly>E", true, "ABCE"},
		{"self-closing inclusion tag", "A<noinclude/>B", true, "AB"},
		{"nested blocks", "<includeonly>a<!-- c -->b</includeonly>", true, "ab"},
		{"case insensitive close", "<noinclude>A</NoInclude>B", true, "B"},
	}
	e := New(&stubResolver{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Preprocess(tt.in, tt.asTemplate))
		})
	}
}

func TestPreprocessComments(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a<!-- c -->b", "ab"},
		{"a\n<!-- c -->\nb", "a\nb"},
		{"a\n  <!-- c -->  \nb", "a\nb"},
		{"<!-- c -->\nb", "b"},
		{"a <!-- c --> b\n", "a  b\n"},
		{"a<!-- c", "a<!-- c"},
		{"a<!-- multi\nline -->b", "ab"},
	}
	e := New(&stubResolver{})
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.Preprocess(tt.in, false), tt.in)
	}
}

func TestPreprocessOpaqueBlocks(t *testing.T) {
	e := New(&stubResolver{})
	in := "<nowiki><!-- x --><noinclude>y</noinclude>~~~~</nowiki>"
	assert.Equal(t, in, e.Preprocess(in, true))

	in = "<math>a<b</math><noinclude>c</noinclude>"
	assert.Equal(t, "<math>a<b</math>", e.Preprocess(in, true))
}

func TestPreprocessSignatures(t *testing.T) {
	e := New(&stubResolver{})
	assert.Equal(t, "by User", e.Preprocess("by ~~~", false))
	assert.Equal(t, "by User (ts)", e.Preprocess("by ~~~~", false))
	assert.Equal(t, "at ts", e.Preprocess("at ~~~~~", false))
	assert.Equal(t, "ts~", e.Preprocess("~~~~~~", false))
	assert.Equal(t, "~~", e.Preprocess("~~", false))
}

func TestPreprocessIdempotent(t *testing.T) {
	e := New(&stubResolver{})
	for _, in := range []string{
		"a<!-- c -->b<noinclude>x</noinclude>{{t|y}}",
		"<onlyinclude>{{{1}}}</onlyinclude> tail",
		"plain text with <b>tags</b>",
	} {
		for _, asTemplate := range []bool{false, true} {
			once := e.Preprocess(in, asTemplate)
			assert.Equal(t, once, e.Preprocess(once, asTemplate), in)
		}
	}
}

func TestParseUnclosedTagsInLinearTime(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kept bool
	}{
		{"unknown tags", `<a b="c">` + strings.Repeat("<a x=", 40000), true},
		{"opaque tags", strings.Repeat("<nowiki x=", 20000) + "</nowiki>", true},
		{"inclusion tags", strings.Repeat("<noinclude>", 20000), false},
		{"comments", strings.Repeat("<!--", 50000), true},
	}
	e := New(&stubResolver{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			out := e.Parse(tt.in, false, false, nil)
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("parsing %d bytes took %v", len(tt.in), elapsed)
			}
			if tt.kept {
				assert.Equal(t, tt.in, out)
			} else {
				assert.Empty(t, out)
			}
		})
	}
}
