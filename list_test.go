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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type elementDump struct {
	Seq  string
	Text string
}

func dumpElements(l *List) []elementDump {
	var out []elementDump
	for _, e := range l.Elements {
		out = append(out, elementDump{e.Sequence, e.Text()})
	}
	return out
}

func TestScanList(t *testing.T) {
	src := "* a\n** b\n# c\n; term : def\nafter"
	l := ScanList(src, 0)
	require.NotNil(t, l)
	want := []elementDump{
		{"*", "a"},
		{"**", "b"},
		{"#", "c"},
		{";", "term "},
		{":", "def"},
	}
	if diff := cmp.Diff(want, dumpElements(l)); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 26, l.End)
	assert.Equal(t, "after", src[l.End:])
	assert.Equal(t, 2, l.Elements[1].Depth())
}

func TestScanListOpaqueColon(t *testing.T) {
	l := ScanList("; a <span>:</span> : b", 0)
	require.NotNil(t, l)
	want := []elementDump{
		{";", "a <span>:</span> "},
		{":", "b"},
	}
	assert.Equal(t, want, dumpElements(l))
}

func TestScanListFirstCharacterColon(t *testing.T) {
	l := ScanList(";:x", 0)
	require.NotNil(t, l)
	assert.Equal(t, []elementDump{{";:", "x"}}, dumpElements(l))

	l = ScanList("; :x", 0)
	require.NotNil(t, l)
	assert.Equal(t, []elementDump{{";", ":x"}}, dumpElements(l))
}

func TestScanListEmptyElement(t *testing.T) {
	l := ScanList("*\n* b", 0)
	require.NotNil(t, l)
	assert.Equal(t, []elementDump{{"*", ""}, {"*", "b"}}, dumpElements(l))
	assert.Equal(t, 5, l.End)
}

func TestScanListNotAList(t *testing.T) {
	assert.Nil(t, ScanList("text", 0))
	assert.Nil(t, ScanList("", 0))
	assert.Nil(t, ScanList("*", 3))
}

func TestListElementTags(t *testing.T) {
	l := ScanList(`* <ref name="x">y</ref>`, 0)
	require.NotNil(t, l)
	tags := l.Elements[0].Tags()
	require.Len(t, tags, 1)
	assert.Equal(t, "ref", tags[0].Name())
	assert.Equal(t, map[string]string{"name": "x"}, tags[0].Params())
}

// shape renders a nested list as markers and element texts.
func shape(nodes []*ListNode) []any {
	var out []any
	for _, n := range nodes {
		items := []any{string(n.Kind)}
		for _, it := range n.Items {
			text := "-"
			if it.Element != nil {
				text = it.Element.Text()
			}
			items = append(items, text)
			if len(it.Children) > 0 {
				items = append(items, shape(it.Children))
			}
		}
		out = append(out, items)
	}
	return out
}

func TestListNest(t *testing.T) {
	l := ScanList("* a\n** b\n# c\n; term : def", 0)
	require.NotNil(t, l)
	want := []any{
		[]any{"*", "a", []any{[]any{"*", "b"}}},
		[]any{"#", "c"},
		[]any{":", "term ", "def"},
	}
	if diff := cmp.Diff(want, shape(l.Nest())); diff != "" {
		t.Errorf("nesting mismatch (-want +got):\n%s", diff)
	}
}

func TestListNestSkippedLevel(t *testing.T) {
	l := ScanList("*** x\n* y", 0)
	require.NotNil(t, l)
	want := []any{
		[]any{"*", "-", []any{[]any{"*", "-", []any{[]any{"*", "x"}}}}, "y"},
	}
	if diff := cmp.Diff(want, shape(l.Nest())); diff != "" {
		t.Errorf("nesting mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, byte(';'), ScanList("; t : d", 0).Nest()[0].Items[0].Marker)
}
