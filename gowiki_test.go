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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikiCanonicalFormNamespaceEsc(t *testing.T) {
	wl := StandardNamespaces.WikiCanonicalFormNamespaceEsc("WiKIpEdia:pagename#section", "", true)
	if wl.Namespace != "Wikipedia" || wl.PageName != "Pagename" || wl.Anchor != "section" {
		t.Error("Error: wikilink not parsed correctly", wl)
	}
}

func TestWikiCanonicalFormDefaultNamespace(t *testing.T) {
	tests := []struct {
		in   string
		want WikiLink
	}{
		{"foo_bar", WikiLink{Namespace: "Template", PageName: "Foo bar"}},
		{"  infobox   person ", WikiLink{Namespace: "Template", PageName: "Infobox person"}},
		{":Main page", WikiLink{PageName: "Main page"}},
		{"User:bob", WikiLink{Namespace: "User", PageName: "Bob"}},
		{"Nope:x", WikiLink{Namespace: "Template", PageName: "Nope:x"}},
		{"a &amp; b", WikiLink{Namespace: "Template", PageName: "A & b"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := WikiCanonicalFormNamespace(tt.in, "Template")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFullPagename(t *testing.T) {
	wl := WikiCanonicalForm("help:Contents#Top")
	assert.Equal(t, "Help:Contents", wl.FullPagename())
	assert.Equal(t, "Help:Contents#Top", wl.FullPagenameAnchor())

	wl = WikiCanonicalForm("earth")
	assert.Equal(t, "Earth", wl.FullPagename())
}

func TestNamespacesMerge(t *testing.T) {
	ns := StandardNamespaces.Merge(map[string]string{"WP": "Wikipedia"})
	assert.Equal(t, "Wikipedia", ns["wp"])
	_, ok := StandardNamespaces["wp"]
	assert.False(t, ok)

	wl := ns.WikiCanonicalFormNamespaceEsc("WP:About", "", true)
	assert.Equal(t, WikiLink{Namespace: "Wikipedia", PageName: "About"}, wl)
}

func TestPageGetters(t *testing.T) {
	m := MapPageGetter{"Template:Foo": "foo body"}
	text, err := m.Get(WikiCanonicalFormNamespace("foo", "Template"))
	require.NoError(t, err)
	assert.Equal(t, "foo body", text)

	_, err = m.Get(WikiCanonicalForm("Bar"))
	require.ErrorIs(t, err, ErrPageNotFound)

	_, err = (&DummyPageGetter{}).Get(WikiCanonicalForm("Bar"))
	require.ErrorIs(t, err, ErrPageNotFound)

	d := &DirPageGetter{Root: "testdata/templates"}
	text, err = d.Get(WikiCanonicalFormNamespace("hello", "Template"))
	require.NoError(t, err)
	assert.Equal(t, "Hello {{{1|world}}}!", text)

	_, err = d.Get(WikiCanonicalFormNamespace("missing", "Template"))
	require.ErrorIs(t, err, ErrPageNotFound)

	_, err = d.Get(WikiLink{Namespace: "Template", PageName: "../config"})
	require.ErrorIs(t, err, ErrPageNotFound)
}
