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

// Package wikiexpand expands MediaWiki templates, parameters and parser
// functions in wikitext, and scans tables, lists and tags for a renderer.
package wikiexpand

import (
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrPageNotFound is returned by a PageGetter for a page it does not have.
var ErrPageNotFound = errors.New("page not found")

type WikiLink struct {
	Namespace string
	PageName  string
	Anchor    string
}

// PageGetter fetches the wikitext of a page.
type PageGetter interface {
	Get(page WikiLink) (string, error)
}

var canoReSpaces = regexp.MustCompile(`[ _]+`)

func WikiCanonicalForm(l string) WikiLink {
	return StandardNamespaces.WikiCanonicalFormNamespaceEsc(l, "", true)
}

func WikiCanonicalFormNamespace(l string, defaultNamespace string) WikiLink {
	return StandardNamespaces.WikiCanonicalFormNamespaceEsc(l, defaultNamespace, true)
}

// WikiCanonicalFormNamespaceEsc splits a link target into namespace, page
// name and anchor. A prefix that is not a known namespace stays part of the
// page name and defaultNamespace is used.
func (namespaces Namespaces) WikiCanonicalFormNamespaceEsc(l string, defaultNamespace string, unescape bool) WikiLink {
	anchor := ""
	if hpos := strings.IndexByte(l, '#'); hpos >= 0 {
		anchor = l[hpos+1:]
		l = l[:hpos]
	}
	i := strings.IndexByte(l, ':')
	namespace := defaultNamespace
	if i >= 0 {
		cns := strings.TrimSpace(canoReSpaces.ReplaceAllString(l[:i], " "))
		if unescape {
			cns = html.UnescapeString(cns)
		}
		ns, ok := namespaces[strings.ToLower(cns)]
		switch {
		case ok && len(cns) > 0:
			namespace = ns
		case ok || len(cns) == 0:
			// ":Page" addresses the main namespace
			namespace = ""
		default:
			i = -1
		}
	}
	article := strings.TrimSpace(canoReSpaces.ReplaceAllString(l[i+1:], " "))
	anchor = canoReSpaces.ReplaceAllString(anchor, " ")
	if unescape {
		article = html.UnescapeString(article)
		anchor = html.UnescapeString(anchor)
	}
	if len(article) > 0 {
		article = strings.ToUpper(article[0:1]) + article[1:]
	}
	return WikiLink{Namespace: namespace, PageName: article, Anchor: anchor}
}

func (wl *WikiLink) FullPagename() string {
	if len(wl.Namespace) == 0 {
		return wl.PageName
	}
	return wl.Namespace + ":" + wl.PageName
}

func (wl *WikiLink) FullPagenameAnchor() string {
	s := wl.FullPagename()
	if len(wl.Anchor) != 0 {
		s += "#" + wl.Anchor
	}
	return s
}

// Namespaces maps lower case namespace names to their canonical spelling.
type Namespaces map[string]string

var StandardNamespaces Namespaces = map[string]string{
	"media":                  "Media",
	"special":                "Special",
	"talk":                   "Talk",
	"user":                   "User",
	"user talk":              "User talk",
	"wikipedia":              "Wikipedia",
	"wikipedia talk":         "Wikipedia talk",
	"file":                   "File",
	"file talk":              "File talk",
	"mediawiki":              "MediaWiki",
	"mediawiki talk":         "MediaWiki talk",
	"template":               "Template",
	"template talk":          "Template talk",
	"help":                   "Help",
	"help talk":              "Help talk",
	"category":               "Category",
	"category talk":          "Category talk",
	"portal":                 "Portal",
	"portal talk":            "Portal talk",
	"book":                   "Book",
	"book talk":              "Book talk",
	"draft":                  "Draft",
	"draft talk":             "Draft talk",
	"education program":      "Education Program",
	"education program talk": "Education Program talk",
	"timedtext":              "TimedText",
	"timedtext talk":         "TimedText talk",
	"module":                 "Module",
	"module talk":            "Module talk",
	"topic":                  "Topic",
}

// Merge returns a copy of namespaces extended with extra. Keys of extra are
// matched without regard to case.
func (namespaces Namespaces) Merge(extra map[string]string) Namespaces {
	out := make(Namespaces, len(namespaces)+len(extra))
	for k, v := range namespaces {
		out[k] = v
	}
	for k, v := range extra {
		out[strings.ToLower(k)] = v
	}
	return out
}

// DummyPageGetter knows no pages.
type DummyPageGetter struct{}

func (g *DummyPageGetter) Get(wl WikiLink) (string, error) {
	return "", fmt.Errorf("%s: %w", wl.FullPagename(), ErrPageNotFound)
}

// MapPageGetter serves pages from memory, keyed by full page name
// ("Template:Foo").
type MapPageGetter map[string]string

func (g MapPageGetter) Get(wl WikiLink) (string, error) {
	text, ok := g[wl.FullPagename()]
	if !ok {
		return "", fmt.Errorf("%s: %w", wl.FullPagename(), ErrPageNotFound)
	}
	return text, nil
}

// DirPageGetter reads pages from Root/<Namespace>/<Page_name>.wiki. Pages of
// the main namespace live directly under Root.
type DirPageGetter struct {
	Root string
}

func (g *DirPageGetter) Get(wl WikiLink) (string, error) {
	name := strings.ReplaceAll(wl.PageName, " ", "_") + ".wiki"
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, "..") {
		return "", fmt.Errorf("%s: %w", wl.FullPagename(), ErrPageNotFound)
	}
	path := filepath.Join(g.Root, strings.ReplaceAll(wl.Namespace, " ", "_"), name)
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", wl.FullPagename(), ErrPageNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", wl.FullPagename(), err)
	}
	return string(b), nil
}
