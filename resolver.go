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
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TemplateResolver supplies everything the expander needs from the wiki.
type TemplateResolver interface {
	// TemplateBody returns the wikitext of the named template. The name is
	// already expanded and trimmed. When ok is false the call is emitted
	// as literal text.
	TemplateBody(name string, params map[string]string) (body string, ok bool)
	// ParserFunction returns the handler for a function name such as
	// "#switch" or "uc".
	ParserFunction(name string) (ParserFunc, bool)
	// Signature returns the replacement for a run of 3, 4 or 5 tildes.
	Signature(tildes int) string
	// RedirectContent returns the wikitext of a redirect target.
	RedirectContent(target string) (string, bool)
}

// ParserFunc evaluates one parser function call. A false result emits
// nothing for the call.
type ParserFunc func(call *FunctionCall) (string, bool)

// FunctionCall describes a call like {{#if: a | b | c}}. Args[0] holds the
// text after the colon; arguments are passed unexpanded.
type FunctionCall struct {
	Name string
	Args []string
	// Raw is the unsplit text between the braces.
	Raw string

	expand func(string) string
}

// Expand runs the expander over s in the context of the call.
func (c *FunctionCall) Expand(s string) string {
	if c.expand == nil {
		return s
	}
	return c.expand(s)
}

// Arg returns argument i expanded and trimmed, or "" if absent.
func (c *FunctionCall) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return strings.TrimSpace(c.Expand(c.Args[i]))
}

// PageModel is a TemplateResolver backed by a PageGetter.
type PageModel struct {
	Getter     PageGetter
	Namespaces Namespaces
	// User signs tilde signatures. Empty means "Anonymous".
	User string
	// TimeFormat is a Go layout for signature timestamps.
	TimeFormat string
	// Now defaults to time.Now.
	Now func() time.Time
	// Title of the page being expanded, used by the page name variables.
	Title string
	// SiteName answers {{SITENAME}}.
	SiteName string

	// Functions holds parser functions keyed by lower case name.
	Functions map[string]ParserFunc

	log *zap.Logger
}

const defaultTimeFormat = "15:04, 2 January 2006 (MST)"

func NewPageModel(g PageGetter) *PageModel {
	if g == nil {
		g = &DummyPageGetter{}
	}
	return &PageModel{
		Getter:     g,
		Namespaces: StandardNamespaces,
		TimeFormat: defaultTimeFormat,
		Now:        time.Now,
		Functions:  map[string]ParserFunc{},
		log:        zap.NewNop(),
	}
}

// SetLogger replaces the model's logger.
func (m *PageModel) SetLogger(l *zap.Logger) {
	if l != nil {
		m.log = l
	}
}

// Register adds a parser function. Names are matched without regard to case.
func (m *PageModel) Register(name string, f ParserFunc) {
	if m.Functions == nil {
		m.Functions = map[string]ParserFunc{}
	}
	m.Functions[strings.ToLower(name)] = f
}

func (m *PageModel) ParserFunction(name string) (ParserFunc, bool) {
	f, ok := m.Functions[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// TemplateLink resolves a template name to a page. Names without a
// namespace live in the Template namespace; a leading ':' selects the main
// namespace.
func (m *PageModel) TemplateLink(name string) WikiLink {
	return m.Namespaces.WikiCanonicalFormNamespaceEsc(name, "Template", true)
}

// TemplateBody answers magic variables and otherwise fetches the template
// page. A missing page yields a red link to it.
func (m *PageModel) TemplateBody(name string, params map[string]string) (string, bool) {
	if v, ok := m.variable(name); ok {
		return v, true
	}
	wl := m.TemplateLink(name)
	text, err := m.Getter.Get(wl)
	if err != nil {
		if !errors.Is(err, ErrPageNotFound) {
			m.log.Warn("template fetch failed", zap.String("template", wl.FullPagename()), zap.Error(err))
		} else {
			m.log.Debug("missing template", zap.String("template", wl.FullPagename()))
		}
		return "[[:" + wl.FullPagename() + "]]", true
	}
	return text, true
}

func (m *PageModel) RedirectContent(target string) (string, bool) {
	wl := m.Namespaces.WikiCanonicalFormNamespaceEsc(target, "", true)
	text, err := m.Getter.Get(wl)
	if err != nil {
		m.log.Debug("redirect target unavailable", zap.String("target", wl.FullPagename()), zap.Error(err))
		return "", false
	}
	return text, true
}

func (m *PageModel) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// Signature renders "~~~" as a user link, "~~~~" as link and timestamp and
// "~~~~~" as the timestamp alone.
func (m *PageModel) Signature(tildes int) string {
	user := m.User
	if user == "" {
		user = "Anonymous"
	}
	layout := m.TimeFormat
	if layout == "" {
		layout = defaultTimeFormat
	}
	link := "[[User:" + user + "|" + user + "]]"
	switch tildes {
	case 3:
		return link
	case 4:
		return link + " " + m.now().Format(layout)
	default:
		return m.now().Format(layout)
	}
}

// variable answers the subset of magic words that need no arguments.
func (m *PageModel) variable(name string) (string, bool) {
	if !variablesMap[strings.ToLower(name)] {
		return "", false
	}
	title := m.Namespaces.WikiCanonicalFormNamespaceEsc(m.Title, "", true)
	now := m.now()
	switch name {
	case "CURRENTYEAR":
		return now.Format("2006"), true
	case "CURRENTMONTH":
		return now.Format("01"), true
	case "CURRENTMONTHNAME":
		return now.Format("January"), true
	case "CURRENTDAY":
		return now.Format("2"), true
	case "CURRENTDAY2":
		return now.Format("02"), true
	case "CURRENTDAYNAME":
		return now.Format("Monday"), true
	case "CURRENTTIME":
		return now.Format("15:04"), true
	case "CURRENTTIMESTAMP":
		return now.Format("20060102150405"), true
	case "PAGENAME":
		return title.PageName, true
	case "FULLPAGENAME":
		return title.FullPagename(), true
	case "NAMESPACE":
		return title.Namespace, true
	case "SITENAME":
		return m.SiteName, true
	}
	return "", false
}
