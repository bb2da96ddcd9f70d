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
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const recursionLimitMarker = "Error - recursion limit exceeded parsing templates."

// maxRedirects bounds a chain of redirects followed from one page.
const maxRedirects = 5

// Expander expands the templates of wikitext against a TemplateResolver.
// An Expander keeps per-parse state and must not be shared between
// goroutines; create one per goroutine.
type Expander struct {
	resolver  TemplateResolver
	limits    Limits
	log       *zap.Logger
	rc        *RecursionContext
	templates []*Template
}

type Option func(*Expander)

// WithLimits overrides the default limits. Zero fields keep their default.
func WithLimits(l Limits) Option {
	return func(e *Expander) { e.limits = l.withDefaults() }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Expander) {
		if l != nil {
			e.log = l
		}
	}
}

func New(r TemplateResolver, opts ...Option) *Expander {
	e := &Expander{
		resolver: r,
		limits:   DefaultLimits,
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Parse expands raw. With signatureOnly set only tilde signatures are
// replaced. asTemplate selects how inclusion tags are read: true for the
// body of a transcluded template, false for a page viewed on its own.
// params feeds {{{...}}} references of raw and may be nil.
//
// Parse never fails: limit violations are reported inline and an internal
// fault yields "Error - " followed by its description.
func (e *Expander) Parse(raw string, signatureOnly, asTemplate bool, params map[string]string) (out string) {
	e.rc = &RecursionContext{}
	e.templates = nil
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("wikitext expansion failed", zap.Any("fault", r), zap.Stack("stack"))
			out = fmt.Sprintf("Error - %v", r)
		}
		e.rc = nil
	}()
	return e.parseRecursive(raw, signatureOnly, asTemplate, params)
}

// Parse expands raw with a new Expander using default limits.
func Parse(raw string, r TemplateResolver, signatureOnly, asTemplate bool, params map[string]string) string {
	return New(r).Parse(raw, signatureOnly, asTemplate, params)
}

// Templates returns the calls found on the top level of the last parsed
// text.
func (e *Expander) Templates() []*Template {
	return e.templates
}

// Preprocess runs only the preprocessing pass over text.
func (e *Expander) Preprocess(text string, asTemplate bool) string {
	return e.preprocess(text, false, asTemplate, false)
}

func (e *Expander) record(t *Template) {
	if e.rc.Depth() == 1 {
		e.templates = append(e.templates, t)
	}
}

func (e *Expander) parseRecursive(raw string, signatureOnly, asTemplate bool, params map[string]string) string {
	depth := e.rc.IncrementDepth()
	defer e.rc.DecrementDepth()
	if depth > e.limits.ParserRecursion {
		e.log.Debug("parser recursion limit reached", zap.Int("depth", depth))
		return recursionLimitMarker
	}
	if n := e.rc.IncrementCount(); n > e.limits.TemplateRecursion {
		if !e.rc.exhausted {
			e.rc.exhausted = true
			e.log.Warn("template expansion limit reached", zap.Int("count", n))
		}
		return ""
	}

	text := e.preprocess(raw, signatureOnly, asTemplate, false)
	if signatureOnly {
		return text
	}
	text = e.preprocess(text, false, asTemplate, true)
	if len(params) > 0 {
		if sub, ok := e.substituteParameters(text, params); ok {
			text = sub
		}
	}

	var out strings.Builder
	out.Grow(len(text))
	x := &expansion{e: e, src: text, start: -1, out: &out, tags: newTagFinder(text)}
	x.run()

	if !asTemplate && depth == 1 {
		if target, ok := ParseRedirect(out.String()); ok {
			if content, ok := e.followRedirect(target); ok {
				return content
			}
		}
	}
	return out.String()
}

// followRedirect expands the content of a redirect target as a fresh top
// level parse.
func (e *Expander) followRedirect(target string) (string, bool) {
	if e.rc.redirects >= maxRedirects {
		e.log.Debug("redirect chain too long", zap.String("target", target))
		return "", false
	}
	content, ok := e.resolver.RedirectContent(target)
	if !ok {
		return "", false
	}
	e.log.Debug("following redirect", zap.String("target", target))
	saved := e.rc
	e.rc = &RecursionContext{redirects: saved.redirects + 1}
	defer func() { e.rc = saved }()
	return e.parseRecursive(content, false, false, nil), true
}
