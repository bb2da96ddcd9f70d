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
)

// preprocessor handles comments, signatures and the inclusion tags
// <noinclude>, <includeonly> and <onlyinclude>. <nowiki>, <source> and
// <math> blocks pass through untouched.
type preprocessor struct {
	src   string
	pos   int
	start int // start of the pending literal run, -1 if none
	out   strings.Builder

	asTemplate    bool
	signatureOnly bool
	commentsOnly  bool // leave inclusion tags alone
	onlyInclude   bool // text outside <onlyinclude> is discarded
	signature     func(int) string
	tags          *tagFinder
}

// preprocess runs one preprocessing pass over text.
func (e *Expander) preprocess(text string, signatureOnly, asTemplate, commentsOnly bool) string {
	p := &preprocessor{
		src:           text,
		start:         -1,
		asTemplate:    asTemplate,
		signatureOnly: signatureOnly,
		commentsOnly:  commentsOnly,
		signature:     e.resolver.Signature,
		tags:          newTagFinder(text),
	}
	return p.run()
}

// nested preprocesses the body of a kept block. onlyInclude carries the
// mode of the enclosing pass; the result reports whether the body is in
// only-include mode when it ends.
func (p *preprocessor) nested(text string, onlyInclude bool) (string, bool) {
	q := &preprocessor{
		src:           text,
		start:         -1,
		asTemplate:    p.asTemplate,
		signatureOnly: p.signatureOnly,
		commentsOnly:  p.commentsOnly,
		onlyInclude:   onlyInclude,
		signature:     p.signature,
		tags:          newTagFinder(text),
	}
	return q.run(), q.onlyInclude
}

// keep emits the preprocessed body of a <noinclude> or <includeonly> block.
// An <onlyinclude> inside it puts this pass into only-include mode too.
func (p *preprocessor) keep(inner string) {
	text, only := p.nested(inner, p.onlyInclude)
	switch {
	case only && !p.onlyInclude:
		p.enterOnlyInclude()
		p.out.WriteString(text)
	case only:
		p.out.WriteString(text)
	default:
		p.emit(text)
	}
}

// enterOnlyInclude drops everything emitted so far; from now on only
// <onlyinclude> content is written.
func (p *preprocessor) enterOnlyInclude() {
	p.out.Reset()
	p.onlyInclude = true
}

func (p *preprocessor) run() string {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '<':
			if !p.signatureOnly && p.tag() {
				continue
			}
		case '~':
			if p.tildes() {
				continue
			}
		}
		if p.start < 0 {
			p.start = p.pos
		}
		p.pos++
	}
	p.flush(len(p.src))
	return p.out.String()
}

func (p *preprocessor) flush(end int) {
	if p.start >= 0 && end > p.start {
		p.emit(p.src[p.start:end])
	}
	p.start = -1
}

func (p *preprocessor) emit(s string) {
	if !p.onlyInclude {
		p.out.WriteString(s)
	}
}

func (p *preprocessor) tildes() bool {
	n := countTildes(p.src, p.pos)
	if n == 0 {
		return false
	}
	p.flush(p.pos)
	p.emit(p.signature(n))
	p.pos += n
	return true
}

// countTildes returns 3, 4 or 5 for a signature at pos, or 0. Longer runs
// are read as a five tilde signature followed by literal tildes.
func countTildes(src string, pos int) int {
	n := 0
	for n < 5 && at(src, pos+n, '~') {
		n++
	}
	if n < 3 {
		return 0
	}
	return n
}

// commentSpan reports the text to drop for a comment opening at pos. When
// the comment is the only thing on its line the whole line goes, including
// its line break. An unterminated comment is not a comment.
func (f *tagFinder) commentSpan(pos int) (cut, resume int, ok bool) {
	src := f.src
	if !strings.HasPrefix(src[pos:], "<!--") {
		return 0, 0, false
	}
	i := f.index(pos+4, "-->")
	if i < 0 {
		return 0, 0, false
	}
	end := i + 3
	ls := pos
	for ls > 0 && (src[ls-1] == ' ' || src[ls-1] == '\t') {
		ls--
	}
	le := end
	for le < len(src) && (src[le] == ' ' || src[le] == '\t') {
		le++
	}
	if (ls == 0 || src[ls-1] == '\n') && at(src, le, '\n') {
		return ls, le + 1, true
	}
	return pos, end, true
}

func (p *preprocessor) tag() bool {
	lt := p.pos
	if at(p.src, lt+1, '!') {
		cut, resume, ok := p.tags.commentSpan(lt)
		if !ok {
			return false
		}
		p.flush(cut)
		p.pos = resume
		return true
	}
	if end := p.tags.skipOpaque(lt, opaqueTags...); end >= 0 {
		if p.start < 0 {
			p.start = lt
		}
		p.pos = end
		return true
	}
	if p.commentsOnly || at(p.src, lt+1, '/') {
		return false
	}
	tag, name := p.tags.openTag(lt, "noinclude", "includeonly", "onlyinclude")
	if tag == nil {
		return false
	}
	p.inclusion(name, lt, tag.End)
	return true
}

// inclusion handles an inclusion tag opening at lt whose body starts at
// body.
func (p *preprocessor) inclusion(name string, lt, body int) {
	closeBegin, closeEnd := p.tags.closeTag(body, name)
	p.flush(lt)
	if closeBegin < 0 {
		if name == "includeonly" {
			p.pos = len(p.src)
			return
		}
		p.pos = body
		return
	}
	p.pos = closeEnd
	inner := p.src[body:closeBegin]
	switch name {
	case "noinclude":
		if !p.asTemplate {
			p.keep(inner)
		}
	case "includeonly":
		if p.asTemplate {
			p.keep(inner)
		}
	case "onlyinclude":
		if p.asTemplate {
			p.keep(inner)
			return
		}
		text, _ := p.nested(inner, false)
		if !p.onlyInclude {
			p.enterOnlyInclude()
		}
		p.out.WriteString(text)
	}
}
