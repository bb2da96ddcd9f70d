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

// Attribute locates one attribute of a scanned tag inside the source text.
// ValueStart and ValueEnd are -1 for attributes without a value.
type Attribute struct {
	NameStart, NameEnd   int
	ValueStart, ValueEnd int
	Quote                byte
}

// HasValue reports whether the attribute carried '='.
func (a Attribute) HasValue() bool { return a.ValueStart >= 0 }

// TagNode is the result of ScanTag. Start is the offset just after '<' and
// End the offset just past the tag; End equals len(src) for a tag cut short.
type TagNode struct {
	Start, End int
	Attributes []Attribute
	src        string
}

// Name returns the lower case tag name, or "" when the tag opens with
// whitespace.
func (t *TagNode) Name() string {
	if len(t.Attributes) == 0 || t.Attributes[0].NameStart != t.Start {
		return ""
	}
	a := t.Attributes[0]
	return strings.ToLower(t.src[a.NameStart:a.NameEnd])
}

// AttrName returns the text of the attribute's name.
func (t *TagNode) AttrName(a Attribute) string { return t.src[a.NameStart:a.NameEnd] }

// AttrValue returns the attribute value without its quotes.
func (t *TagNode) AttrValue(a Attribute) string {
	if !a.HasValue() {
		return ""
	}
	return t.src[a.ValueStart:a.ValueEnd]
}

// Params returns the attributes after the tag name keyed by their lower case
// name. Standalone attributes map to "".
func (t *TagNode) Params() map[string]string {
	m := make(map[string]string)
	for i, a := range t.Attributes {
		if i == 0 && t.Name() != "" {
			continue
		}
		name := strings.ToLower(t.AttrName(a))
		if name == "/" {
			continue
		}
		m[name] = t.AttrValue(a)
	}
	return m
}

// SelfClosing reports whether the tag ends with "/>".
func (t *TagNode) SelfClosing() bool {
	return t.End >= 2 && t.src[t.End-1] == '>' && t.src[t.End-2] == '/'
}

// tag scanner states
const (
	tagOutside = iota
	tagName
	tagEquals
	tagNaked
	tagSingle
	tagDouble
	tagAfterName
)

// ScanTag scans the tag whose body starts at pos, the offset just after '<'.
// It returns nil when the scan covers at most one character.
func ScanTag(src string, pos int) *TagNode {
	if pos < 0 || pos > len(src) {
		return nil
	}
	var (
		attrs []Attribute
		bm    [8]int
		state = tagOutside
		start = pos
	)
	standalone := func() {
		attrs = append(attrs, Attribute{NameStart: bm[1], NameEnd: bm[2], ValueStart: -1, ValueEnd: -1})
	}
	empty := func() {
		v := bm[2] + 1
		if v > len(src) {
			v = len(src)
		}
		attrs = append(attrs, Attribute{NameStart: bm[1], NameEnd: bm[2], ValueStart: v, ValueEnd: v})
	}
	naked := func() {
		attrs = append(attrs, Attribute{NameStart: bm[1], NameEnd: bm[2], ValueStart: bm[3], ValueEnd: bm[4]})
	}
	single := func() {
		attrs = append(attrs, Attribute{NameStart: bm[1], NameEnd: bm[2], ValueStart: bm[4] + 1, ValueEnd: bm[5], Quote: '\''})
	}
	double := func() {
		attrs = append(attrs, Attribute{NameStart: bm[1], NameEnd: bm[2], ValueStart: bm[5] + 1, ValueEnd: bm[6], Quote: '"'})
	}

	bm[0] = pos
scan:
	for {
		bm[state+1] = pos
		if pos >= len(src) {
			switch state {
			case tagName, tagAfterName:
				standalone()
			case tagEquals:
				empty()
			case tagNaked:
				naked()
			case tagSingle:
				single()
			case tagDouble:
				double()
			}
			break
		}
		ch := src[pos]
		pos++
		switch state {
		case tagOutside:
			switch {
			case ch == '>':
				break scan
			case ch == '<':
				pos--
				break scan
			case !isSpace(ch):
				state = tagName
			}
		case tagName:
			switch {
			case ch == '>' || ch == '<':
				if ch == '<' {
					pos--
					bm[2] = pos
				}
				standalone()
				break scan
			case ch == '/' && at(src, pos, '>'):
				standalone()
				bm[0] = bm[2]
				pos--
				state = tagOutside
			case isSpace(ch):
				bm[6] = bm[2]
				state = tagAfterName
			case ch == '=':
				state = tagEquals
			}
		case tagEquals:
			switch {
			case ch == '>':
				empty()
				break scan
			case ch == '\'':
				bm[4] = bm[3]
				state = tagSingle
			case ch == '"':
				bm[5] = bm[3]
				state = tagDouble
			case isSpace(ch):
			default:
				state = tagNaked
			}
		case tagNaked:
			switch {
			case ch == '>':
				naked()
				break scan
			case isSpace(ch):
				naked()
				bm[0] = bm[4]
				state = tagOutside
			case ch == '/' && at(src, pos, '>'):
				naked()
				bm[0] = bm[4]
				pos--
				state = tagOutside
			}
		case tagSingle:
			if ch == '\'' {
				single()
				bm[0] = bm[5] + 1
				state = tagOutside
			}
		case tagDouble:
			if ch == '"' {
				double()
				bm[0] = bm[6] + 1
				state = tagOutside
			}
		case tagAfterName:
			switch {
			case isSpace(ch):
			case ch == '=':
				bm[2] = bm[6]
				bm[3] = bm[7]
				state = tagEquals
			default:
				standalone()
				bm[0] = bm[6]
				pos--
				state = tagOutside
			}
		}
	}
	if pos-start <= 1 {
		return nil
	}
	return &TagNode{Start: start, End: pos, Attributes: attrs, src: src}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// findCloseTag looks for "</name>" from pos on, matching name without regard
// to case. It returns the offsets where the closing tag starts and ends, or
// -1, -1.
func findCloseTag(src string, pos int, name string) (begin, end int) {
	for pos < len(src) {
		i := strings.Index(src[pos:], "</")
		if i < 0 {
			break
		}
		i += pos
		j := i + 2 + len(name)
		if j < len(src) && strings.EqualFold(src[i+2:j], name) && src[j] == '>' {
			return i, j + 1
		}
		pos = i + 2
	}
	return -1, -1
}

// tagOpens returns the name from names of the tag opening at src[lt] ==
// '<', or "". Names are lower case and are matched without regard to case;
// the name must be followed by a blank, '/', '>' or the end of src. It looks
// only at the name, so callers can afford it at every '<'.
func tagOpens(src string, lt int, names ...string) string {
	if !at(src, lt, '<') {
		return ""
	}
	rest := src[lt+1:]
	for _, n := range names {
		if len(rest) < len(n) || !strings.EqualFold(rest[:len(n)], n) {
			continue
		}
		if len(rest) == len(n) {
			return n
		}
		if c := rest[len(n)]; isSpace(c) || c == '/' || c == '>' {
			return n
		}
	}
	return ""
}

// tagFinder looks up tags of one text at every '<' of a pass. Lookups of
// a pass move forward, so it remembers the last answers: a miss from pos is
// a miss from every later offset, and a hit at begin answers every lookup
// starting between the earlier start and begin.
type tagFinder struct {
	src    string
	closes map[string][3]int // from, begin, end
	found  map[string][2]int // from, offset
	gtFrom int
	gt     int
}

func newTagFinder(src string) *tagFinder {
	return &tagFinder{
		src:    src,
		closes: make(map[string][3]int),
		found:  make(map[string][2]int),
		gtFrom: len(src) + 1,
	}
}

// index returns the offset of the first lit at or after pos, or -1.
func (f *tagFinder) index(pos int, lit string) int {
	if r, ok := f.found[lit]; ok && pos >= r[0] && (r[1] < 0 || pos <= r[1]) {
		return r[1]
	}
	i := strings.Index(f.src[pos:], lit)
	if i >= 0 {
		i += pos
	}
	f.found[lit] = [2]int{pos, i}
	return i
}

// closeTag is findCloseTag over the finder's text.
func (f *tagFinder) closeTag(pos int, name string) (begin, end int) {
	if r, ok := f.closes[name]; ok && pos >= r[0] && (r[1] < 0 || pos <= r[1]) {
		return r[1], r[2]
	}
	begin, end = findCloseTag(f.src, pos, name)
	f.closes[name] = [3]int{pos, begin, end}
	return begin, end
}

// nextGT returns the offset of the first '>' at or after pos, or -1.
func (f *tagFinder) nextGT(pos int) int {
	if pos >= f.gtFrom && (f.gt < 0 || pos <= f.gt) {
		return f.gt
	}
	f.gtFrom, f.gt = pos, -1
	if i := strings.IndexByte(f.src[pos:], '>'); i >= 0 {
		f.gt = pos + i
	}
	return f.gt
}

// openTag scans the start tag at src[lt] == '<' when its name is one of
// names. The tag must end with the first '>' and hold no '<' before it.
func (f *tagFinder) openTag(lt int, names ...string) (*TagNode, string) {
	name := tagOpens(f.src, lt, names...)
	if name == "" {
		return nil, ""
	}
	gt := f.nextGT(lt + 1)
	if gt < 0 || strings.IndexByte(f.src[lt+1:gt], '<') >= 0 {
		return nil, ""
	}
	tag := ScanTag(f.src[:gt+1], lt+1)
	if tag == nil || tag.Name() != name {
		return nil, ""
	}
	tag.src = f.src
	return tag, name
}

// skipOpaque checks whether a tag named in names opens at src[lt] == '<'. If
// it does and is closed, the offset past the closing tag is returned.
// Otherwise the result is -1.
func (f *tagFinder) skipOpaque(lt int, names ...string) int {
	tag, name := f.openTag(lt, names...)
	if tag == nil {
		return -1
	}
	if tag.SelfClosing() {
		return tag.End
	}
	if _, end := f.closeTag(tag.End, name); end >= 0 {
		return end
	}
	return -1
}

var opaqueTags = []string{"nowiki", "source", "math"}
