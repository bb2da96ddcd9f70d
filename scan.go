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

// braceKind classifies a run of opening curly braces.
type braceKind int

const (
	braceLiteral  braceKind = iota // a lone '{'
	braceTemplate                  // '{{' or four and more braces
	braceParam                     // exactly '{{{' not followed by a fourth '{'
)

// at reports whether src[i] exists and equals c.
func at(src string, i int, c byte) bool {
	return i >= 0 && i < len(src) && src[i] == c
}

// lookBrace classifies the braces starting at pos. Every pass uses it so
// that the delimiter matcher, the argument splitter and the expansion pass
// agree on what '{{{' means.
func lookBrace(src string, pos int) braceKind {
	if !at(src, pos, '{') || !at(src, pos+1, '{') {
		return braceLiteral
	}
	if at(src, pos+2, '{') && !at(src, pos+3, '{') {
		return braceParam
	}
	return braceTemplate
}

// matchBracket finds the end of a doubled bracket construct such as [[...]].
// pos is the offset just after the opening pair. The result is the offset
// just past the matching closing pair, or -1 if src ends first.
func matchBracket(src string, open, close byte, pos int) int {
	level := 1
	for pos < len(src) {
		switch {
		case src[pos] == open && at(src, pos+1, open):
			level++
			pos += 2
		case src[pos] == close && at(src, pos+1, close):
			pos += 2
			level--
			if level == 0 {
				return pos
			}
		default:
			pos++
		}
	}
	return -1
}

// matchTemplateEnd finds the end of a {{...}} call. pos is the offset just
// after the opening '{{'. Single unpaired '{' inside the call are counted so
// that their '}' do not close the call. Returns -1 if src ends first.
func matchTemplateEnd(src string, pos int) int {
	single := 0
	for pos < len(src) {
		ch := src[pos]
		pos++
		switch ch {
		case '{':
			single++
		case '}':
			if single > 0 {
				single--
			} else if at(src, pos, '}') {
				return pos + 1
			}
		}
	}
	return -1
}

// matchParamEnd finds the end of a {{{...}}} parameter reference. pos is the
// offset just after the opening '{{{'.
//
// The first result is the offset past the closing '}}}'. When only '}}'
// closes the construct the first result is -1 and the second holds the offset
// past that '}}': the caller should read the text as a template whose name
// starts with '{'. Both are -1 when src ends first.
func matchParamEnd(src string, pos int) (param, template int) {
	single := 0
	for pos < len(src) {
		ch := src[pos]
		pos++
		switch ch {
		case '{':
			if !at(src, pos, '{') {
				single++
				continue
			}
			if lookBrace(src, pos-1) == braceParam {
				p, t := matchParamEnd(src, pos+2)
				switch {
				case p >= 0:
					pos = p
				case t >= 0:
					pos = t
				default:
					return -1, -1
				}
				continue
			}
			t := matchTemplateEnd(src, pos+1)
			if t < 0 {
				return -1, -1
			}
			pos = t
		case '}':
			if single > 0 {
				single--
				continue
			}
			if at(src, pos, '}') {
				if at(src, pos+1, '}') {
					return pos + 2, -1
				}
				return -1, pos + 1
			}
		}
	}
	return -1, -1
}

// skipNested is called after the scanner consumed src[pos-1]. If that byte
// opens a [[...]], {{...}} or {{{...}}} construct the offset past its end is
// returned, otherwise pos is returned unchanged.
func skipNested(src string, pos int) int {
	switch src[pos-1] {
	case '[':
		if !at(src, pos, '[') {
			return pos
		}
		if e := matchBracket(src, '[', ']', pos+1); e >= 0 {
			return e
		}
		return pos + 1
	case '{':
		switch lookBrace(src, pos-1) {
		case braceParam:
			if p, _ := matchParamEnd(src, pos+2); p >= 0 {
				return p
			}
			if e := matchTemplateEnd(src, pos+1); e >= 0 {
				return e
			}
			return pos + 2
		case braceTemplate:
			if e := matchTemplateEnd(src, pos+1); e >= 0 {
				return e
			}
			return pos + 1
		}
	}
	return pos
}
