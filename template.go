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

// Template records one call found on the page being expanded.
type Template struct {
	Typ        string            `json:"type"` //magic,normal,param
	Name       string            `json:"name"`
	Attr       string            `json:"attr"` //text after the ':' in magic templates
	Parameters map[string]string `json:"parameters"`
}

// expansion is the template expansion pass over one text.
type expansion struct {
	e     *Expander
	src   string
	pos   int
	start int // start of the pending literal run, -1 if none
	out   *strings.Builder
	tags  *tagFinder
}

func (x *expansion) run() {
	for x.pos < len(x.src) {
		switch x.src[x.pos] {
		case '{':
			if x.braces() {
				continue
			}
		case '<':
			if x.tag() {
				continue
			}
		case '~':
			if n := countTildes(x.src, x.pos); n > 0 {
				x.flush(x.pos)
				x.out.WriteString(x.e.resolver.Signature(n))
				x.pos += n
				continue
			}
		}
		if x.start < 0 {
			x.start = x.pos
		}
		x.pos++
	}
	x.flush(len(x.src))
}

func (x *expansion) flush(end int) {
	if x.start >= 0 && end > x.start {
		x.out.WriteString(x.src[x.start:end])
	}
	x.start = -1
}

// tag drops comments left in the text and skips opaque blocks.
func (x *expansion) tag() bool {
	lt := x.pos
	if cut, resume, ok := x.tags.commentSpan(lt); ok {
		x.flush(cut)
		x.pos = resume
		return true
	}
	if end := x.tags.skipOpaque(lt, opaqueTags...); end >= 0 {
		if x.start < 0 {
			x.start = lt
		}
		x.pos = end
		return true
	}
	return false
}

// braces handles '{' at x.pos. It returns false when the brace is literal.
func (x *expansion) braces() bool {
	i := x.pos
	switch lookBrace(x.src, i) {
	case braceParam:
		p, t := matchParamEnd(x.src, i+3)
		switch {
		case p >= 0:
			x.flush(i)
			x.parameter(i, p)
			x.pos = p
		case t >= 0:
			// "{{{a}}" is a '{' followed by the call {{a}}
			x.flush(i)
			x.out.WriteByte('{')
			x.template(i+3, t)
			x.pos = t
		default:
			return false
		}
		return true
	case braceTemplate:
		end := matchTemplateEnd(x.src, i+2)
		if end < 0 {
			return false
		}
		x.flush(i)
		x.template(i+2, end)
		x.pos = end
		return true
	}
	return false
}

// parameter expands a reference outside of any template body; only its
// default can apply.
func (x *expansion) parameter(start, end int) {
	raw := x.src[start:end]
	x.e.record(&Template{Typ: "param", Name: strings.TrimSpace(splitByPipe(raw, 3, len(raw)-3)[0])})
	sub, ok := x.e.substituteParameters(raw, nil)
	if !ok {
		x.out.WriteString(raw)
		return
	}
	x.out.WriteString(x.e.parseRecursive(strings.TrimSpace(sub), false, false, nil))
}

// template expands the call whose body is src[body:end-2].
func (x *expansion) template(body, end int) {
	fields := splitByPipe(x.src, body, end-2)
	name := strings.TrimSpace(fields[0])
	name = x.e.parseRecursive(name, false, false, nil)
	if name == recursionLimitMarker {
		x.out.WriteString(name)
		return
	}

	if off := parserFunctionPrefix(name); off >= 0 {
		fn := strings.TrimSpace(name[:off-1])
		if f, ok := x.e.resolver.ParserFunction(fn); ok {
			args := make([]string, len(fields))
			copy(args, fields)
			args[0] = name[off:]
			x.e.record(&Template{Typ: "magic", Name: fn, Attr: strings.TrimSpace(args[0])})
			call := &FunctionCall{
				Name: fn,
				Args: args,
				Raw:  x.src[body : end-2],
				expand: func(s string) string {
					return x.e.parseRecursive(s, false, false, nil)
				},
			}
			if res, ok := f(call); ok {
				x.out.WriteString(x.e.parseRecursive(res, false, false, nil))
			}
			return
		}
	}

	name = strings.TrimSpace(name)
	params := argumentMap(fields[1:])
	x.e.record(&Template{Typ: templateType(name), Name: name, Parameters: params})
	text, ok := x.e.resolver.TemplateBody(name, params)
	if !ok {
		x.out.WriteString(x.src[body-2 : end])
		return
	}
	x.out.WriteString(x.e.parseRecursive(text, false, true, params))
}

// parserFunctionPrefix returns the offset just past the ':' of a prefix
// like "#switch:" or "uc:", or -1. Leading whitespace is skipped.
func parserFunctionPrefix(name string) int {
	i := 0
	for i < len(name) && isSpace(name[i]) {
		i++
	}
	if i == len(name) || !(isLetter(name[i]) || name[i] == '#' || name[i] == '$') {
		return -1
	}
	for i++; i < len(name); i++ {
		switch c := name[i]; {
		case c == ':':
			return i + 1
		case isLetter(c) || isDigit(c) || c == '$':
		default:
			return -1
		}
	}
	return -1
}

func isLetter(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// templateType classifies a call that went to TemplateBody.
func templateType(tn string) string {
	base := tn
	if i := strings.IndexByte(tn, ':'); i > 0 {
		base = strings.TrimSpace(tn[:i])
	}
	base = strings.ToLower(base)
	if noHashFunctionsMap[base] || variablesMap[base] {
		return "magic"
	}
	return "normal"
}

var noHashFunctionsMap map[string]bool = map[string]bool{
	"displaytitle":     true,
	"formatdate":       true,
	"int":              true,
	"namespace":        true,
	"pagesinnamespace": true,
	"speciale":         true,
	"special":          true,
	"tag":              true,
	"anchorencode":     true, "basepagenamee": true, "basepagename": true, "canonicalurle": true,
	"canonicalurl": true, "cascadingsources": true, "defaultsort": true, "filepath": true,
	"formatnum": true, "fullpagenamee": true, "fullpagename": true, "fullurle": true,
	"fullurl": true, "gender": true, "grammar": true, "language": true,
	"lcfirst": true, "lc": true, "localurle": true, "localurl": true,
	"namespacee": true, "namespacenumber": true, "nse": true, "ns": true,
	"numberingroup": true, "numberofactiveusers": true, "numberofadmins": true, "numberofarticles": true,
	"numberofedits": true, "numberoffiles": true, "numberofpages": true, "numberofusers": true,
	"numberofviews": true, "padleft": true, "padright": true, "pageid": true,
	"pagenamee": true, "pagename": true, "pagesincategory": true, "pagesize": true,
	"plural": true, "protectionlevel": true, "revisionday2": true, "revisionday": true,
	"revisionid": true, "revisionmonth1": true, "revisionmonth": true, "revisiontimestamp": true,
	"revisionuser": true, "revisionyear": true, "rootpagenamee": true, "rootpagename": true,
	"subjectpagenamee": true, "subjectpagename": true, "subjectspacee": true, "subjectspace": true,
	"subpagenamee": true, "subpagename": true, "talkpagenamee": true, "talkpagename": true,
	"talkspacee": true, "talkspace": true, "ucfirst": true, "uc": true,
	"urlencode": true,
}

var variablesMap map[string]bool = map[string]bool{
	"articlepath":         true,
	"basepagenamee":       true,
	"basepagename":        true,
	"cascadingsources":    true,
	"contentlanguage":     true,
	"currentday2":         true,
	"currentdayname":      true,
	"currentday":          true,
	"currentdow":          true,
	"currenthour":         true,
	"currentmonth1":       true,
	"currentmonthabbrev":  true,
	"currentmonthnamegen": true,
	"currentmonthname":    true,
	"currentmonth":        true,
	"currenttimestamp":    true,
	"currenttime":         true,
	"currentversion":      true,
	"currentweek":         true,
	"currentyear":         true,
	"directionmark":       true,
	"fullpagenamee":       true,
	"fullpagename":        true,
	"localday2":           true,
	"localdayname":        true,
	"localday":            true,
	"localdow":            true,
	"localhour":           true,
	"localmonth1":         true,
	"localmonthabbrev":    true,
	"localmonthnamegen":   true,
	"localmonthname":      true,
	"localmonth":          true,
	"localtimestamp":      true,
	"localtime":           true,
	"localweek":           true,
	"localyear":           true,
	"namespacee":          true,
	"namespacenumber":     true,
	"namespace":           true,
	"numberofactiveusers": true,
	"numberofadmins":      true,
	"numberofarticles":    true,
	"numberofedits":       true,
	"numberoffiles":       true,
	"numberofpages":       true,
	"numberofusers":       true,
	"numberofviews":       true,
	"pageid":              true,
	"pagenamee":           true,
	"pagename":            true,
	"revisionday2":        true,
	"revisionday":         true,
	"revisionid":          true,
	"revisionmonth1":      true,
	"revisionmonth":       true,
	"revisionsize":        true,
	"revisiontimestamp":   true,
	"revisionuser":        true,
	"revisionyear":        true,
	"rootpagenamee":       true,
	"rootpagename":        true,
	"scriptpath":          true,
	"servername":          true,
	"server":              true,
	"sitename":            true,
	"stylepath":           true,
	"subjectpagenamee":    true,
	"subjectpagename":     true,
	"subjectspacee":       true,
	"subjectspace":        true,
	"subpagenamee":        true,
	"subpagename":         true,
	"talkpagenamee":       true,
	"talkpagename":        true,
	"talkspacee":          true,
	"talkspace":           true,
}
