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

// ListElement is one item line of a list. Sequence holds its marker run,
// e.g. "**#"; Start and End delimit its content.
type ListElement struct {
	Sequence   string
	Start, End int

	src  string
	tags []*TagNode
	done bool
}

// Depth is the nesting level of the element.
func (e *ListElement) Depth() int { return len(e.Sequence) }

func (e *ListElement) Text() string { return e.src[e.Start:e.End] }

// Tags returns the start tags in the element, scanned on first use.
func (e *ListElement) Tags() []*TagNode {
	if !e.done {
		e.tags = scanTags(e.src, e.Start, e.End)
		e.done = true
	}
	return e.tags
}

type List struct {
	Elements []*ListElement
	// End is the start of the first line after the list.
	End int
}

func isListMarker(c byte) bool {
	return c == '*' || c == '#' || c == ';' || c == ':'
}

type listScanner struct {
	src  string
	pos  int
	list *List
	cur  *ListElement
	tags *tagFinder
}

// ScanList scans the list whose first marker line starts at pos. It returns
// nil when no marker starts there.
func ScanList(src string, pos int) *List {
	if pos < 0 || pos >= len(src) || !isListMarker(src[pos]) {
		return nil
	}
	s := &listScanner{src: src, pos: pos, list: &List{}, tags: newTagFinder(src)}
	s.scan()
	return s.list
}

func (s *listScanner) closeElement(end int) {
	if s.cur != nil {
		s.cur.End = end
		s.list.Elements = append(s.list.Elements, s.cur)
		s.cur = nil
	}
}

// startElement skips blanks after a marker run. A line without content
// yields an empty element and leaves pos on the line break.
func (s *listScanner) startElement(seq string) {
	src := s.src
	for s.pos < len(src) && src[s.pos] != '\n' && isSpace(src[s.pos]) {
		s.pos++
	}
	s.cur = &ListElement{Sequence: seq, Start: s.pos, src: src}
	if s.pos >= len(src) || src[s.pos] == '\n' {
		s.closeElement(s.pos)
		return
	}
	// the first content character never starts a definition
	s.step()
}

// step advances past one content character, skipping opaque blocks.
func (s *listScanner) step() {
	if s.src[s.pos] == '<' {
		if end := s.tags.skipOpaque(s.pos, "nowiki", "source", "math", "span"); end >= 0 {
			s.pos = end
			return
		}
	}
	s.pos++
}

func (s *listScanner) scan() {
	src := s.src
	for s.pos < len(src) {
		if !isListMarker(src[s.pos]) {
			s.list.End = s.pos
			return
		}
		start := s.pos
		for s.pos < len(src) && isListMarker(src[s.pos]) {
			s.pos++
		}
		seq := src[start:s.pos]
		lastCh := seq[len(seq)-1]
		s.startElement(seq)

		for s.pos < len(src) && src[s.pos] != '\n' {
			if src[s.pos] == ':' && lastCh == ';' {
				// "; term : definition"
				s.closeElement(s.pos)
				seq = seq[:len(seq)-1] + ":"
				s.pos++
				s.startElement(seq)
				lastCh = ' '
				continue
			}
			s.step()
		}
		s.closeElement(s.pos)
		if s.pos < len(src) {
			s.pos++
		}
	}
	s.list.End = len(src)
}

// ListNode is one list of a nested structure. Kind is '*', '#' or ':' for
// definition lists.
type ListNode struct {
	Kind  byte
	Items []*ListItem
}

// ListItem holds one element and the lists nested below it. Element is nil
// for the items MediaWiki inserts to hold a deeper list that skips a level.
type ListItem struct {
	Marker   byte
	Element  *ListElement
	Children []*ListNode
}

func listKind(c byte) byte {
	if c == ';' {
		return ':'
	}
	return c
}

// commonPrefix is the number of leading markers two sequences share, with
// ';' and ':' equal.
func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && listKind(a[n]) == listKind(b[n]) {
		n++
	}
	return n
}

// Nest arranges the elements into nested lists.
func (l *List) Nest() []*ListNode {
	var (
		roots []*ListNode
		stack []*ListNode
		prev  string
	)
	for _, e := range l.Elements {
		seq := e.Sequence
		k := commonPrefix(prev, seq)
		if k > len(stack) {
			k = len(stack)
		}
		stack = stack[:k]
		for i := k; i < len(seq); i++ {
			node := &ListNode{Kind: listKind(seq[i])}
			if i == 0 {
				roots = append(roots, node)
			} else {
				parent := stack[i-1]
				if len(parent.Items) == 0 {
					parent.Items = append(parent.Items, &ListItem{Marker: seq[i-1]})
				}
				last := parent.Items[len(parent.Items)-1]
				last.Children = append(last.Children, node)
			}
			stack = append(stack, node)
		}
		top := stack[len(seq)-1]
		top.Items = append(top.Items, &ListItem{Marker: seq[len(seq)-1], Element: e})
		prev = seq
	}
	return roots
}
