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

type CellType int

const (
	CellData CellType = iota
	CellHeader
	CellCaption
	// CellUndefined holds text of a row that no cell marker opened.
	CellUndefined
)

func (t CellType) String() string {
	switch t {
	case CellHeader:
		return "th"
	case CellCaption:
		return "caption"
	case CellUndefined:
		return "undefined"
	}
	return "td"
}

// Cell is a span of a table. Start and End are offsets into the scanned
// text.
type Cell struct {
	Type       CellType
	Start, End int

	src  string
	tags []*TagNode
	done bool
}

// Text returns the raw cell content, attributes included.
func (c *Cell) Text() string { return c.src[c.Start:c.End] }

// Split separates "attrs | content". Without an attribute part attrs is
// empty and content is the whole cell.
func (c *Cell) Split() (attrs, content string) {
	i := indexOfAttributes(c.src, c.Start, c.End)
	if i < 0 {
		return "", c.Text()
	}
	return strings.TrimSpace(c.src[c.Start:i]), c.src[i+1 : c.End]
}

// Tags returns the start tags in the cell, scanned on first use.
func (c *Cell) Tags() []*TagNode {
	if !c.done {
		c.tags = scanTags(c.src, c.Start, c.End)
		c.done = true
	}
	return c.tags
}

type Row struct {
	// Params is the text after "|-"; HasParams tells an empty "|-" from no
	// marker at all.
	Params    string
	HasParams bool
	Caption   bool
	Cells     []*Cell
}

type Table struct {
	Params string
	Rows   []*Row
	// End is the offset just past the table.
	End int
}

type tableScanner struct {
	src   string
	pos   int
	table *Table
	row   *Row
	cell  *Cell
}

// ScanTable scans the table that starts with "{|" at pos. It returns nil
// when no table starts there. An unterminated table runs to the end of src.
func ScanTable(src string, pos int) *Table {
	if pos < 0 || pos > len(src) || !strings.HasPrefix(src[pos:], "{|") {
		return nil
	}
	s := &tableScanner{src: src, pos: pos + 2, table: &Table{}, row: &Row{}}
	return s.scan()
}

func (s *tableScanner) nextNewline() int {
	if i := strings.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
		return s.pos + i
	}
	return len(s.src)
}

func (s *tableScanner) openCell(typ CellType, start int) {
	s.cell = &Cell{Type: typ, Start: start, End: start, src: s.src}
	s.row.Cells = append(s.row.Cells, s.cell)
}

func (s *tableScanner) closeCell(end int) {
	if s.cell != nil {
		s.cell.End = end
		s.cell = nil
	}
}

// addRow keeps the current row if it has parameters or cells and starts a
// new one.
func (s *tableScanner) addRow() {
	if s.row.HasParams || len(s.row.Cells) > 0 {
		s.table.Rows = append(s.table.Rows, s.row)
	}
	s.row = &Row{}
}

func (s *tableScanner) scan() *Table {
	src := s.src
	end := s.nextNewline()
	s.table.Params = src[s.pos:end]
	s.pos = end
	for s.pos < len(src) {
		ch := src[s.pos]
		s.pos++
		switch ch {
		case '\n':
			if s.lineStart(s.pos - 1) {
				return s.table
			}
		case '|', '!':
			if at(src, s.pos, ch) {
				s.closeCell(s.pos - 1)
				s.pos++
				if ch == '|' {
					s.openCell(CellData, s.pos)
				} else {
					s.openCell(CellHeader, s.pos)
				}
			}
		default:
			if s.cell == nil {
				s.openCell(CellUndefined, s.pos-1)
			}
		}
	}
	s.closeCell(len(src))
	s.addRow()
	s.table.End = len(src)
	return s.table
}

// lineStart handles the markers at the start of a line. nl is the offset
// of the line break. It reports true when the table ended.
func (s *tableScanner) lineStart(nl int) bool {
	src := s.src
	for at(src, s.pos, ' ') || at(src, s.pos, '\t') {
		s.pos++
	}
	if s.pos >= len(src) {
		return false
	}
	switch src[s.pos] {
	case '|':
		s.closeCell(nl)
		s.pos++
		if s.pos >= len(src) {
			return false
		}
		switch src[s.pos] {
		case '-':
			s.pos++
			s.addRow()
			end := s.nextNewline()
			s.row.Params = src[s.pos:end]
			s.row.HasParams = true
			s.pos = end
		case '+':
			s.pos++
			s.addRow()
			s.row.Caption = true
			s.openCell(CellCaption, s.pos)
			end := s.nextNewline()
			s.closeCell(end)
			s.addRow()
			s.pos = end
		case '}':
			s.pos++
			s.addRow()
			s.table.End = s.pos
			return true
		default:
			s.openCell(CellData, s.pos)
		}
	case '!':
		s.closeCell(nl)
		s.pos++
		s.openCell(CellHeader, s.pos)
	case '{':
		if !at(src, s.pos+1, '|') {
			return false
		}
		if s.cell == nil {
			s.openCell(CellUndefined, s.pos)
		}
		if end := indexEndOfTable(src, s.pos+2); end >= 0 {
			s.pos = end
		} else {
			s.pos = len(src)
		}
	}
	return false
}

// indexEndOfTable returns the offset past the "|}" closing a nested table
// whose "{|" ends just before pos, or -1. Comments and nowiki blocks are
// skipped.
func indexEndOfTable(src string, pos int) int {
	count := 1
	for pos < len(src) {
		ch := src[pos]
		pos++
		switch {
		case ch == '<' && strings.HasPrefix(src[pos:], "!--"):
			i := strings.Index(src[pos+3:], "-->")
			if i < 0 {
				return -1
			}
			pos += 3 + i + 3
		case ch == '<' && strings.HasPrefix(src[pos:], "nowiki>"):
			i := strings.Index(src[pos:], "</nowiki>")
			if i < 0 {
				return -1
			}
			pos += i + len("</nowiki>")
		case ch == '\n' && strings.HasPrefix(src[pos:], "{|"):
			count++
		case ch == '\n':
			j := pos
			for at(src, j, ' ') || at(src, j, '\t') {
				j++
			}
			if at(src, j, '|') && at(src, j+1, '}') {
				count--
				if count == 0 {
					return j + 2
				}
			}
		}
	}
	return -1
}

// indexOfAttributes returns the offset of the '|' ending the attribute part
// of a cell, or -1. Links and templates are skipped; "||" and line breaks
// mean there is no attribute part.
func indexOfAttributes(src string, pos, end int) int {
	for pos < end {
		switch src[pos] {
		case '[', '{':
			open := src[pos]
			close := byte(']')
			if open == '{' {
				close = '}'
			}
			level := 1
			pos++
			for level > 0 {
				if pos >= end {
					return -1
				}
				switch src[pos] {
				case open:
					level++
				case close:
					level--
				}
				pos++
			}
			continue
		case '|':
			if at(src, pos+1, '|') {
				return -1
			}
			return pos
		case '\n':
			return -1
		}
		pos++
	}
	return -1
}

// scanTags collects the start tags found in src[start:end].
func scanTags(src string, start, end int) []*TagNode {
	var tags []*TagNode
	span := src[:end]
	for pos := start; pos < end; pos++ {
		if span[pos] != '<' || at(span, pos+1, '/') || at(span, pos+1, '!') {
			continue
		}
		if t := ScanTag(span, pos+1); t != nil && t.Name() != "" {
			tags = append(tags, t)
			pos = t.End - 1
		}
	}
	return tags
}
