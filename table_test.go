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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cellDump struct {
	Type CellType
	Text string
}

func dumpRows(t *Table) [][]cellDump {
	var out [][]cellDump
	for _, r := range t.Rows {
		row := []cellDump{}
		for _, c := range r.Cells {
			row = append(row, cellDump{c.Type, c.Text()})
		}
		out = append(out, row)
	}
	return out
}

func TestScanTable(t *testing.T) {
	src := strings.Join([]string{
		`{| class="t"`,
		`|+ Cap`,
		`|-`,
		`! H1 !! H2`,
		`|-`,
		`| a || b`,
		`| style="x" | c`,
		`|}`,
		`rest`,
	}, "\n")
	tbl := ScanTable(src, 0)
	require.NotNil(t, tbl)
	assert.Equal(t, ` class="t"`, tbl.Params)
	assert.Equal(t, "\nrest", src[tbl.End:])

	want := [][]cellDump{
		{{CellCaption, " Cap"}},
		{{CellHeader, " H1 "}, {CellHeader, " H2"}},
		{{CellData, " a "}, {CellData, " b"}, {CellData, ` style="x" | c`}},
	}
	if diff := cmp.Diff(want, dumpRows(tbl)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, tbl.Rows[0].Caption)
	assert.True(t, tbl.Rows[1].HasParams)

	attrs, content := tbl.Rows[2].Cells[2].Split()
	assert.Equal(t, `style="x"`, attrs)
	assert.Equal(t, " c", content)

	attrs, content = tbl.Rows[2].Cells[0].Split()
	assert.Equal(t, "", attrs)
	assert.Equal(t, " a ", content)
}

func TestScanTableKeepsEmptyRowWithParams(t *testing.T) {
	tbl := ScanTable("{|\n|- class=x\n|-\n| a\n|}", 0)
	require.NotNil(t, tbl)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, " class=x", tbl.Rows[0].Params)
	assert.Empty(t, tbl.Rows[0].Cells)
	assert.True(t, tbl.Rows[1].HasParams)
	assert.Len(t, tbl.Rows[1].Cells, 1)
}

func TestScanTableNested(t *testing.T) {
	src := "{|\n| outer\n{|\n| inner\n|}\n| next\n|}"
	tbl := ScanTable(src, 0)
	require.NotNil(t, tbl)
	assert.Equal(t, len(src), tbl.End)
	require.Len(t, tbl.Rows, 1)
	cells := tbl.Rows[0].Cells
	require.Len(t, cells, 2)
	assert.Equal(t, " outer\n{|\n| inner\n|}", cells[0].Text())
	assert.Equal(t, " next", cells[1].Text())
}

func TestScanTableUnterminated(t *testing.T) {
	src := "{|\n| a\n|-\n| b"
	tbl := ScanTable(src, 0)
	require.NotNil(t, tbl)
	assert.Equal(t, len(src), tbl.End)
	want := [][]cellDump{
		{{CellData, " a"}},
		{{CellData, " b"}},
	}
	if diff := cmp.Diff(want, dumpRows(tbl)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestScanTableUndefinedCell(t *testing.T) {
	tbl := ScanTable("{|\ntext\n|}", 0)
	require.NotNil(t, tbl)
	want := [][]cellDump{{{CellUndefined, "text"}}}
	assert.Equal(t, want, dumpRows(tbl))
}

func TestScanTableNotATable(t *testing.T) {
	assert.Nil(t, ScanTable("| a", 0))
	assert.Nil(t, ScanTable("{", 0))
	assert.Nil(t, ScanTable("{|", 5))
}

func TestIndexEndOfTable(t *testing.T) {
	src := "{|\n<!-- \n|} -->\n<nowiki>\n|}</nowiki>\n|}x"
	assert.Equal(t, len(src)-1, indexEndOfTable(src, 2))
	assert.Equal(t, -1, indexEndOfTable("{|\n| a", 2))
}

func TestCellTags(t *testing.T) {
	tbl := ScanTable("{|\n| <span class=\"a\">x</span> <br/>\n|}", 0)
	require.NotNil(t, tbl)
	tags := tbl.Rows[0].Cells[0].Tags()
	require.Len(t, tags, 2)
	assert.Equal(t, "span", tags[0].Name())
	assert.Equal(t, "a", tags[0].Params()["class"])
	assert.Equal(t, "br", tags[1].Name())
}
