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

package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-m-f/wikiexpand"
	"github.com/m-m-f/wikiexpand/parserfuncs"
	"go.uber.org/zap"
)

const (
	version = "0.1.0"
	usage   = `wikiexpand - expand MediaWiki templates in wikitext

Usage:
  wikiexpand [options] [file]

Options:
  --config FILE       YAML configuration
  --templates DIR     Read templates from DIR/<Namespace>/<Page>.wiki
  --output FILE       Write to FILE instead of stdout
  --template          Render the input as a template page
  --signature-only    Only replace ~~~ signatures
  --param KEY=VALUE   Parameter for {{{KEY}}}, may be repeated
  --table             Print the table at the start of the input as JSON
  --list              Print the list at the start of the input as JSON
  --debug             Log to stderr
  -v, --version       Show version information

Input is read from stdin when no file or "-" is given.
`
)

type paramFlag map[string]string

func (p paramFlag) String() string { return fmt.Sprint(map[string]string(p)) }

func (p paramFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("parameter %q is not KEY=VALUE", s)
	}
	p[strings.TrimSpace(k)] = v
	return nil
}

type options struct {
	config        string
	templates     string
	output        string
	asTemplate    bool
	signatureOnly bool
	table         bool
	list          bool
	debug         bool
	showVersion   bool
	params        paramFlag
	args          []string
}

func parseFlags(args []string) (*options, error) {
	o := &options{params: paramFlag{}}
	fs := flag.NewFlagSet("wikiexpand", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	fs.StringVar(&o.config, "config", "", "YAML configuration")
	fs.StringVar(&o.templates, "templates", "", "template directory")
	fs.StringVar(&o.output, "output", "", "output file")
	fs.BoolVar(&o.asTemplate, "template", false, "render as template page")
	fs.BoolVar(&o.signatureOnly, "signature-only", false, "only replace signatures")
	fs.BoolVar(&o.table, "table", false, "dump table")
	fs.BoolVar(&o.list, "list", false, "dump list")
	fs.BoolVar(&o.debug, "debug", false, "debug logging")
	fs.BoolVar(&o.showVersion, "v", false, "Show version")
	fs.BoolVar(&o.showVersion, "version", false, "Show version")
	fs.Var(o.params, "param", "KEY=VALUE parameter")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.args = fs.Args()
	if len(o.args) > 1 {
		return nil, fmt.Errorf("too many arguments")
	}
	return o, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if o.showVersion {
		fmt.Printf("wikiexpand version %s\n", version)
		os.Exit(0)
	}
	if err := run(o, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func run(o *options, stdin io.Reader, stdout io.Writer) error {
	cfg := &wikiexpand.Config{}
	if o.config != "" {
		var err error
		if cfg, err = wikiexpand.LoadConfig(o.config); err != nil {
			return err
		}
	} else {
		cfg.Limits = wikiexpand.DefaultLimits
	}
	if o.templates != "" {
		cfg.TemplatesDir = o.templates
	}

	log := newLogger(o.debug || cfg.Debug)
	defer log.Sync()
	sugar := log.Sugar()

	input, err := readInput(o.args, stdin)
	if err != nil {
		return err
	}

	out := stdout
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch {
	case o.table:
		return dumpJSON(out, tableDump(input))
	case o.list:
		return dumpJSON(out, listDump(input))
	}

	model := cfg.PageModel(nil)
	model.SetLogger(log)
	if len(o.args) == 1 && o.args[0] != "-" {
		model.Title = strings.TrimSuffix(filepath.Base(o.args[0]), ".wiki")
	}
	parserfuncs.Register(model)

	e := wikiexpand.New(model, cfg.Options(log)...)
	text := e.Parse(input, o.signatureOnly, o.asTemplate, o.params)
	sugar.Debugw("expanded", "bytes_in", len(input), "bytes_out", len(text), "templates", len(e.Templates()))
	if e.IsDisambiguation() {
		sugar.Infow("page is a disambiguation page")
	}
	_, err = io.WriteString(out, text)
	return err
}

func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(b), nil
}

func dumpJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(v)
}

type cellJSON struct {
	Type    string   `json:"type"`
	Attrs   string   `json:"attrs,omitempty"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

type rowJSON struct {
	Params  string     `json:"params,omitempty"`
	Caption bool       `json:"caption,omitempty"`
	Cells   []cellJSON `json:"cells"`
}

type tableJSON struct {
	Params string    `json:"params"`
	Rows   []rowJSON `json:"rows"`
}

func tableDump(src string) *tableJSON {
	t := wikiexpand.ScanTable(src, 0)
	if t == nil {
		return nil
	}
	out := &tableJSON{Params: strings.TrimSpace(t.Params)}
	for _, r := range t.Rows {
		row := rowJSON{Params: strings.TrimSpace(r.Params), Caption: r.Caption}
		for _, c := range r.Cells {
			attrs, content := c.Split()
			cell := cellJSON{Type: c.Type.String(), Attrs: attrs, Content: strings.TrimSpace(content)}
			for _, tag := range c.Tags() {
				cell.Tags = append(cell.Tags, tag.Name())
			}
			row.Cells = append(row.Cells, cell)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

type itemJSON struct {
	Marker   string     `json:"marker"`
	Text     string     `json:"text,omitempty"`
	Children []listJSON `json:"children,omitempty"`
}

type listJSON struct {
	Kind  string     `json:"kind"`
	Items []itemJSON `json:"items"`
}

func listDump(src string) []listJSON {
	l := wikiexpand.ScanList(src, 0)
	if l == nil {
		return nil
	}
	return nodesJSON(l.Nest())
}

func nodesJSON(nodes []*wikiexpand.ListNode) []listJSON {
	out := make([]listJSON, 0, len(nodes))
	for _, n := range nodes {
		lj := listJSON{Kind: string(n.Kind)}
		for _, it := range n.Items {
			ij := itemJSON{Marker: string(it.Marker), Children: nodesJSON(it.Children)}
			if it.Element != nil {
				ij.Text = it.Element.Text()
			}
			lj.Items = append(lj.Items, ij)
		}
		out = append(out, lj)
	}
	return out
}
