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

package parserfuncs

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/m-m-f/wikiexpand"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Casers keep state and must not be shared between goroutines.
func upper() cases.Caser { return cases.Upper(language.Und) }

func lower() cases.Caser { return cases.Lower(language.Und) }

func UC(call *wikiexpand.FunctionCall) (string, bool) {
	return upper().String(call.Arg(0)), true
}

func LC(call *wikiexpand.FunctionCall) (string, bool) {
	return lower().String(call.Arg(0)), true
}

func UCFirst(call *wikiexpand.FunctionCall) (string, bool) {
	return mapFirst(upper(), call.Arg(0)), true
}

func LCFirst(call *wikiexpand.FunctionCall) (string, bool) {
	return mapFirst(lower(), call.Arg(0)), true
}

// mapFirst applies c to the first rune of s only.
func mapFirst(c cases.Caser, s string) string {
	if s == "" {
		return s
	}
	_, n := utf8.DecodeRuneInString(s)
	return c.String(s[:n]) + s[n:]
}

// URLEncode encodes its argument for a query string; spaces become '+'.
func URLEncode(call *wikiexpand.FunctionCall) (string, bool) {
	return url.QueryEscape(call.Arg(0)), true
}

var anchorReplacer = strings.NewReplacer("%3A", ":", "%", ".")

// AnchorEncode produces the legacy dotted anchor form: "Über uns" becomes
// ".C3.9Cber_uns".
func AnchorEncode(call *wikiexpand.FunctionCall) (string, bool) {
	s := strings.ReplaceAll(call.Arg(0), " ", "_")
	return anchorReplacer.Replace(url.QueryEscape(s)), true
}

// LocalURL implements {{localurl: page}} and {{localurl: page | query}}.
func LocalURL(call *wikiexpand.FunctionCall) (string, bool) {
	title := mapFirst(upper(), strings.ReplaceAll(call.Arg(0), " ", "_"))
	if len(call.Args) < 2 {
		return "/wiki/" + url.PathEscape(title), true
	}
	query := make([]string, 0, len(call.Args)-1)
	for i := 1; i < len(call.Args); i++ {
		if q := call.Arg(i); q != "" {
			query = append(query, q)
		}
	}
	u := "/w/index.php?title=" + url.QueryEscape(title)
	if len(query) > 0 {
		u += "&" + strings.Join(query, "&")
	}
	return u, true
}
