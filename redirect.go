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

// ParseRedirect reports the target of a "#REDIRECT [[Target]]" page. Only
// the first line counts; the keyword is matched without regard to case.
func ParseRedirect(mw string) (string, bool) {
	mw = strings.TrimLeft(mw, " \t\r\n")
	if len(mw) < 9 || strings.ToLower(mw[0:9]) != "#redirect" {
		return "", false
	}
	line := mw[9:]
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	open := strings.Index(line, "[[")
	if open < 0 || strings.Trim(line[:open], " \t:") != "" {
		return "", false
	}
	end := matchBracket(line, '[', ']', open+2)
	if end < 0 {
		return "", false
	}
	target := line[open+2 : end-2]
	if p := strings.IndexByte(target, '|'); p >= 0 {
		target = target[:p]
	}
	target = strings.TrimSpace(target)
	return target, target != ""
}

// IsDisambiguation reports whether the last parsed page called one of the
// disambiguation templates.
func (e *Expander) IsDisambiguation() bool {
	for _, t := range e.templates {
		if t.Typ != "normal" {
			continue
		}
		ln := strings.ToLower(t.Name)
		if strings.Contains(ln, "disambig") ||
			ln == "dab" ||
			ln == "geodis" ||
			ln == "hndis" ||
			ln == "hndis-cleanup" ||
			ln == "numberdis" {
			return true
		}
	}
	return false
}
