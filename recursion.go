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

// Limits bound the work done for one top level parse.
type Limits struct {
	// ParserRecursion is the deepest allowed nesting of expansion calls.
	ParserRecursion int `yaml:"parser_recursion"`
	// TemplateRecursion caps the number of expansion calls in one parse.
	TemplateRecursion int `yaml:"template_recursion"`
	// TemplateValue is the largest parameter value that gets substituted.
	TemplateValue int `yaml:"template_value"`
	// TemplateBuffer is the size at which parameter substitution stops.
	TemplateBuffer int `yaml:"template_buffer"`
}

// DefaultLimits are used for every field left at zero.
var DefaultLimits = Limits{
	ParserRecursion:   32,
	TemplateRecursion: 10000,
	TemplateValue:     64000,
	TemplateBuffer:    128000,
}

func (l Limits) withDefaults() Limits {
	if l.ParserRecursion <= 0 {
		l.ParserRecursion = DefaultLimits.ParserRecursion
	}
	if l.TemplateRecursion <= 0 {
		l.TemplateRecursion = DefaultLimits.TemplateRecursion
	}
	if l.TemplateValue <= 0 {
		l.TemplateValue = DefaultLimits.TemplateValue
	}
	if l.TemplateBuffer <= 0 {
		l.TemplateBuffer = DefaultLimits.TemplateBuffer
	}
	return l
}

// RecursionContext tracks nesting depth and the number of expansion calls
// of one top level parse. Each parse and each followed redirect gets a fresh
// context.
type RecursionContext struct {
	depth     int
	count     int
	redirects int
	exhausted bool
}

// IncrementDepth enters one nesting level and returns the new depth.
func (c *RecursionContext) IncrementDepth() int {
	c.depth++
	return c.depth
}

// DecrementDepth leaves one nesting level.
func (c *RecursionContext) DecrementDepth() {
	if c.depth > 0 {
		c.depth--
	}
}

// IncrementCount records one more expansion call and returns the total.
func (c *RecursionContext) IncrementCount() int {
	c.count++
	return c.count
}

func (c *RecursionContext) Depth() int { return c.depth }

func (c *RecursionContext) Count() int { return c.count }
