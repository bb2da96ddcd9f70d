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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of the expander and its page model.
type Config struct {
	Limits Limits `yaml:"limits"`
	// Namespaces adds namespace aliases to the standard table.
	Namespaces map[string]string `yaml:"namespaces"`
	Signature  struct {
		User       string `yaml:"user"`
		TimeFormat string `yaml:"time_format"`
	} `yaml:"signature"`
	SiteName     string `yaml:"site_name"`
	TemplatesDir string `yaml:"templates_dir"`
	Debug        bool   `yaml:"debug"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration. Unknown keys are an error and
// missing limits take their defaults.
func ParseConfig(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.Limits = c.Limits.withDefaults()
	return &c, nil
}

// PageModel builds a page model from the configuration. A nil getter reads
// TemplatesDir when it is set.
func (c *Config) PageModel(g PageGetter) *PageModel {
	if g == nil && c.TemplatesDir != "" {
		g = &DirPageGetter{Root: c.TemplatesDir}
	}
	m := NewPageModel(g)
	m.Namespaces = StandardNamespaces.Merge(c.Namespaces)
	m.User = c.Signature.User
	if c.Signature.TimeFormat != "" {
		m.TimeFormat = c.Signature.TimeFormat
	}
	m.SiteName = c.SiteName
	return m
}

// Options returns the expander options carried by the configuration.
func (c *Config) Options(log *zap.Logger) []Option {
	return []Option{WithLimits(c.Limits), WithLogger(log)}
}
