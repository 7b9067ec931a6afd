// Package language resolves report languages from a small YAML catalog.
package language

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var embedded []byte

var ErrUnknown = errors.New("language: unrecognized language")

// Language is one selectable report language.
type Language struct {
	Tag     string `yaml:"tag" json:"tag"`
	Label   string `yaml:"label" json:"label"`
	Name    string `yaml:"name" json:"name"`
	FileTag string `yaml:"file_tag" json:"file_tag"`
	Native  bool   `yaml:"native" json:"native"`
}

// Catalog is an ordered set of languages with exactly one native entry.
type Catalog struct {
	langs  []Language
	native Language
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("language: embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog from path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read language catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog.
func Parse(raw []byte) (*Catalog, error) {
	var doc struct {
		Languages []Language `yaml:"languages"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse language catalog: %w", err)
	}
	c := &Catalog{}
	natives := 0
	for _, l := range doc.Languages {
		l.Tag = strings.TrimSpace(l.Tag)
		if l.Tag == "" {
			return nil, fmt.Errorf("parse language catalog: entry without tag")
		}
		if l.Name == "" {
			l.Name = l.Tag
		}
		if l.FileTag == "" {
			l.FileTag = l.Tag
		}
		if l.Native {
			natives++
			c.native = l
		}
		c.langs = append(c.langs, l)
	}
	if natives != 1 {
		return nil, fmt.Errorf("parse language catalog: want exactly one native language, got %d", natives)
	}
	return c, nil
}

// Native returns the source language of authored and audited reports.
func (c *Catalog) Native() Language { return c.native }

// All returns the languages in catalog order.
func (c *Catalog) All() []Language { return append([]Language(nil), c.langs...) }

// Lookup finds a language by tag, label or name, case-insensitively.
// An empty key means the native language.
func (c *Catalog) Lookup(key string) (Language, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return c.native, nil
	}
	for _, l := range c.langs {
		if strings.EqualFold(key, l.Tag) || strings.EqualFold(key, l.Label) || strings.EqualFold(key, l.Name) {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("%w: %q", ErrUnknown, key)
}
