package prompts

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/support-triage/internal/category"
)

var ErrUnknownCategory = errors.New("unknown category")

// #region catalog

// Catalog is the full set of prompts used by the processor.
type Catalog struct {
	System       string
	Instructions map[category.Category]string

	classification *template.Template
	response       *template.Template
}

// catalogFile is the YAML shape of a prompt override file. Empty fields keep defaults.
type catalogFile struct {
	System         string            `yaml:"system"`
	Classification string            `yaml:"classification"`
	Response       string            `yaml:"response"`
	Instructions   map[string]string `yaml:"instructions"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := build(SystemPrompt, ClassificationTemplate, ResponseTemplate, category.Instructions)
	if err != nil {
		panic("prompts: default templates: " + err.Error())
	}
	return c
}

// LoadFile reads a YAML override file on top of the defaults.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("prompts %s: %w", path, err)
	}
	return c, nil
}

// Parse applies YAML overrides to the default catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	system := orDefault(f.System, SystemPrompt)
	classification := orDefault(f.Classification, ClassificationTemplate)
	response := orDefault(f.Response, ResponseTemplate)

	instructions := make(map[category.Category]string, len(category.Instructions))
	for k, v := range category.Instructions {
		instructions[k] = v
	}
	for name, text := range f.Instructions {
		c := category.Category(name)
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
		if strings.TrimSpace(text) != "" {
			instructions[c] = text
		}
	}

	return build(system, classification, response, instructions)
}

func build(system, classification, response string, instructions map[category.Category]string) (*Catalog, error) {
	ct, err := template.New("classification").Option("missingkey=error").Parse(classification)
	if err != nil {
		return nil, fmt.Errorf("classification template: %w", err)
	}
	rt, err := template.New("response").Option("missingkey=error").Parse(response)
	if err != nil {
		return nil, fmt.Errorf("response template: %w", err)
	}
	return &Catalog{
		System:         system,
		Instructions:   instructions,
		classification: ct,
		response:       rt,
	}, nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// #endregion catalog

// #region render

// Classification renders the classification prompt for the given categories.
func (c *Catalog) Classification(categories []category.Category, emailData string) (string, error) {
	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = string(cat)
	}
	var b strings.Builder
	err := c.classification.Execute(&b, struct {
		Categories string
		EmailData  string
	}{strings.Join(names, ", "), emailData})
	if err != nil {
		return "", fmt.Errorf("render classification prompt: %w", err)
	}
	return b.String(), nil
}

// Response renders the reply prompt for a classified email.
func (c *Catalog) Response(cat category.Category, emailData string) (string, error) {
	instruction, ok := c.Instructions[cat]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	var b strings.Builder
	err := c.response.Execute(&b, struct {
		Classification string
		Instruction    string
		EmailData      string
	}{string(cat), instruction, emailData})
	if err != nil {
		return "", fmt.Errorf("render response prompt: %w", err)
	}
	return b.String(), nil
}

// #endregion render
