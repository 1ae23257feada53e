package catalog

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Split names used in logs and the ledger.
const (
	SplitTraining   = "training"
	SplitValidation = "validation"
)

type prefixPair struct {
	Audio string `yaml:"audio"`
	Label string `yaml:"label"`
}

// Layout holds the naming templates for archives and directories.
type Layout struct {
	AudioDir     string                `yaml:"audio_dir"`
	LabelDir     string                `yaml:"label_dir"`
	AudioArchive string                `yaml:"audio_archive"`
	LabelArchive string                `yaml:"label_archive"`
	Prefixes     map[string]prefixPair `yaml:"prefixes"`
}

// Catalog is the decoded dataset catalog.
type Catalog struct {
	Layout Layout              `yaml:"layout"`
	Groups map[string][]string `yaml:"groups"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog. It panics if the embedded YAML is
// malformed, which would be a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("catalog: embedded catalog invalid: %v", defaultErr))
	}
	return defaultCatalog
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for _, split := range []string{SplitTraining, SplitValidation} {
		p, ok := c.Layout.Prefixes[split]
		if !ok || p.Audio == "" || p.Label == "" {
			return nil, fmt.Errorf("catalog: layout.prefixes.%s must define audio and label", split)
		}
	}
	if c.Layout.AudioDir == "" || c.Layout.LabelDir == "" {
		return nil, fmt.Errorf("catalog: layout directories must be set")
	}
	return &c, nil
}

// GroupNames returns the named groups in sorted order.
func (c *Catalog) GroupNames() []string {
	names := make([]string, 0, len(c.Groups))
	for name := range c.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expand resolves a data-sets selector. An exact group name expands to its
// categories; anything else is a comma-separated category list.
func (c *Catalog) Expand(selector string) []string {
	selector = strings.TrimSpace(selector)
	if group, ok := c.Groups[selector]; ok {
		return append([]string(nil), group...)
	}
	var out []string
	for _, part := range strings.Split(selector, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Spec identifies one category within one split.
type Spec struct {
	Category string
	Training bool
}

// Split returns the split name for the spec.
func (s Spec) Split() string {
	if s.Training {
		return SplitTraining
	}
	return SplitValidation
}

// Paths are the four locations derived for a Spec.
type Paths struct {
	AudioArchive string
	LabelArchive string
	AudioDir     string
	LabelDir     string
}

// Paths derives archive and extraction directories under root.
func (c *Catalog) Paths(root string, spec Spec) Paths {
	prefix := c.Layout.Prefixes[spec.Split()]
	audioBase := filepath.Join(root, c.Layout.AudioDir)
	labelBase := filepath.Join(root, c.Layout.LabelDir)
	return Paths{
		AudioArchive: filepath.Join(audioBase, render(c.Layout.AudioArchive, prefix.Audio, spec.Category)),
		LabelArchive: filepath.Join(labelBase, render(c.Layout.LabelArchive, prefix.Label, spec.Category)),
		AudioDir:     filepath.Join(audioBase, prefix.Audio+spec.Category),
		LabelDir:     filepath.Join(labelBase, prefix.Label+spec.Category),
	}
}

func render(template, prefix, category string) string {
	return strings.NewReplacer("{prefix}", prefix, "{category}", category).Replace(template)
}
