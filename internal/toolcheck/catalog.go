package toolcheck

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidCatalogFile = errors.New("toolcheck: invalid catalog file")

// Entry names one tool and the category it is reported under.
type Entry struct {
	Tool     string
	Category Category
}

// Catalog is the ordered list of tools the verifier checks. Order is
// significant: report lines come out in catalog order.
type Catalog []Entry

// DefaultCatalog returns the fixed tool set checked on every run.
func DefaultCatalog() Catalog {
	return Catalog{
		{Tool: "ps", Category: CategoryProcess},
		{Tool: "pgrep", Category: CategoryProcess},
		{Tool: "pkill", Category: CategoryProcess},
		{Tool: "kill", Category: CategoryProcess},
		{Tool: "killall", Category: CategoryProcess},
		{Tool: "htop", Category: CategoryProcess},
		{Tool: "top", Category: CategoryProcess},
		{Tool: "netstat", Category: CategoryNetwork},
		{Tool: "lsof", Category: CategoryNetwork},
		{Tool: "ss", Category: CategoryNetwork},
		{Tool: "tree", Category: CategoryFilesystem},
		{Tool: "unzip", Category: CategoryFilesystem},
		{Tool: "curl", Category: CategoryFilesystem},
		{Tool: "wget", Category: CategoryFilesystem},
	}
}

// catalogFile is the YAML shape for catalog extensions.
type catalogFile struct {
	Process    []string `yaml:"process"`
	Network    []string `yaml:"network"`
	Filesystem []string `yaml:"filesystem"`
}

// ExtendFromFile appends extra tools from a YAML file. The fixed catalog is
// never removed or reordered; duplicates are dropped so each tool is checked
// at most once. A missing file is not an error.
func (c Catalog) ExtendFromFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidCatalogFile, path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidCatalogFile, path, err)
	}

	seen := make(map[string]struct{}, len(c))
	for _, entry := range c {
		seen[entry.Tool] = struct{}{}
	}

	out := c
	appendTools := func(names []string, category Category) {
		for _, raw := range names {
			tool := strings.TrimSpace(raw)
			if tool == "" {
				continue
			}
			if _, dup := seen[tool]; dup {
				continue
			}
			seen[tool] = struct{}{}
			out = append(out, Entry{Tool: tool, Category: category})
		}
	}
	appendTools(file.Process, CategoryProcess)
	appendTools(file.Network, CategoryNetwork)
	appendTools(file.Filesystem, CategoryFilesystem)

	return out, nil
}
