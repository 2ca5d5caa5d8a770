package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Dataset names one capture file.
type Dataset struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// ErrDuplicateDataset is returned when two datasets share a name.
var ErrDuplicateDataset = errors.New("duplicate dataset name")

// ParseDataset parses a "name=path" argument. A bare path uses the file's
// base name without extension as the dataset name.
func ParseDataset(arg string) (Dataset, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Dataset{}, errors.New("empty dataset argument")
	}
	if name, path, ok := strings.Cut(arg, "="); ok {
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if name == "" || path == "" {
			return Dataset{}, fmt.Errorf("invalid dataset %q: want name=path", arg)
		}
		return Dataset{Name: name, Path: path}, nil
	}
	base := arg[strings.LastIndexAny(arg, `/\`)+1:]
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		return Dataset{}, fmt.Errorf("invalid dataset %q: no file name", arg)
	}
	return Dataset{Name: base, Path: arg}, nil
}

// Slug returns a lowercase file- and topic-safe form of the dataset name,
// e.g. "Occupied (Still)" becomes "occupied_still".
func (d Dataset) Slug() string {
	return Slugify(d.Name)
}

// Slugify lowercases s and collapses every run of characters that are not
// letters or digits into a single underscore.
func Slugify(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	if b.Len() == 0 {
		return "dataset"
	}
	return b.String()
}

func checkUnique(datasets []Dataset) error {
	seen := make(map[string]struct{}, len(datasets))
	for _, ds := range datasets {
		if _, ok := seen[ds.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateDataset, ds.Name)
		}
		seen[ds.Name] = struct{}{}
	}
	return nil
}
