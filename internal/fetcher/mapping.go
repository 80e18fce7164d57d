package fetcher

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/jobcost-cli/internal/normalize"
)

// Mapping rewrites raw key spellings to canonical ones (task names,
// departments). Lookups are whitespace-normalized on both sides.
type Mapping map[string]string

// LoadMapping reads a raw -> canonical YAML mapping. A missing or empty path
// yields a nil mapping, not an error.
func LoadMapping(path string) (Mapping, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "mapping: read %s", path)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(err, "mapping: parse %s", path)
	}

	m := make(Mapping, len(raw))
	for k, v := range raw {
		k = normalize.Text(k)
		if k == "" {
			continue
		}
		m[k] = normalize.Text(v)
	}
	return m, nil
}

// Apply returns the mapped value for a raw spelling, or the normalized input
// when no override exists. Safe on a nil mapping.
func (m Mapping) Apply(raw string) string {
	key := normalize.Text(raw)
	if v, ok := m[key]; ok {
		return v
	}
	return key
}
