package probe

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/recprobe/pkg/registry"
)

// Catalog resolves candidate set names to registries. Builtin sets are always
// available; candidate table files are added under their base name without
// extension. Names of the form sweep-<block>[-<codes>] resolve to an offset
// sweep over blocks of that size.
type Catalog struct {
	defaultSet string
	tables     map[string]string
	logger     logrus.FieldLogger
}

// NewCatalog creates a catalog whose default set is defaultSet, or the
// builtin default when empty
func NewCatalog(defaultSet string, logger logrus.FieldLogger) *Catalog {
	if defaultSet == "" {
		defaultSet = registry.DefaultSet
	}
	return &Catalog{
		defaultSet: defaultSet,
		tables:     make(map[string]string),
		logger:     logger,
	}
}

// AddTable registers a YAML or TOML candidate table and returns its set name
func (c *Catalog) AddTable(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	c.tables[name] = path
	return name
}

// SetDefault changes the set used when none is requested
func (c *Catalog) SetDefault(name string) { c.defaultSet = name }

// DefaultSet returns the set used when none is requested
func (c *Catalog) DefaultSet() string { return c.defaultSet }

// Sets lists every resolvable set name in sorted order
func (c *Catalog) Sets() []string {
	names := registry.BuiltinSetNames()
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry loads the named set, or the default set when name is empty.
// Malformed candidates do not fail the call: they are kept as rejected
// entries in the registry and logged.
func (c *Catalog) Registry(name string) (*registry.Registry, error) {
	if name == "" {
		name = c.defaultSet
	}

	if path, ok := c.tables[name]; ok {
		reg, err := registry.LoadTable(path)
		if reg == nil {
			return nil, err
		}
		c.logRejected(name, reg)
		return reg, nil
	}

	if blockSize, codes, ok := registry.ParseSweepSet(name); ok {
		c.logger.WithFields(logrus.Fields{
			"set":        name,
			"block_size": blockSize,
		}).Debug("generating offset sweep")
		return registry.LoadSweep(blockSize, codes)
	}

	reg, err := registry.LoadBuiltin(name)
	if reg == nil {
		return nil, err
	}
	c.logRejected(name, reg)
	return reg, nil
}

func (c *Catalog) logRejected(set string, reg *registry.Registry) {
	for _, e := range reg.Failures() {
		c.logger.WithFields(logrus.Fields{
			"set":       set,
			"candidate": e.Name,
		}).WithError(e.Err).Warn("rejected malformed candidate")
	}
}
