package registry

import (
	"strings"

	"github.com/ssargent/recprobe/pkg/codec"
)

// CandidateSpec is the configuration-table form of a candidate descriptor.
// Either Format (with Columns) or Fields describes the layout.
type CandidateSpec struct {
	Name      string       `yaml:"name" toml:"name" json:"name"`
	Format    string       `yaml:"format,omitempty" toml:"format,omitempty" json:"format,omitempty"`
	Columns   []string     `yaml:"columns,omitempty" toml:"columns,omitempty" json:"columns,omitempty"`
	ByteOrder string       `yaml:"byte_order,omitempty" toml:"byte_order,omitempty" json:"byte_order,omitempty"`
	Fields    []FieldEntry `yaml:"fields,omitempty" toml:"fields,omitempty" json:"fields,omitempty"`
	Notes     string       `yaml:"notes,omitempty" toml:"notes,omitempty" json:"notes,omitempty"`
}

// FieldEntry is one explicit field. Kind is kept as text so that an unknown
// kind rejects only its own candidate, not the whole table.
type FieldEntry struct {
	Name  string `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Kind  string `yaml:"kind" toml:"kind" json:"kind"`
	Width int    `yaml:"width" toml:"width" json:"width"`
}

// Build validates the spec and returns its descriptor
func (s CandidateSpec) Build() (codec.RecordDescriptor, error) {
	name := strings.TrimSpace(s.Name)
	order, err := codec.ParseByteOrder(s.ByteOrder)
	if err != nil {
		return codec.RecordDescriptor{}, codec.Malformed(name, "%v", err)
	}

	hasFormat := strings.TrimSpace(s.Format) != ""
	switch {
	case hasFormat && len(s.Fields) > 0:
		return codec.RecordDescriptor{}, codec.Malformed(name, "both format and fields are set")
	case hasFormat:
		return parseFormat(name, s.Format, s.Columns, order)
	}

	fields := make([]codec.FieldSpec, 0, len(s.Fields))
	for i, f := range s.Fields {
		kind, err := codec.ParseFieldKind(f.Kind)
		if err != nil {
			return codec.RecordDescriptor{}, codec.Malformed(name, "field %d: %v", i, err)
		}
		fields = append(fields, codec.FieldSpec{Name: strings.TrimSpace(f.Name), Kind: kind, Width: f.Width})
	}
	return codec.NewRecordDescriptor(name, order, fields...)
}

// SpecFromDescriptor converts a descriptor back into its table form, padding
// included as unnamed pad entries
func SpecFromDescriptor(desc codec.RecordDescriptor) CandidateSpec {
	spec := CandidateSpec{
		Name:      desc.Name(),
		ByteOrder: desc.Order().String(),
	}
	for _, f := range desc.Slots() {
		spec.Fields = append(spec.Fields, FieldEntry{Name: f.Name, Kind: f.Kind.String(), Width: f.Width})
	}
	return spec
}
