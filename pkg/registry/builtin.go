package registry

import (
	"fmt"
	"sort"
)

// DefaultSet is the builtin set used when nothing else is configured
const DefaultSet = "nav-v2"

var navHeaders = []string{"timestamp", "x", "y", "z", "quality"}

// builtinSets are the layouts tried against the .fmnav navigation logs.
// nav-v1 focuses on integer coordinates, nav-v2 on float and double ones.
var builtinSets = map[string][]CandidateSpec{
	"nav-v1": {
		{Name: "A_Qiii", Format: "<Qiii", Columns: []string{"timestamp", "x_i32", "y_i32", "z_i32"}},
		{Name: "B_QiiiH", Format: "<QiiiH", Columns: []string{"timestamp", "x_i32", "y_i32", "z_i32", "quality_u16"}},
		{Name: "C_QIII", Format: "<QIII", Columns: []string{"timestamp", "x_u32", "y_u32", "z_u32"}},
		{Name: "D_QhhhH", Format: "<QhhhH", Columns: []string{"timestamp", "x_i16", "y_i16", "z_i16", "quality_u16"}},
		{Name: "E_Qfff", Format: "<Qfff", Columns: []string{"timestamp", "x_f", "y_f", "z_f"}},
	},
	"nav-v2": {
		{Name: "A_Qffff", Format: "<Qffff", Columns: navHeaders},
		{Name: "B_Qddd_f", Format: "<Qddd f", Columns: []string{"timestamp", "lat", "lon", "alt", "quality"}},
		{Name: "C_BE_Qffff", Format: ">Qffff", Columns: navHeaders},
		{Name: "D_Qiii_f", Format: "<Qiii f", Columns: []string{"timestamp", "x_int", "y_int", "z_int", "quality"}},
		{Name: "E_Qfff", Format: "<Qfff", Columns: []string{"timestamp", "x", "y", "z"}},
		{Name: "F_Qdddf", Format: "<Qdddf", Columns: []string{"timestamp", "lat", "lon", "alt", "quality"}},
		{Name: "G_Iffff", Format: "<Iffff", Columns: navHeaders},
		{Name: "H_Qfffff", Format: "<Qfffff", Columns: []string{"timestamp", "x", "y", "z", "extra", "quality"}},
		{Name: "I_BE_Qfff", Format: ">Qfff", Columns: []string{"timestamp", "x", "y", "z"}},
		{Name: "J_QfffI", Format: "<QfffI", Columns: []string{"timestamp", "x", "y", "z", "id"}},
	},
}

// BuiltinSetNames lists the builtin sets in sorted order
func BuiltinSetNames() []string {
	names := make([]string, 0, len(builtinSets))
	for name := range builtinSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinSet returns a copy of the named set's specs
func BuiltinSet(name string) ([]CandidateSpec, error) {
	specs, ok := builtinSets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownSet, name, BuiltinSetNames())
	}
	return append([]CandidateSpec(nil), specs...), nil
}

// LoadBuiltin loads the named builtin set
func LoadBuiltin(name string) (*Registry, error) {
	specs, err := BuiltinSet(name)
	if err != nil {
		return nil, err
	}
	return Load(specs)
}
