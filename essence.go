package ucum

import (
	"bytes"
	_ "embed"
	"io"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed essence.yaml
var essenceYAML []byte

// Dataset is the serialised form of a registry.
type Dataset struct {
	Version      string      `yaml:"version"`
	RevisionDate string      `yaml:"revisionDate"`
	Prefixes     []PrefixDef `yaml:"prefixes"`
	BaseUnits    []UnitDef   `yaml:"base"`
	Units        []UnitDef   `yaml:"units"`
}

// LoadDataset decodes a YAML dataset. Unknown fields are rejected.
func LoadDataset(r io.Reader) (*Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, errors.Wrap(err, "decoding dataset")
	}
	return &ds, nil
}

// Registry builds a registry from the dataset.
func (ds *Dataset) Registry() (*Registry, error) {
	units := make([]UnitDef, 0, len(ds.BaseUnits)+len(ds.Units))
	for _, u := range ds.BaseUnits {
		if u.Dim == "" {
			u.Dim = u.Code
		}
		units = append(units, u)
	}
	for _, u := range ds.Units {
		if u.Dim != "" {
			return nil, errors.Errorf("unit %q: only base units have a dimension", u.Code)
		}
		units = append(units, u)
	}
	ident := Identification{Version: ds.Version, RevisionDate: ds.RevisionDate}
	return NewRegistry(ident, ds.Prefixes, units)
}

// LoadRegistry decodes a YAML dataset and builds a registry from it.
func LoadRegistry(r io.Reader) (*Registry, error) {
	ds, err := LoadDataset(r)
	if err != nil {
		return nil, err
	}
	return ds.Registry()
}

var essence = sync.OnceValues(func() (*Registry, error) {
	return LoadRegistry(bytes.NewReader(essenceYAML))
})

// Essence returns the registry of the UCUM essence dataset embedded in
// the package. It is built on first use and shared afterwards.
// Essence panics if the embedded dataset is invalid.
func Essence() *Registry {
	r, err := essence()
	if err != nil {
		panic(errors.Wrap(err, "ucum: embedded essence"))
	}
	return r
}
