package referencedata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

//go:embed data/authorities.json
var defaultAuthorities []byte

// LoadJSON reads a reference data file: an array of
// {name, website, postcode_areas, jurisdiction?} records.
func LoadJSON(r io.Reader) (*Store, error) {
	var records []AuthorityRecord
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode authority records: %w", err)
	}
	return NewStore(records)
}

// LoadFile loads a reference data file from disk.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference data: %w", err)
	}
	defer f.Close()
	return LoadJSON(f)
}

// Default returns the store built from the embedded authority table.
func Default() (*Store, error) {
	return LoadJSON(bytes.NewReader(defaultAuthorities))
}
