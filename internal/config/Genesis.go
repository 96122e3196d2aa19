package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/elys-network/bondstake/internal/types"
)

// LoadGenesis reads a YAML (or JSON) genesis file. Decimals and big integers must be quoted.
func LoadGenesis(path string) (types.Genesis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Genesis{}, fmt.Errorf("read genesis: %w", err)
	}
	return ParseGenesis(raw)
}

// ParseGenesis decodes a YAML genesis. The document goes through JSON so that the SDK math and coin
// types decode with their own JSON codecs.
func ParseGenesis(raw []byte) (types.Genesis, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return types.Genesis{}, fmt.Errorf("parse genesis: %w", err)
	}
	bz, err := json.Marshal(doc)
	if err != nil {
		return types.Genesis{}, fmt.Errorf("convert genesis: %w", err)
	}
	var gen types.Genesis
	if err := json.Unmarshal(bz, &gen); err != nil {
		return types.Genesis{}, fmt.Errorf("decode genesis: %w", err)
	}
	return gen, nil
}
