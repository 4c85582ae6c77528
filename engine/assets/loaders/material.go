package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/trainyard/engine/properties"
	"github.com/spaghettifunk/trainyard/engine/renderer/metadata"
	"github.com/spaghettifunk/trainyard/engine/scene"
)

// MaterialLoader reads .amt material presets: toml files holding a name and
// any of the physical material properties.
type MaterialLoader struct{}

type materialFile struct {
	Name               string   `toml:"name"`
	Clearcoat          *float32 `toml:"clearcoat"`
	ClearcoatRoughness *float32 `toml:"clearcoat_roughness"`
	Metalness          *float32 `toml:"metalness"`
	Roughness          *float32 `toml:"roughness"`
}

func (ml *MaterialLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	preset, err := parseAMT(data)
	if err != nil {
		return nil, fmt.Errorf("invalid material preset '%s': %w", path, err)
	}
	return &metadata.Resource{
		Name:     preset.Name,
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     preset,
	}, nil
}

func parseAMT(data []byte) (*properties.Preset, error) {
	var mf materialFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&mf); err != nil {
		return nil, err
	}
	if err := validateMaterial(&mf); err != nil {
		return nil, err
	}

	preset := &properties.Preset{Name: mf.Name}
	for _, f := range []struct {
		name  string
		value *float32
	}{
		{scene.PropertyClearcoat, mf.Clearcoat},
		{scene.PropertyClearcoatRoughness, mf.ClearcoatRoughness},
		{scene.PropertyMetalness, mf.Metalness},
		{scene.PropertyRoughness, mf.Roughness},
	} {
		if f.value != nil {
			preset.Entries = append(preset.Entries, properties.Entry{Name: f.name, Value: *f.value})
		}
	}
	return preset, nil
}

func validateMaterial(mf *materialFile) error {
	if strings.TrimSpace(mf.Name) == "" {
		return fmt.Errorf("material name is required")
	}
	var errs []error
	check := func(key string, v *float32) {
		if v != nil && !inRange(*v) {
			errs = append(errs, fmt.Errorf("%s must be between 0.0 and 1.0, got %v", key, *v))
		}
	}
	check("clearcoat", mf.Clearcoat)
	check("clearcoat_roughness", mf.ClearcoatRoughness)
	check("metalness", mf.Metalness)
	check("roughness", mf.Roughness)
	return errors.Join(errs...)
}

// Check if a float32 value is within [0.0, 1.0]
func inRange(value float32) bool {
	return value >= 0.0 && value <= 1.0
}

func (ml *MaterialLoader) Unload(*metadata.Resource) error {
	return nil
}
