package tuple

import (
	"github.com/strataorm/strata"
)

// Dynamic is a map-backed entity instance for entity types with no
// registered Go struct.
type Dynamic map[string]any

// dynamicAccessor accesses Dynamic entities. Reading an absent field
// yields nil, matching map semantics.
type dynamicAccessor struct{}

func (dynamicAccessor) Get(entity any, field string) (any, error) {
	d, err := dynamic(entity)
	if err != nil {
		return nil, err
	}
	return d[field], nil
}

func (dynamicAccessor) Set(entity any, field string, value any) error {
	d, err := dynamic(entity)
	if err != nil {
		return err
	}
	d[field] = value
	return nil
}

func dynamic(entity any) (Dynamic, error) {
	switch d := entity.(type) {
	case Dynamic:
		return d, nil
	case map[string]any:
		return d, nil
	default:
		return nil, strata.NewMappingErrorf("expected a dynamic entity, got %T", entity)
	}
}
