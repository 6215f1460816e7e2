package tuple

import (
	"reflect"

	"github.com/go-openapi/inflect"

	"github.com/strataorm/strata"
)

// TagKey is the struct tag consulted when mapping field names to struct
// fields.
const TagKey = "strata"

// reflectAccessor instantiates and accesses a registered struct type.
// Fields are addressed by their strata tag when present, and by the
// snake-case form of the Go field name otherwise.
type reflectAccessor struct {
	typ    reflect.Type
	fields map[string]int
}

func newReflectAccessor(prototype any) (*reflectAccessor, error) {
	typ := reflect.TypeOf(prototype)
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, strata.NewMappingErrorf("entity prototype must be a struct, got %T", prototype)
	}
	ra := &reflectAccessor{typ: typ, fields: make(map[string]int, typ.NumField())}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get(TagKey)
		if name == "-" {
			continue
		}
		if name == "" {
			name = inflect.Underscore(f.Name)
		}
		if _, ok := ra.fields[name]; ok {
			return nil, strata.NewMappingErrorf("duplicate field name %q in entity type %s", name, typ)
		}
		ra.fields[name] = i
	}
	return ra, nil
}

// Instantiate returns a pointer to a new zero value of the struct type.
func (ra *reflectAccessor) Instantiate() any {
	return reflect.New(ra.typ).Interface()
}

func (ra *reflectAccessor) Get(entity any, field string) (any, error) {
	v, err := ra.value(entity)
	if err != nil {
		return nil, err
	}
	i, ok := ra.fields[field]
	if !ok {
		return nil, strata.NewMappingErrorf("unknown field %q in entity type %s", field, ra.typ)
	}
	return v.Field(i).Interface(), nil
}

func (ra *reflectAccessor) Set(entity any, field string, value any) error {
	v, err := ra.value(entity)
	if err != nil {
		return err
	}
	i, ok := ra.fields[field]
	if !ok {
		return strata.NewMappingErrorf("unknown field %q in entity type %s", field, ra.typ)
	}
	fv := v.Field(i)
	if !fv.CanSet() {
		return strata.NewMappingErrorf("field %q of entity type %s is not settable", field, ra.typ)
	}
	if value == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(fv.Type()):
		fv.Set(rv)
	case rv.Type().ConvertibleTo(fv.Type()):
		fv.Set(rv.Convert(fv.Type()))
	default:
		return strata.NewMappingErrorf("cannot assign %T to field %q of entity type %s", value, field, ra.typ)
	}
	return nil
}

// value dereferences the entity down to its addressable struct value.
func (ra *reflectAccessor) value(entity any) (reflect.Value, error) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, strata.NewMappingErrorf("nil entity of type %s", ra.typ)
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Type() != ra.typ {
		return reflect.Value{}, strata.NewMappingErrorf("entity type mismatch: want %s, got %T", ra.typ, entity)
	}
	return v, nil
}
