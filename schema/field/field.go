// Package field provides builders for declaring entity attributes.
// Every builder produces a Descriptor, the neutral representation
// consumed by the loader regardless of whether the field originated
// in Go code or in an XML mapping descriptor.
package field

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"

	"github.com/strataorm/strata/schema"
)

// A Descriptor for field configuration.
type Descriptor struct {
	Name          string                  // field name.
	Info          *TypeInfo               // field type info.
	Tag           string                  // struct tag.
	Size          int64                   // varchar size.
	Enums         []struct{ N, V string } // enum values.
	Unique        bool                    // unique index on the field.
	Nillable      bool                    // nillable struct field.
	Optional      bool                    // nullable field in the database.
	Immutable     bool                    // create-only field.
	Default       any                     // default value on create.
	UpdateDefault any                     // default value on update.
	Validators    []any                   // validator functions.
	StorageKey    string                  // storage key (column name) override.
	Sensitive     bool                    // sensitive value, excluded from string output.
	SchemaType    map[string]string       // dialect name to column type override.
	Annotations   []schema.Annotation     // field annotations.
	Comment       string                  // field comment.
	Err           error                   // error captured during building.
}

// String returns a new Field with type string.
func String(name string) *stringBuilder {
	return &stringBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeString},
	}}
}

// Text returns a new string field without limitation on the size.
// In SQL dialects, it is mapped to a TEXT-like column.
func Text(name string) *stringBuilder {
	return &stringBuilder{&Descriptor{
		Name: name,
		Size: maxStringSize,
		Info: &TypeInfo{Type: TypeString},
	}}
}

// Int returns a new Field with type int.
func Int(name string) *intBuilder {
	return &intBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeInt},
	}}
}

// Int64 returns a new Field with type int64.
func Int64(name string) *intBuilder {
	return &intBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeInt64},
	}}
}

// Float returns a new Field with type float64.
func Float(name string) *floatBuilder {
	return &floatBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeFloat64},
	}}
}

// Bool returns a new Field with type bool.
func Bool(name string) *boolBuilder {
	return &boolBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeBool},
	}}
}

// Time returns a new Field with type time.Time.
func Time(name string) *timeBuilder {
	return &timeBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeTime, Ident: "time.Time", PkgPath: "time"},
	}}
}

// Bytes returns a new Field with type []byte.
func Bytes(name string) *bytesBuilder {
	return &bytesBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeBytes, Nillable: true},
	}}
}

// UUID returns a new Field with type UUID. An example for using this field is
// as follows:
//
//	field.UUID("id", uuid.UUID{}).
//		Default(uuid.New)
func UUID(name string, typ driver.Valuer) *uuidBuilder {
	rt := reflect.TypeOf(typ)
	return &uuidBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{
			Type:    TypeUUID,
			Ident:   rt.String(),
			PkgPath: indirectType(rt).PkgPath(),
		},
	}}
}

// Enum returns a new Field with type enum. An example for using this field is
// as follows:
//
//	field.Enum("state").
//		Values("on", "off")
func Enum(name string) *enumBuilder {
	return &enumBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeEnum},
	}}
}

// JSON returns a new Field with type json that is serialized to the given object.
func JSON(name string, typ any) *jsonBuilder {
	b := &jsonBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeJSON},
	}}
	if typ == nil {
		b.desc.Err = errors.New("expect a Go value as JSON type, but got nil")
		return b
	}
	rt := reflect.TypeOf(typ)
	b.desc.Info.Ident = rt.String()
	b.desc.Info.PkgPath = indirectType(rt).PkgPath()
	switch rt.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Ptr:
		b.desc.Info.Nillable = true
	}
	return b
}

// maxStringSize denotes a string field without a size limit.
const maxStringSize = 1 << 31

// stringBuilder is the builder for string fields.
type stringBuilder struct {
	desc *Descriptor
}

// Unique makes the field unique within all vertices of this type.
func (b *stringBuilder) Unique() *stringBuilder {
	b.desc.Unique = true
	return b
}

// MaxLen sets the max-length of the string field in the database.
// In SQL dialects, it is the column size.
func (b *stringBuilder) MaxLen(i int) *stringBuilder {
	b.desc.Size = int64(i)
	b.desc.Validators = append(b.desc.Validators, func(v string) error {
		if len(v) > i {
			return errors.New("value is greater than the required length")
		}
		return nil
	})
	return b
}

// NotEmpty adds a length validator, verifying the value is not an empty string.
func (b *stringBuilder) NotEmpty() *stringBuilder {
	b.desc.Validators = append(b.desc.Validators, func(v string) error {
		if v == "" {
			return errors.New("value is less than the required length")
		}
		return nil
	})
	return b
}

// Optional indicates that this field is optional on create.
// Unlike edges, fields are required by default.
func (b *stringBuilder) Optional() *stringBuilder {
	b.desc.Optional = true
	return b
}

// Nillable indicates that this field is a nillable struct field.
func (b *stringBuilder) Nillable() *stringBuilder {
	b.desc.Nillable = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *stringBuilder) Immutable() *stringBuilder {
	b.desc.Immutable = true
	return b
}

// Sensitive marks the field as sensitive, excluding it from string output.
func (b *stringBuilder) Sensitive() *stringBuilder {
	b.desc.Sensitive = true
	return b
}

// Default sets the default value of the field on create.
func (b *stringBuilder) Default(s string) *stringBuilder {
	b.desc.Default = s
	return b
}

// DefaultFunc sets a function as the default value generator on create.
func (b *stringBuilder) DefaultFunc(fn any) *stringBuilder {
	b.desc.Default = fn
	return b
}

// StorageKey sets the storage key (column name) of the field.
func (b *stringBuilder) StorageKey(key string) *stringBuilder {
	b.desc.StorageKey = key
	return b
}

// StructTag sets the struct tag of the field.
func (b *stringBuilder) StructTag(s string) *stringBuilder {
	b.desc.Tag = s
	return b
}

// Comment sets the comment of the field.
func (b *stringBuilder) Comment(c string) *stringBuilder {
	b.desc.Comment = c
	return b
}

// SchemaType overrides the default database type with a custom schema type
// (per dialect) for this field.
func (b *stringBuilder) SchemaType(types map[string]string) *stringBuilder {
	b.desc.SchemaType = types
	return b
}

// Annotations adds a list of annotations to the field object to be used by
// metadata extensions.
func (b *stringBuilder) Annotations(annotations ...schema.Annotation) *stringBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the strata.Field interface by returning its descriptor.
func (b *stringBuilder) Descriptor() *Descriptor {
	return b.desc
}

// intBuilder is the builder for int fields.
type intBuilder struct {
	desc *Descriptor
}

// Unique makes the field unique within all vertices of this type.
func (b *intBuilder) Unique() *intBuilder {
	b.desc.Unique = true
	return b
}

// Optional indicates that this field is optional on create.
func (b *intBuilder) Optional() *intBuilder {
	b.desc.Optional = true
	return b
}

// Nillable indicates that this field is a nillable struct field.
func (b *intBuilder) Nillable() *intBuilder {
	b.desc.Nillable = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *intBuilder) Immutable() *intBuilder {
	b.desc.Immutable = true
	return b
}

// Default sets the default value of the field on create.
func (b *intBuilder) Default(i int64) *intBuilder {
	b.desc.Default = i
	return b
}

// Positive adds a minimum value validator (> 0).
func (b *intBuilder) Positive() *intBuilder {
	b.desc.Validators = append(b.desc.Validators, func(v int64) error {
		if v < 1 {
			return errors.New("value out of range")
		}
		return nil
	})
	return b
}

// NonNegative adds a minimum value validator (>= 0).
func (b *intBuilder) NonNegative() *intBuilder {
	b.desc.Validators = append(b.desc.Validators, func(v int64) error {
		if v < 0 {
			return errors.New("value out of range")
		}
		return nil
	})
	return b
}

// StorageKey sets the storage key (column name) of the field.
func (b *intBuilder) StorageKey(key string) *intBuilder {
	b.desc.StorageKey = key
	return b
}

// Comment sets the comment of the field.
func (b *intBuilder) Comment(c string) *intBuilder {
	b.desc.Comment = c
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *intBuilder) Annotations(annotations ...schema.Annotation) *intBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the strata.Field interface by returning its descriptor.
func (b *intBuilder) Descriptor() *Descriptor {
	return b.desc
}

// floatBuilder is the builder for float fields.
type floatBuilder struct {
	desc *Descriptor
}

// Optional indicates that this field is optional on create.
func (b *floatBuilder) Optional() *floatBuilder {
	b.desc.Optional = true
	return b
}

// Default sets the default value of the field on create.
func (b *floatBuilder) Default(f float64) *floatBuilder {
	b.desc.Default = f
	return b
}

// Range adds a range validator over the field value.
func (b *floatBuilder) Range(lo, hi float64) *floatBuilder {
	b.desc.Validators = append(b.desc.Validators, func(v float64) error {
		if v < lo || v > hi {
			return errors.New("value out of range")
		}
		return nil
	})
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *floatBuilder) Annotations(annotations ...schema.Annotation) *floatBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the strata.Field interface by returning its descriptor.
func (b *floatBuilder) Descriptor() *Descriptor {
	return b.desc
}

// boolBuilder is the builder for bool fields.
type boolBuilder struct {
	desc *Descriptor
}

// Optional indicates that this field is optional on create.
func (b *boolBuilder) Optional() *boolBuilder {
	b.desc.Optional = true
	return b
}

// Default sets the default value of the field on create.
func (b *boolBuilder) Default(v bool) *boolBuilder {
	b.desc.Default = v
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *boolBuilder) Immutable() *boolBuilder {
	b.desc.Immutable = true
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *boolBuilder) Annotations(annotations ...schema.Annotation) *boolBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the strata.Field interface by returning its descriptor.
func (b *boolBuilder) Descriptor() *Descriptor {
	return b.desc
}

// timeBuilder is the builder for time fields.
type timeBuilder struct {
	desc *Descriptor
}

// Optional indicates that this field is optional on create.
func (b *timeBuilder) Optional() *timeBuilder {
	b.desc.Optional = true
	return b
}

// Nillable indicates that this field is a nillable struct field.
func (b *timeBuilder) Nillable() *timeBuilder {
	b.desc.Nillable = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *timeBuilder) Immutable() *timeBuilder {
	b.desc.Immutable = true
	return b
}

// Default sets a function as the default value generator on create.
// For example:
//
//	field.Time("created_at").
//		Default(time.Now)
func (b *timeBuilder) Default(fn any) *timeBuilder {
	b.desc.Default = fn
	return b
}

// UpdateDefault sets a function as the default value generator on update.
func (b *timeBuilder) UpdateDefault(fn any) *timeBuilder {
	b.desc.UpdateDefault = fn
	return b
}

// StorageKey sets the storage key (column name) of the field.
func (b *timeBuilder) StorageKey(key string) *timeBuilder {
	b.desc.StorageKey = key
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *timeBuilder) Annotations(annotations ...schema.Annotation) *timeBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the strata.Field interface by returning its descriptor.
func (b *timeBuilder) Descriptor() *Descriptor {
	return b.desc
}

// bytesBuilder is the builder for bytes fields.
type bytesBuilder struct {
	desc *Descriptor
}

// Optional indicates that this field is optional on create.
func (b *bytesBuilder) Optional() *bytesBuilder {
	b.desc.Optional = true
	return b
}

// Sensitive marks the field as sensitive, excluding it from string output.
func (b *bytesBuilder) Sensitive() *bytesBuilder {
	b.desc.Sensitive = true
	return b
}

// MaxLen sets the max length of the bytes field in the database.
func (b *bytesBuilder) MaxLen(i int) *bytesBuilder {
	b.desc.Size = int64(i)
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *bytesBuilder) Annotations(annotations ...schema.Annotation) *bytesBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the strata.Field interface by returning its descriptor.
func (b *bytesBuilder) Descriptor() *Descriptor {
	return b.desc
}

// uuidBuilder is the builder for UUID fields.
type uuidBuilder struct {
	desc *Descriptor
}

// Unique makes the field unique within all vertices of this type.
func (b *uuidBuilder) Unique() *uuidBuilder {
	b.desc.Unique = true
	return b
}

// Optional indicates that this field is optional on create.
func (b *uuidBuilder) Optional() *uuidBuilder {
	b.desc.Optional = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *uuidBuilder) Immutable() *uuidBuilder {
	b.desc.Immutable = true
	return b
}

// Default sets a function as the default value generator on create.
// For example:
//
//	field.UUID("id", uuid.UUID{}).
//		Default(uuid.New)
func (b *uuidBuilder) Default(fn any) *uuidBuilder {
	b.desc.Default = fn
	return b
}

// StorageKey sets the storage key (column name) of the field.
func (b *uuidBuilder) StorageKey(key string) *uuidBuilder {
	b.desc.StorageKey = key
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *uuidBuilder) Annotations(annotations ...schema.Annotation) *uuidBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the strata.Field interface by returning its descriptor.
func (b *uuidBuilder) Descriptor() *Descriptor {
	return b.desc
}

// enumBuilder is the builder for enum fields.
type enumBuilder struct {
	desc *Descriptor
}

// Values adds the given values to the enum values, where the enum name
// equals its value.
func (b *enumBuilder) Values(values ...string) *enumBuilder {
	for _, v := range values {
		b.desc.Enums = append(b.desc.Enums, struct{ N, V string }{N: v, V: v})
	}
	return b
}

// NamedValues adds the given name, value pairs to the enum values.
func (b *enumBuilder) NamedValues(nv ...string) *enumBuilder {
	if len(nv)%2 != 0 {
		b.desc.Err = errors.New("odd number of name, value pairs")
		return b
	}
	for i := 0; i < len(nv); i += 2 {
		b.desc.Enums = append(b.desc.Enums, struct{ N, V string }{N: nv[i], V: nv[i+1]})
	}
	return b
}

// Optional indicates that this field is optional on create.
func (b *enumBuilder) Optional() *enumBuilder {
	b.desc.Optional = true
	return b
}

// Default sets the default value of the field on create.
// The value must be one of the enum values.
func (b *enumBuilder) Default(v string) *enumBuilder {
	b.desc.Default = v
	for _, e := range b.desc.Enums {
		if e.V == v {
			return b
		}
	}
	b.desc.Err = fmt.Errorf("default value %q is not in the enum values", v)
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *enumBuilder) Annotations(annotations ...schema.Annotation) *enumBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the strata.Field interface by returning its descriptor.
func (b *enumBuilder) Descriptor() *Descriptor {
	return b.desc
}

// jsonBuilder is the builder for json fields.
type jsonBuilder struct {
	desc *Descriptor
}

// Optional indicates that this field is optional on create.
func (b *jsonBuilder) Optional() *jsonBuilder {
	b.desc.Optional = true
	return b
}

// StorageKey sets the storage key (column name) of the field.
func (b *jsonBuilder) StorageKey(key string) *jsonBuilder {
	b.desc.StorageKey = key
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *jsonBuilder) Annotations(annotations ...schema.Annotation) *jsonBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the strata.Field interface by returning its descriptor.
func (b *jsonBuilder) Descriptor() *Descriptor {
	return b.desc
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
