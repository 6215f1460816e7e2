package edge

import "reflect"

// nameOf extracts the entity name from the Type method expression of a
// schema (e.g. edge.To("pets", Pet.Type)). Method expressions have the
// receiver as their first input.
func nameOf(t any) string {
	typ := reflect.TypeOf(t)
	if typ == nil || typ.Kind() != reflect.Func || typ.NumIn() == 0 {
		return ""
	}
	return indirect(typ.In(0)).Name()
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
