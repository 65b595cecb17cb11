package connector

import "reflect"

// Walk performs structural substitution: any nested
// Connector (a value implementing Value) discovered inside a typed record,
// ordered sequence, or map is resolved in place and replaced by its
// resolved value, recursively. Scalars pass through unchanged.
//
// Grounded on original_source/pdep/utils.py's
// convert_dict_values/convert_list_values/convert_dataclass_values family.
func Walk(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if val, ok := v.(Value); ok {
		resolved, err := val.Resolve()
		if err != nil {
			return nil, err
		}
		return resolved, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return v, nil
		}
		walked, err := walkAddressable(rv.Elem())
		if err != nil {
			return nil, err
		}
		out := reflect.New(rv.Elem().Type())
		out.Elem().Set(reflect.ValueOf(walked))
		return out.Interface(), nil
	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map:
		return walkAddressable(rv)
	default:
		return v, nil
	}
}

// walkAddressable walks rv (not necessarily addressable) and returns a new
// value of the same shape with every nested Connector resolved.
func walkAddressable(rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.Struct:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Type().Field(i)
			fv := rv.Field(i)
			if !out.Field(i).CanSet() {
				// unexported field: copy as-is, no connector can live here.
				continue
			}
			if !fv.CanInterface() {
				continue
			}
			walked, err := Walk(fv.Interface())
			if err != nil {
				return nil, err
			}
			if walked == nil {
				continue
			}
			wv := reflect.ValueOf(walked)
			if wv.Type().AssignableTo(field.Type) {
				out.Field(i).Set(wv)
			} else if wv.Type().ConvertibleTo(field.Type) {
				out.Field(i).Set(wv.Convert(field.Type))
			} else {
				out.Field(i).Set(fv)
			}
		}
		return out.Interface(), nil

	case reflect.Slice:
		if rv.IsNil() {
			return rv.Interface(), nil
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			walked, err := Walk(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			setElem(out.Index(i), walked)
		}
		return out.Interface(), nil

	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			walked, err := Walk(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			setElem(out.Index(i), walked)
		}
		return out.Interface(), nil

	case reflect.Map:
		if rv.IsNil() {
			return rv.Interface(), nil
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			walked, err := Walk(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			valType := rv.Type().Elem()
			wv := reflect.ValueOf(walked)
			if walked == nil {
				out.SetMapIndex(iter.Key(), reflect.Zero(valType))
				continue
			}
			if wv.Type().AssignableTo(valType) {
				out.SetMapIndex(iter.Key(), wv)
			} else if wv.Type().ConvertibleTo(valType) {
				out.SetMapIndex(iter.Key(), wv.Convert(valType))
			} else {
				out.SetMapIndex(iter.Key(), iter.Value())
			}
		}
		return out.Interface(), nil

	default:
		return rv.Interface(), nil
	}
}

func setElem(dst reflect.Value, walked any) {
	if walked == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}
	wv := reflect.ValueOf(walked)
	if wv.Type().AssignableTo(dst.Type()) {
		dst.Set(wv)
	} else if wv.Type().ConvertibleTo(dst.Type()) {
		dst.Set(wv.Convert(dst.Type()))
	}
}
