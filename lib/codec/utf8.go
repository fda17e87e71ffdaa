// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"
)

// checkUTF8 returns an error naming the first string in value that is
// not valid UTF-8. Map keys and exported struct fields are included;
// byte slices are not.
func checkUTF8(value any) error {
	return walkUTF8(reflect.ValueOf(value), "value")
}

func walkUTF8(v reflect.Value, path string) error {
	switch v.Kind() {
	case reflect.String:
		if !utf8.ValidString(v.String()) {
			return fmt.Errorf("%s: string %q is not valid UTF-8", path, v.String())
		}

	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return walkUTF8(v.Elem(), path)

	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			key := iter.Key()
			if err := walkUTF8(key, path+" key"); err != nil {
				return err
			}
			if err := walkUTF8(iter.Value(), fmt.Sprintf("%s[%v]", path, key)); err != nil {
				return err
			}
		}

	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := walkUTF8(v.Index(i), path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}

	case reflect.Struct:
		structType := v.Type()
		for i := 0; i < structType.NumField(); i++ {
			field := structType.Field(i)
			if !field.IsExported() && !field.Anonymous {
				continue
			}
			if field.Tag.Get("json") == "-" || field.Tag.Get("cbor") == "-" {
				continue
			}
			if err := walkUTF8(v.Field(i), path+"."+field.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
