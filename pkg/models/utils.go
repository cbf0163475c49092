/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"errors"
	"reflect"
	"strings"
)

var errNotAStruct = errors.New("input must be a struct or pointer to struct")

// FilterSensitiveFields converts a struct into a map keyed by JSON field name,
// dropping every field tagged `sensitive:"true"`. Used before logging config.
func FilterSensitiveFields(input interface{}) (map[string]interface{}, error) {
	if input == nil {
		return make(map[string]interface{}), nil
	}

	result := filterRecursively(reflect.ValueOf(input))
	if result == nil {
		return make(map[string]interface{}), nil
	}

	if resultMap, ok := result.(map[string]interface{}); ok {
		return resultMap, nil
	}

	return nil, errNotAStruct
}

func filterRecursively(rv reflect.Value) interface{} {
	if rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		// Types with their own JSON form (durations, timestamps) are kept whole.
		if _, ok := rv.Interface().(interface{ MarshalJSON() ([]byte, error) }); ok {
			return rv.Interface()
		}

		rt := rv.Type()
		result := make(map[string]interface{})

		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() || field.Tag.Get("sensitive") == "true" {
				continue
			}

			name, ok := jsonFieldName(&field)
			if !ok {
				continue
			}

			result[name] = filterRecursively(rv.Field(i))
		}

		return result

	case reflect.Slice, reflect.Array:
		result := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			result[i] = filterRecursively(rv.Index(i))
		}

		return result

	case reflect.Map:
		result := make(map[string]interface{})

		for _, key := range rv.MapKeys() {
			if key.Kind() == reflect.String {
				result[key.String()] = filterRecursively(rv.MapIndex(key))
			}
		}

		return result

	case reflect.Invalid:
		return nil

	default:
		return rv.Interface()
	}
}

func jsonFieldName(field *reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}

	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}

	return field.Name, true
}
