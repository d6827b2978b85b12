package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

type modelField struct {
	index  int
	column string
}

// reflect.Type -> []modelField
var modelFieldCache sync.Map

// InsertModel builds an INSERT from the exported `db`-tagged fields of model.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := modelValues(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// UpsertModel builds an INSERT that, on a conflict over key, overwrites every
// non-key column of model with the incoming value. extraSets are appended to
// the assignment list verbatim.
func UpsertModel(table string, model any, key []string, returning string, extraSets ...string) (string, []any, error) {
	cols, _, err := modelValues(model)
	if err != nil {
		return "", nil, err
	}
	if len(key) == 0 {
		return "", nil, fmt.Errorf("upsert %s: conflict key is required", table)
	}

	isKey := make(map[string]bool, len(key))
	for _, k := range key {
		isKey[k] = true
	}
	sets := make([]string, 0, len(cols)+len(extraSets))
	found := 0
	for _, c := range cols {
		if isKey[c] {
			found++
			continue
		}
		sets = append(sets, c+" = EXCLUDED."+c)
	}
	if found != len(key) {
		return "", nil, fmt.Errorf("upsert %s: conflict key %v is not covered by the model", table, key)
	}
	if len(sets) == 0 {
		return "", nil, fmt.Errorf("upsert %s: model has no columns to update", table)
	}
	sets = append(sets, extraSets...)

	suffix := "ON CONFLICT (" + strings.Join(key, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", ")
	if returning = strings.TrimSpace(returning); returning != "" {
		suffix += " " + returning
	}
	return InsertModel(table, model, suffix)
}

func modelValues(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	fields := fieldsOf(value.Type())
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	cols := make([]string, len(fields))
	vals := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = f.column
		vals[i] = value.Field(f.index).Interface()
	}
	return cols, vals, nil
}

func fieldsOf(typ reflect.Type) []modelField {
	if cached, ok := modelFieldCache.Load(typ); ok {
		return cached.([]modelField)
	}

	fields := make([]modelField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		fields = append(fields, modelField{index: i, column: col})
	}
	modelFieldCache.Store(typ, fields)
	return fields
}
