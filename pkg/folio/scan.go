package folio

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// ScanRows maps materialized rows into dest, which must be a pointer to a
// slice of structs. Struct fields bind to headings by field name, or by a
// `folio:"Heading"` tag; a tag of "-" skips the field.
func ScanRows(rows []Row, dest interface{}) error {
	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Ptr || destVal.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to a slice")
	}

	sliceVal := destVal.Elem()
	elemType := sliceVal.Type().Elem()

	for _, row := range rows {
		elem := reflect.New(elemType).Elem()
		if err := scanRow(row, elem); err != nil {
			return err
		}
		sliceVal = reflect.Append(sliceVal, elem)
	}

	destVal.Elem().Set(sliceVal)
	return nil
}

func scanRow(row Row, dest reflect.Value) error {
	if dest.Kind() == reflect.Ptr {
		dest = dest.Elem()
	}
	if dest.Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a struct")
	}

	t := dest.Type()
	for i := 0; i < dest.NumField(); i++ {
		field := dest.Field(i)
		fieldType := t.Field(i)

		tag := fieldType.Tag.Get("folio")
		if tag == "-" {
			continue
		}

		heading := fieldType.Name
		if tag != "" {
			heading = tag
		}

		value, ok := row[heading]
		if !ok {
			continue
		}

		if err := setField(field, value); err != nil {
			return fmt.Errorf("failed to set field %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

func setField(field reflect.Value, value interface{}) error {
	if !field.CanSet() {
		return nil
	}

	valueStr := fmt.Sprintf("%v", value)

	switch field.Kind() {
	case reflect.String:
		field.SetString(valueStr)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			field.SetInt(i)
		} else if f, err := strconv.ParseFloat(valueStr, 64); err == nil {
			field.SetInt(int64(f))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i, err := strconv.ParseUint(valueStr, 10, 64); err == nil {
			field.SetUint(i)
		}
	case reflect.Float32, reflect.Float64:
		if f, err := strconv.ParseFloat(valueStr, 64); err == nil {
			field.SetFloat(f)
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(valueStr); err == nil {
			field.SetBool(b)
		}
	default:
		if field.Kind() == reflect.Struct || field.Kind() == reflect.Slice {
			data, _ := json.Marshal(value)
			json.Unmarshal(data, field.Addr().Interface())
		}
	}

	return nil
}
