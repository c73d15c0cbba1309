package subsonic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Causes attached to FieldParseError by the field helpers.
var (
	// ErrFieldMissing indicates that a required field is absent or null.
	ErrFieldMissing = errors.New("field is missing")
	// ErrFieldType indicates that a field holds a value of an incompatible JSON type.
	ErrFieldType = errors.New("unexpected field type")
	// ErrNotInteger indicates that a numeric field holds a fractional or negative number.
	ErrNotInteger = errors.New("value is not a non-negative integer")
)

// asObject checks that a decoded JSON value is an object.
func asObject(value any) (map[string]any, error) {
	object, ok := value.(map[string]any)
	if !ok || object == nil {
		return nil, &JSONError{Message: "expected an object, got " + jsonTypeName(value)}
	}

	return object, nil
}

// requiredUint reads an unsigned integer that may be sent as a number or as a string of digits.
func requiredUint(object map[string]any, field string) (uint64, error) {
	value, ok := object[field]
	if !ok || value == nil {
		return 0, &FieldParseError{Field: field, Err: ErrFieldMissing}
	}

	return parseUint(field, value)
}

// requiredNumber is requiredUint without the digit-string form.
func requiredNumber(object map[string]any, field string) (uint64, error) {
	value, ok := object[field]
	if !ok || value == nil {
		return 0, &FieldParseError{Field: field, Err: ErrFieldMissing}
	}

	if _, isString := value.(string); isString {
		return 0, &FieldParseError{
			Field: field,
			Err:   fmt.Errorf("%w: want number, got string", ErrFieldType),
		}
	}

	return parseUint(field, value)
}

// optionalUint is requiredUint that returns nil for an absent or null field.
func optionalUint(object map[string]any, field string) (*uint64, error) {
	value, ok := object[field]
	if !ok || value == nil {
		return nil, nil //nolint:nilnil // Absence is a valid result.
	}

	result, err := parseUint(field, value)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// requiredString reads a string field.
func requiredString(object map[string]any, field string) (string, error) {
	value, ok := object[field]
	if !ok || value == nil {
		return "", &FieldParseError{Field: field, Err: ErrFieldMissing}
	}

	return parseString(field, value)
}

// optionalString is requiredString that returns nil for an absent or null field.
func optionalString(object map[string]any, field string) (*string, error) {
	value, ok := object[field]
	if !ok || value == nil {
		return nil, nil //nolint:nilnil // Absence is a valid result.
	}

	result, err := parseString(field, value)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func parseString(field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", &FieldParseError{
			Field: field,
			Err:   fmt.Errorf("%w: want string, got %s", ErrFieldType, jsonTypeName(value)),
		}
	}

	return s, nil
}

func parseUint(field string, value any) (uint64, error) {
	switch v := value.(type) {
	case json.Number:
		return parseUintText(field, string(v), true)
	case string:
		return parseUintText(field, v, false)
	case float64:
		return floatToUint(field, v)
	default:
		return 0, &FieldParseError{
			Field: field,
			Err:   fmt.Errorf("%w: want number, got %s", ErrFieldType, jsonTypeName(value)),
		}
	}
}

// parseUintText parses digits. Native JSON numbers in exponent or
// decimal notation (240.0, 2.4e2) are accepted when they are integral.
func parseUintText(field, text string, isNativeNumber bool) (uint64, error) {
	result, err := strconv.ParseUint(text, 10, 64)
	if err == nil {
		return result, nil
	}

	if isNativeNumber {
		if f, floatErr := strconv.ParseFloat(text, 64); floatErr == nil {
			return floatToUint(field, f)
		}
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return 0, &FieldParseError{Field: field, Err: FromIntParse(numErr)}
	}

	return 0, &FieldParseError{Field: field, Err: err}
}

func floatToUint(field string, f float64) (uint64, error) {
	if f < 0 || f != math.Trunc(f) || f >= math.MaxUint64 {
		return 0, &FieldParseError{
			Field: field,
			Err:   fmt.Errorf("%w: %v", ErrNotInteger, f),
		}
	}

	return uint64(f), nil
}

func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// decodeJSON decodes a document keeping numbers as json.Number, so large IDs survive intact.
func decodeJSON(data []byte) (any, error) {
	var value any

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	if err := decoder.Decode(&value); err != nil {
		return nil, FromSerialization(err)
	}

	return value, nil
}
