package intents

import (
	"sort"
	"time"

	"github.com/spf13/cast"

	"github.com/verdeflow/verde-assistant-service/types"
)

// ValidateIntent checks raw parameters against an intent's schema. Every
// declared field is coerced to its declared type and defaults are applied.
// Missing and invalid field names are collected into Need rather than
// failing on the first one, so the caller can prompt for everything at once.
// Fields not declared in the schema are ignored.
func ValidateIntent(name string, raw map[string]interface{}) (*types.ValidationResult, error) {
	intent, exists := GetIntent(name)
	if !exists {
		return nil, types.NewError(types.ErrUnknownIntent, "unknown intent %q - must be one of: %v", name, GetIntentList())
	}

	value := make(map[string]interface{}, len(intent.Schema))
	var need []string

	for fieldName, spec := range intent.Schema {
		rawValue, present := raw[fieldName]
		if !present || rawValue == nil || rawValue == "" {
			if spec.Default != nil {
				value[fieldName] = spec.Default
			} else if spec.Required {
				need = append(need, fieldName)
			}
			continue
		}

		coerced, ok := coerce(rawValue, spec.Type)
		if !ok {
			need = append(need, fieldName)
			continue
		}
		value[fieldName] = coerced
	}

	if len(need) > 0 {
		sort.Strings(need)
		return &types.ValidationResult{OK: false, Need: need}, nil
	}
	return &types.ValidationResult{OK: true, Value: value}, nil
}

// coerce converts a raw JSON value to the declared field type. Numbers come
// back as float64, booleans as bool, dates and times as normalized strings.
func coerce(value interface{}, fieldType FieldType) (interface{}, bool) {
	switch fieldType {
	case FieldString:
		s, err := cast.ToStringE(value)
		return s, err == nil
	case FieldNumber:
		f, err := cast.ToFloat64E(value)
		return f, err == nil
	case FieldBoolean:
		b, err := cast.ToBoolE(value)
		return b, err == nil
	case FieldDate:
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, false
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			// Accept full timestamps and keep the day part.
			t, err = time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, false
			}
		}
		return t.Format("2006-01-02"), true
	case FieldTime:
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, false
		}
		t, err := time.Parse("15:04", s)
		if err != nil {
			t, err = time.Parse("15:04:05", s)
			if err != nil {
				return nil, false
			}
		}
		return t.Format("15:04"), true
	default:
		return nil, false
	}
}
