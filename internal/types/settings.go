package types

import (
	"encoding/json"
	"strconv"

	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// SettingKind is the declared type tag of a company setting value
type SettingKind string

const (
	SettingKindString  SettingKind = "string"
	SettingKindInteger SettingKind = "integer"
	SettingKindDecimal SettingKind = "decimal"
	SettingKindBoolean SettingKind = "boolean"
	SettingKindJSON    SettingKind = "json"
)

func (k SettingKind) String() string {
	return string(k)
}

func (k SettingKind) Validate() error {
	allowed := []SettingKind{
		SettingKindString,
		SettingKindInteger,
		SettingKindDecimal,
		SettingKindBoolean,
		SettingKindJSON,
	}
	if !lo.Contains(allowed, k) {
		return ierr.NewError("invalid setting kind").
			WithHint("Please provide a valid setting kind").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SettingValue is a tagged variant for arbitrary company settings. Exactly
// one payload field is meaningful, selected by Kind. Serialization is
// explicit per tag so a stored value always round-trips to the same kind.
type SettingValue struct {
	Kind    SettingKind     `json:"kind"`
	String  string          `json:"string,omitempty"`
	Integer int64           `json:"integer,omitempty"`
	Decimal decimal.Decimal `json:"decimal,omitempty"`
	Boolean bool            `json:"boolean,omitempty"`
	JSON    json.RawMessage `json:"json,omitempty"`
}

// NewStringSetting creates a string-tagged setting value
func NewStringSetting(v string) SettingValue {
	return SettingValue{Kind: SettingKindString, String: v}
}

// NewIntegerSetting creates an integer-tagged setting value
func NewIntegerSetting(v int64) SettingValue {
	return SettingValue{Kind: SettingKindInteger, Integer: v}
}

// NewDecimalSetting creates a decimal-tagged setting value
func NewDecimalSetting(v decimal.Decimal) SettingValue {
	return SettingValue{Kind: SettingKindDecimal, Decimal: v}
}

// NewBooleanSetting creates a boolean-tagged setting value
func NewBooleanSetting(v bool) SettingValue {
	return SettingValue{Kind: SettingKindBoolean, Boolean: v}
}

// NewJSONSetting creates a json-tagged setting value
func NewJSONSetting(v json.RawMessage) SettingValue {
	return SettingValue{Kind: SettingKindJSON, JSON: v}
}

func (v SettingValue) Validate() error {
	if err := v.Kind.Validate(); err != nil {
		return err
	}
	if v.Kind == SettingKindJSON && !json.Valid(v.JSON) {
		return ierr.NewError("invalid json setting value").
			WithHint("Please provide valid JSON for a json-typed setting").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Encode serializes the tagged payload to its storage representation
func (v SettingValue) Encode() (string, error) {
	if err := v.Validate(); err != nil {
		return "", err
	}

	switch v.Kind {
	case SettingKindString:
		return v.String, nil
	case SettingKindInteger:
		return strconv.FormatInt(v.Integer, 10), nil
	case SettingKindDecimal:
		return v.Decimal.String(), nil
	case SettingKindBoolean:
		return strconv.FormatBool(v.Boolean), nil
	default:
		return string(v.JSON), nil
	}
}

// DecodeSettingValue parses a storage representation under the declared kind
func DecodeSettingValue(kind SettingKind, raw string) (SettingValue, error) {
	if err := kind.Validate(); err != nil {
		return SettingValue{}, err
	}

	switch kind {
	case SettingKindString:
		return NewStringSetting(raw), nil
	case SettingKindInteger:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return SettingValue{}, ierr.WithError(err).
				WithHintf("setting value %q is not an integer", raw).
				Mark(ierr.ErrValidation)
		}
		return NewIntegerSetting(i), nil
	case SettingKindDecimal:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return SettingValue{}, ierr.WithError(err).
				WithHintf("setting value %q is not a decimal", raw).
				Mark(ierr.ErrValidation)
		}
		return NewDecimalSetting(d), nil
	case SettingKindBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return SettingValue{}, ierr.WithError(err).
				WithHintf("setting value %q is not a boolean", raw).
				Mark(ierr.ErrValidation)
		}
		return NewBooleanSetting(b), nil
	default:
		if !json.Valid([]byte(raw)) {
			return SettingValue{}, ierr.NewError("setting value is not valid json").
				WithHint("Please provide valid JSON for a json-typed setting").
				Mark(ierr.ErrValidation)
		}
		return NewJSONSetting(json.RawMessage(raw)), nil
	}
}
