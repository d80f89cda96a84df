package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"vendorhub/contexts/vendor-marketplace/deal-service/domain/entities"
	domainerrors "vendorhub/contexts/vendor-marketplace/deal-service/domain/errors"
)

// NormalizeFields validates a field/value mapping against the updatable
// vendor columns and coerces values decoded from JSON into their typed form.
func NormalizeFields(fields map[string]any) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, domainerrors.ErrEmptyUpdate
	}

	out := make(map[string]any, len(fields))
	for name, value := range fields {
		switch name {
		case entities.FieldDealClosed:
			closed, ok := value.(bool)
			if !ok {
				return nil, fieldError(name)
			}
			out[name] = closed
		case entities.FieldDealValue:
			if value == nil {
				out[name] = nil
				continue
			}
			amount, ok := toFloat(value)
			if !ok || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
				return nil, domainerrors.ErrInvalidDealValue
			}
			out[name] = amount
		case entities.FieldDealClosedAt:
			if value == nil {
				out[name] = nil
				continue
			}
			at, ok := toTime(value)
			if !ok {
				return nil, fieldError(name)
			}
			out[name] = at.UTC()
		case entities.FieldName, entities.FieldCity, entities.FieldPriceTier, entities.FieldThumbnailURL:
			text, ok := value.(string)
			if !ok {
				return nil, fieldError(name)
			}
			text = strings.TrimSpace(text)
			if name == entities.FieldName && text == "" {
				return nil, fieldError(name)
			}
			out[name] = text
		default:
			return nil, fieldError(name)
		}
	}
	return out, nil
}

func fieldError(name string) error {
	return fmt.Errorf("%w: %s", domainerrors.ErrInvalidField, name)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		amount, err := ParseDealValue(v)
		return amount, err == nil
	default:
		return 0, false
	}
}

func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		at, err := time.Parse(time.RFC3339Nano, v)
		return at, err == nil
	default:
		return time.Time{}, false
	}
}
