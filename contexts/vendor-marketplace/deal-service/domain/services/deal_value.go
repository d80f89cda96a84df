package services

import (
	"math"
	"strconv"
	"strings"

	domainerrors "vendorhub/contexts/vendor-marketplace/deal-service/domain/errors"
)

// ParseDealValue reads a monetary amount typed by a person.
// A comma is accepted as the decimal separator ("150,50" == "150.50"), and
// the pt-BR grouping form "1.234,56" is accepted as well. The result must be > 0.
func ParseDealValue(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, domainerrors.ErrInvalidDealValue
	}

	for _, r := range value {
		if (r < '0' || r > '9') && r != '.' && r != ',' && r != '-' && r != '+' {
			return 0, domainerrors.ErrInvalidDealValue
		}
	}

	lastComma := strings.LastIndex(value, ",")
	lastDot := strings.LastIndex(value, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		value = strings.ReplaceAll(value, ".", "")
		value = strings.Replace(value, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		value = strings.ReplaceAll(value, ",", "")
	case lastComma >= 0:
		if strings.Count(value, ",") > 1 {
			return 0, domainerrors.ErrInvalidDealValue
		}
		value = strings.Replace(value, ",", ".", 1)
	}

	amount, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, domainerrors.ErrInvalidDealValue
	}
	if amount <= 0 {
		return 0, domainerrors.ErrInvalidDealValue
	}
	return amount, nil
}

// FormatDealValue renders an amount with two decimals and a period separator.
func FormatDealValue(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
