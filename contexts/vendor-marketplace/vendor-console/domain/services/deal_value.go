package services

import (
	"math"
	"strconv"
	"strings"

	domainerrors "vendorhub/contexts/vendor-marketplace/vendor-console/domain/errors"
)

// ParseDealValue converts operator-typed text into an amount.
// A comma is accepted as the decimal separator ("150,50" == "150.50"), and
// when both separators appear the rightmost one is the decimal mark
// ("1.234,56", "1,234.56"). The amount must be finite and greater than zero.
//
// The deal-service parses with the same rules; tests/unit checks that both
// sides agree on a shared table.
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
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, domainerrors.ErrInvalidDealValue
	}
	return amount, nil
}
