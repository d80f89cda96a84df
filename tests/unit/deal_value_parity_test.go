package unit

import (
	"errors"
	"testing"

	dealerrors "vendorhub/contexts/vendor-marketplace/deal-service/domain/errors"
	dealservices "vendorhub/contexts/vendor-marketplace/deal-service/domain/services"
	consoleerrors "vendorhub/contexts/vendor-marketplace/vendor-console/domain/errors"
	consoleservices "vendorhub/contexts/vendor-marketplace/vendor-console/domain/services"
)

// dealValueVectors is the one table both the console and the deal-service
// parse; the two packages may not import each other.
var dealValueVectors = []struct {
	raw   string
	want  float64
	valid bool
}{
	{raw: "200", want: 200, valid: true},
	{raw: "150,50", want: 150.5, valid: true},
	{raw: "150.50", want: 150.5, valid: true},
	{raw: " 99,9 ", want: 99.9, valid: true},
	{raw: "0,01", want: 0.01, valid: true},
	{raw: "+10", want: 10, valid: true},
	{raw: "1.234,56", want: 1234.56, valid: true},
	{raw: "1,234.56", want: 1234.56, valid: true},
	{raw: "1.234.567,89", want: 1234567.89, valid: true},
	{raw: "12.345,678", want: 12345.678, valid: true},
	{raw: ""},
	{raw: "   "},
	{raw: "abc"},
	{raw: "0"},
	{raw: "0,00"},
	{raw: "-5"},
	{raw: "-1,5"},
	{raw: "1,2,3"},
	{raw: "1.234,56,7"},
	{raw: "12a"},
	{raw: "R$ 10"},
	{raw: "1-2"},
	{raw: "NaN"},
	{raw: "Inf"},
}

func TestDealValueParsersAgree(t *testing.T) {
	for _, vector := range dealValueVectors {
		server, serverErr := dealservices.ParseDealValue(vector.raw)
		console, consoleErr := consoleservices.ParseDealValue(vector.raw)

		if !vector.valid {
			if !errors.Is(serverErr, dealerrors.ErrInvalidDealValue) {
				t.Fatalf("deal-service accepted %q: %v", vector.raw, server)
			}
			if !errors.Is(consoleErr, consoleerrors.ErrInvalidDealValue) {
				t.Fatalf("console accepted %q: %v", vector.raw, console)
			}
			continue
		}
		if serverErr != nil || consoleErr != nil {
			t.Fatalf("expected %q to parse, server err=%v console err=%v", vector.raw, serverErr, consoleErr)
		}
		if server != console {
			t.Fatalf("parsers disagree on %q: server=%v console=%v", vector.raw, server, console)
		}
		if diff := server - vector.want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("expected %q to parse as %v, got %v", vector.raw, vector.want, server)
		}
	}
}
