package mutator

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	titleDealClosed      = "Negócio fechado!"
	titleInvalidValue    = "Valor inválido"
	titleDealFailed      = "Erro ao fechar negócio"
	messageInvalidValue  = "Informe um valor válido maior que zero."
	messageMissingVendor = "Selecione um fornecedor."
	messageGenericError  = "Não foi possível fechar o negócio. Tente novamente."
)

// Amounts are shown with a period decimal mark, two decimals and no grouping
// ("1234.56"), matching the value the deal-service stores and echoes.
var amountPrinter = message.NewPrinter(language.English)

func formatAmount(value float64) string {
	return amountPrinter.Sprint(number.Decimal(value, number.Scale(2), number.NoSeparator()))
}

func dealClosedDescription(formatted string) string {
	return "Valor registrado: R$ " + formatted
}
