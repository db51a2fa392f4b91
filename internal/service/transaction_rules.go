package service

import (
	"regexp"

	"fx-transactions/internal/validation"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]+$`)

// createRules is the schema for new transactions. Updates use the same rules
// with every field optional.
var createRules = validation.Schema{
	{Field: "customerId", Label: "Customer ID", Type: validation.TypeString, Required: true, Alphanum: true},
	{Field: "fromAmount", Label: "Input or Source Amount", Type: validation.TypeNumber, Required: true, MaxDecimals: 2, NonNegative: true},
	{Field: "toAmount", Label: "Output or Destination Amount", Type: validation.TypeNumber, Required: true, MaxDecimals: 2, NonNegative: true},
	{Field: "fromCurrency", Label: "Input or Source Currency", Type: validation.TypeString, Required: true, Length: 3, Pattern: currencyPattern},
	{Field: "toCurrency", Label: "Output or Destination Currency", Type: validation.TypeString, Required: true, Length: 3, Pattern: currencyPattern},
}

var updateRules = createRules.Optional()
