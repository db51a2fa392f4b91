package storage

// Document keys of the transactions collection.
const (
	FieldID               = "_id"
	FieldCustomerID       = "customerId"
	FieldFromAmount       = "fromAmount"
	FieldFromCurrency     = "fromCurrency"
	FieldToAmount         = "toAmount"
	FieldToCurrency       = "toCurrency"
	FieldCreated          = "created"
	FieldCreatedTimestamp = "createdTimestamp"
	FieldUpdated          = "updated"
	FieldUpdatedTimestamp = "updatedTimestamp"
)
