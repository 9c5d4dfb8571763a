package domain

import "time"

// Boleto is a single billing record tied to a lot in the ledger.
type Boleto struct {
	ID          int64     `json:"id"`
	PayerName   string    `json:"payer_name"`
	LotID       int64     `json:"lot_id"`
	Amount      float64   `json:"amount"`
	PaymentLine string    `json:"payment_line"`
	CreatedAt   time.Time `json:"created_at"`
}

// RawRecord is one tokenized CSV line before validation. Fields that
// were missing on the line are absent from the map.
type RawRecord map[string]string

// ValidatedBoleto is a record that passed field validation and whose
// lot resolved against the ledger. It is immutable until persisted.
type ValidatedBoleto struct {
	PayerName   string
	LotID       int64
	Amount      float64
	PaymentLine string
}
