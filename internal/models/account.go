package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Account is the persisted form of a customer account.
type Account struct {
	AccountID     string          `db:"account_id"`
	AccountNumber string          `db:"account_number"`
	Phone         sql.NullString  `db:"phone"` // NULL when the customer registered no phone
	Name          string          `db:"name"`
	Email         string          `db:"email"`
	Balance       decimal.Decimal `db:"balance"`
	AuditFields
}
