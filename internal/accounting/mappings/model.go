package mappings

import "time"

// AccountMapping links a posting key to a ledger account. Modules
// resolve their control and tax accounts through these rows instead of
// hard-coded account codes: AP/control, AP/bank, GST/input.cgst and so
// on.
type AccountMapping struct {
	Module    string    `json:"module"`
	Key       string    `json:"key"`
	AccountID int64     `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MappingDetail is the list projection joined with account identity.
type MappingDetail struct {
	AccountMapping
	AccountCode string `json:"account_code"`
	AccountName string `json:"account_name"`
}

// Posting keys resolved by the payables and tax modules.
const (
	ModuleAP  = "AP"
	ModuleGST = "GST"
	ModuleTDS = "TDS"

	KeyAPControl    = "control"
	KeyAPBank       = "bank"
	KeyAPExpense    = "expense.default"
	KeyGSTInputCGST = "input.cgst"
	KeyGSTInputSGST = "input.sgst"
	KeyGSTInputIGST = "input.igst"
	KeyGSTInputCess = "input.cess"
	KeyTDSPayable   = "payable"
)
