package models

// Session is the payload stored under an opaque token in the TTL store. Kind
// routes the resolved account to the staff or student table.
type Session struct {
	AccountID string      `json:"account_id"`
	Kind      AccountKind `json:"kind"`
}
