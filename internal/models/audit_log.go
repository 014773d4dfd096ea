package models

import "time"

// AuditLog is one settled operator action against the vendor API.
type AuditLog struct {
	ID        string    `db:"id" json:"id"`
	Operator  string    `db:"operator" json:"operator"`
	Action    string    `db:"action" json:"action"`
	RecordID  string    `db:"record_id" json:"recordId"`
	Success   bool      `db:"success" json:"success"`
	Detail    string    `db:"detail" json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
