package models

import (
	"time"
)

// FlowRecord is the persisted audit trail of one transaction flow session.
// Updated on every state transition; queried by the history API.
type FlowRecord struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Kind        string `gorm:"type:varchar(16);index" json:"kind"`
	UserAddress string `gorm:"type:varchar(42);index" json:"user_address"`
	Asset       string `gorm:"type:varchar(42)" json:"asset"`
	ChainID     uint64 `gorm:"index" json:"chain_id"`
	DestChainID uint64 `json:"dest_chain_id"`
	Amount      string `gorm:"type:varchar(80)" json:"amount"`

	Phase        string `gorm:"type:varchar(20);index" json:"phase"`
	ApprovalHash string `gorm:"type:varchar(66)" json:"approval_hash"`
	PrimaryHash  string `gorm:"type:varchar(66);index" json:"primary_hash"`
	Error        string `gorm:"type:text" json:"error,omitempty"`

	SettlementStatus string `gorm:"type:varchar(16)" json:"settlement_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (FlowRecord) TableName() string {
	return "flow_records"
}

// SettlementRecord tracks the resolution of one cross-chain settlement leg.
type SettlementRecord struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SourceTxHash string     `gorm:"type:varchar(66);uniqueIndex" json:"source_tx_hash"`
	Status       string     `gorm:"type:varchar(16)" json:"status"`
	Attempts     int        `json:"attempts"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName overrides the table name
func (SettlementRecord) TableName() string {
	return "settlement_records"
}
