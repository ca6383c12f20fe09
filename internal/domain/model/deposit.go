package model

import (
	"time"

	"github.com/google/uuid"
)

// DepositStatus describes the lifecycle of an admin deposit request.
type DepositStatus string

const (
	DepositStatusRequested DepositStatus = "REQUESTED"
	DepositStatusValidated DepositStatus = "VALIDATED"
	DepositStatusCommitted DepositStatus = "COMMITTED"
	DepositStatusRejected  DepositStatus = "REJECTED"
)

// Deposit is a journal entry for a committed transfer into a vault.
type Deposit struct {
	ID          uuid.UUID
	Vault       Address
	Admin       Address
	Source      Address
	Amount      uint64
	Nonce       string
	Status      DepositStatus
	CommittedAt time.Time
}
