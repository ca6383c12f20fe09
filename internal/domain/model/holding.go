package model

// Holding is a ledger-level balance of one mint for one owner.
type Holding struct {
	Address Address
	Owner   Address
	Mint    Address
	Amount  uint64
}

// Transfer moves Amount from Source to Destination, signed by Authority.
type Transfer struct {
	Source      Address
	Destination Address
	Amount      uint64
	Authority   Address
}
