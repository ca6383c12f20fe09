// Package pda derives program-owned custody addresses.
//
// An address is sha256(seeds || bump || program || marker) and is accepted only when the
// digest is not a valid ed25519 point, so no private key can ever sign for it.
package pda

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"

	domainErrors "github.com/polkiloo/savingsvault/internal/domain/errors"
	"github.com/polkiloo/savingsvault/internal/domain/model"
)

const (
	// MaxSeedLength is the largest single seed accepted by the ledger.
	MaxSeedLength = 32
	// MaxSeeds bounds the number of seeds, bump included.
	MaxSeeds = 16

	marker = "ProgramDerivedAddress"
)

// Seed tags for addresses owned by the savings program.
var (
	VaultSeed = []byte("vault")
	UserSeed  = []byte("user")
)

// AssociatedTokenProgram derives the canonical holding of an owner for a mint.
var AssociatedTokenProgram = model.MustParseAddress("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

// isOnCurve is swapped in tests to force exhaustion.
var isOnCurve = func(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateAddress computes the address for seeds that already include the bump.
func CreateAddress(seeds [][]byte, program model.Address) (model.Address, error) {
	var out model.Address
	if len(seeds) > MaxSeeds {
		return out, fmt.Errorf("%w: %d seeds", domainErrors.ErrTooManySeeds, len(seeds))
	}
	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return out, fmt.Errorf("%w: seed %d has %d bytes", domainErrors.ErrSeedTooLong, i, len(s))
		}
		h.Write(s)
	}
	h.Write(program[:])
	h.Write([]byte(marker))
	sum := h.Sum(nil)
	if isOnCurve(sum) {
		return out, errOnCurve
	}
	copy(out[:], sum)
	return out, nil
}

var errOnCurve = errors.New("derived address lies on the ed25519 curve")

// Derive searches bumps from 255 down to 0 and returns the first off-curve address.
func Derive(seeds [][]byte, program model.Address) (model.Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return model.Address{}, 0, fmt.Errorf("%w: %d seeds", domainErrors.ErrTooManySeeds, len(seeds))
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	bump := []byte{0}
	withBump[len(seeds)] = bump

	for b := 255; b >= 0; b-- {
		bump[0] = byte(b)
		addr, err := CreateAddress(withBump, program)
		if err == nil {
			return addr, uint8(b), nil
		}
		if err != errOnCurve {
			return model.Address{}, 0, err
		}
	}
	return model.Address{}, 0, domainErrors.ErrDerivationExhausted
}

// Deriver binds derivations to the savings program and the token ledger program.
type Deriver struct {
	Program model.Address
	Ledger  model.Address
}

// NewDeriver constructs Deriver.
func NewDeriver(program, ledger model.Address) *Deriver {
	return &Deriver{Program: program, Ledger: ledger}
}

// Vault derives the custody address for admin and mint.
func (d *Deriver) Vault(admin, mint model.Address) (model.Address, uint8, error) {
	return Derive([][]byte{VaultSeed, admin[:], mint[:]}, d.Program)
}

// UserAccount derives the entitlement record address of owner within vault.
func (d *Deriver) UserAccount(owner, vault model.Address) (model.Address, uint8, error) {
	return Derive([][]byte{UserSeed, owner[:], vault[:]}, d.Program)
}

// Holding derives the associated token holding of owner for mint issued by the ledger program.
func (d *Deriver) Holding(owner, mint model.Address) (model.Address, error) {
	addr, _, err := Derive([][]byte{owner[:], d.Ledger[:], mint[:]}, AssociatedTokenProgram)
	return addr, err
}
