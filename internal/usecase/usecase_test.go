package usecase

import (
	"io"
	"log/slog"

	"github.com/polkiloo/savingsvault/internal/domain/model"
	"github.com/polkiloo/savingsvault/internal/pkg/auth"
	"github.com/polkiloo/savingsvault/internal/pkg/pda"
	testhelpers "github.com/polkiloo/savingsvault/internal/test"
)

type fixture struct {
	store     *testhelpers.MemoryStore
	deriver   *pda.Deriver
	custodian *VaultCustodian
	registry  *AccountRegistry
	engine    *DepositEngine
	observer  *testhelpers.ObserverStub
	admin     testhelpers.Signer
	mint      model.Address
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newFixture(verifier auth.Verifier) *fixture {
	var program, ledger, mint model.Address
	program[0], ledger[0], mint[0] = 0xA1, 0xB2, 0xC3

	store := testhelpers.NewMemoryStore()
	deriver := pda.NewDeriver(program, ledger)
	logger := discardLogger()
	custodian := NewVaultCustodian(CustodianParams{
		Vaults:   store.Vaults(),
		Accounts: store.Accounts(),
		Ledger:   store.Ledger(),
		Deriver:  deriver,
		Verifier: verifier,
		Logger:   logger,
	})
	observer := &testhelpers.ObserverStub{}
	return &fixture{
		store:     store,
		deriver:   deriver,
		custodian: custodian,
		registry:  NewAccountRegistry(store.Accounts(), store.Ledger(), custodian, deriver, verifier, logger),
		engine:    NewDepositEngine(store.Vaults(), store.Ledger(), store.Deposits(), verifier, observer, logger),
		observer:  observer,
		admin:     testhelpers.NewSigner(),
		mint:      mint,
	}
}

func newSignedFixture() *fixture {
	return newFixture(auth.NewSignatureVerifier())
}

// adminHolding creates and funds the admin's token holding.
func (f *fixture) adminHolding(amount uint64) model.Address {
	addr, err := f.deriver.Holding(f.admin.Identity, f.mint)
	if err != nil {
		panic(err)
	}
	f.store.Fund(addr, f.admin.Identity, f.mint, amount)
	return addr
}

// deposit builds an admin deposit with a fresh nonce, signed over its intent.
func (f *fixture) deposit(amount uint64, source, vault model.Address) AdminDeposit {
	req := AdminDeposit{
		Amount: amount,
		Admin:  f.admin.Identity,
		Source: source,
		Vault:  vault,
		Nonce:  testhelpers.RandomNonce(16),
	}
	return resign(req, f.admin)
}

// resign replaces the request proof with signer's signature over the current intent.
func resign(req AdminDeposit, signer testhelpers.Signer) AdminDeposit {
	req.Proof = signer.Sign(req.Intent().Message())
	return req
}
