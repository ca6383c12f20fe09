package test

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/savingsvault/internal/domain/errors"
	"github.com/polkiloo/savingsvault/internal/domain/model"
)

// AuditorStub serves fixed vault summaries to the reconciler.
type AuditorStub struct {
	sync.Mutex
	Summaries map[model.Address]model.VaultSummary
	ListErr   error
	Checked   []model.Address
}

// Vaults returns the vaults of all configured summaries.
func (a *AuditorStub) Vaults(context.Context) ([]model.VaultAccount, error) {
	a.Lock()
	defer a.Unlock()
	if a.ListErr != nil {
		return nil, a.ListErr
	}
	result := make([]model.VaultAccount, 0, len(a.Summaries))
	for _, s := range a.Summaries {
		result = append(result, s.Vault)
	}
	return result, nil
}

// VaultSummary returns the configured summary for vault.
func (a *AuditorStub) VaultSummary(_ context.Context, vault model.Address) (*model.VaultSummary, error) {
	a.Lock()
	defer a.Unlock()
	a.Checked = append(a.Checked, vault)
	s, ok := a.Summaries[vault]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &s, nil
}

// AuditObserverStub records audit outcomes.
type AuditObserverStub struct {
	sync.Mutex
	Summaries []model.VaultSummary
	Errors    []error
}

// VaultAudited records summary or err.
func (o *AuditObserverStub) VaultAudited(summary *model.VaultSummary, err error) {
	o.Lock()
	defer o.Unlock()
	if err != nil {
		o.Errors = append(o.Errors, err)
		return
	}
	o.Summaries = append(o.Summaries, *summary)
}

// Seen returns the number of recorded outcomes.
func (o *AuditObserverStub) Seen() (summaries, errs int) {
	o.Lock()
	defer o.Unlock()
	return len(o.Summaries), len(o.Errors)
}
