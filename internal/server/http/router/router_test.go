package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mr-tron/base58"

	"github.com/polkiloo/savingsvault/internal/app"
	"github.com/polkiloo/savingsvault/internal/domain/model"
	"github.com/polkiloo/savingsvault/internal/metrics"
	"github.com/polkiloo/savingsvault/internal/pkg/auth"
	"github.com/polkiloo/savingsvault/internal/pkg/pda"
	"github.com/polkiloo/savingsvault/internal/server/http/dto"
	"github.com/polkiloo/savingsvault/internal/server/http/handlers"
	"github.com/polkiloo/savingsvault/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/savingsvault/internal/test"
	"github.com/polkiloo/savingsvault/internal/usecase"
)

type routerFixture struct {
	engine  *gin.Engine
	store   *testhelpers.MemoryStore
	deriver *pda.Deriver
	admin   testhelpers.Signer
	mint    model.Address
}

func newRouterFixture() *routerFixture {
	var program, ledger model.Address
	program[0], ledger[0] = 0x11, 0x22

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := testhelpers.NewMemoryStore()
	deriver := pda.NewDeriver(program, ledger)
	verifier := auth.NewSignatureVerifier()
	m := metrics.New()
	custodian := usecase.NewVaultCustodian(usecase.CustodianParams{
		Vaults:   store.Vaults(),
		Accounts: store.Accounts(),
		Ledger:   store.Ledger(),
		Deriver:  deriver,
		Verifier: verifier,
		Logger:   logger,
	})
	registry := usecase.NewAccountRegistry(store.Accounts(), store.Ledger(), custodian, deriver, verifier, logger)
	engine := usecase.NewDepositEngine(store.Vaults(), store.Ledger(), store.Deposits(), verifier, m, logger)
	facade := app.NewVaultFacade(custodian, registry, engine, nil)

	return &routerFixture{
		engine:  Setup(facade, m, logger),
		store:   store,
		deriver: deriver,
		admin:   testhelpers.NewSigner(),
		mint:    testhelpers.RandomAddress(),
	}
}

func (f *routerFixture) do(t *testing.T, method, path string, body any, signer *testhelpers.Signer) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signer != nil {
		req.Header.Set(middleware.SignerHeader, signer.Identity.String())
		req.Header.Set(middleware.SignatureHeader, base58.Encode(signer.Sign(payload).Signature))
	}
	resp := httptest.NewRecorder()
	f.engine.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode %q: %v", resp.Body.String(), err)
	}
}

func TestSetupServesSignedVaultFlow(t *testing.T) {
	f := newRouterFixture()
	admin := f.admin
	open := dto.OpenVaultRequest{Admin: admin.Identity, Mint: f.mint}

	resp := f.do(t, http.MethodPost, "/api/v1/vaults", open, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unsigned request, got %d", resp.Code)
	}
	intruder := testhelpers.NewSigner()
	resp = f.do(t, http.MethodPost, "/api/v1/vaults", open, &intruder)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign signer, got %d", resp.Code)
	}

	resp = f.do(t, http.MethodPost, "/api/v1/vaults", open, &admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for new vault, got %d: %s", resp.Code, resp.Body.String())
	}
	var vault dto.VaultResponse
	decode(t, resp, &vault)
	if vault.Authority != vault.Address || vault.Admin != admin.Identity {
		t.Fatalf("unexpected vault %+v", vault)
	}
	resp = f.do(t, http.MethodPost, "/api/v1/vaults", open, &admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for existing vault, got %d", resp.Code)
	}

	owner := testhelpers.NewSigner()
	initialize := dto.InitializeAccountRequest{Owner: owner.Identity, Admin: admin.Identity, Mint: f.mint}
	resp = f.do(t, http.MethodPost, "/api/v1/accounts", initialize, &owner)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for account, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = f.do(t, http.MethodPost, "/api/v1/accounts", initialize, &owner)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate account, got %d", resp.Code)
	}

	source, err := f.deriver.Holding(admin.Identity, f.mint)
	if err != nil {
		t.Fatalf("derive holding: %v", err)
	}
	f.store.Fund(source, admin.Identity, f.mint, 1_000_000_000_000)

	depositPath := "/api/v1/vaults/" + vault.Address.String() + "/admin-deposits"
	deposit := dto.AdminDepositRequest{Vault: vault.Address, Admin: admin.Identity, Source: source, Amount: 1_000_000_000_000, Nonce: "first"}
	resp = f.do(t, http.MethodPost, depositPath, deposit, &admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for deposit, got %d: %s", resp.Code, resp.Body.String())
	}
	f.store.Fund(source, admin.Identity, f.mint, 1_000_000_000_000)
	for i := 0; i < 4; i++ {
		resp = f.do(t, http.MethodPost, depositPath, deposit, &admin)
		if resp.Code != http.StatusConflict {
			t.Fatalf("expected 409 for resent signed deposit, got %d", resp.Code)
		}
	}
	if balance, err := f.store.Ledger().Balance(context.Background(), source); err != nil || balance != 1_000_000_000_000 {
		t.Fatalf("resent deposits must not move funds, source=%d err=%v", balance, err)
	}
	resp = f.do(t, http.MethodPost, depositPath, dto.AdminDepositRequest{Vault: vault.Address, Admin: admin.Identity, Source: source, Amount: 1}, &admin)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for deposit without nonce, got %d", resp.Code)
	}
	resp = f.do(t, http.MethodPost, depositPath, dto.AdminDepositRequest{Vault: vault.Address, Admin: admin.Identity, Source: source, Amount: 2_000_000_000_000, Nonce: "second"}, &admin)
	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402 for overdrawn source, got %d", resp.Code)
	}
	resp = f.do(t, http.MethodPost, depositPath, dto.AdminDepositRequest{Vault: vault.Address, Admin: admin.Identity, Source: source, Nonce: "third"}, &admin)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for zero amount, got %d", resp.Code)
	}

	resp = f.do(t, http.MethodGet, "/api/v1/vaults/"+vault.Address.String(), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for summary, got %d", resp.Code)
	}
	var summary dto.VaultSummaryResponse
	decode(t, resp, &summary)
	if summary.LedgerBalance != 1_000_000_000_000 || summary.Reserve != 1_000_000_000_000 || !summary.Balanced || summary.Accounts != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	resp = f.do(t, http.MethodGet, "/api/v1/vaults/"+vault.Address.String()+"/deposits", nil, nil)
	var deposits []dto.DepositResponse
	decode(t, resp, &deposits)
	if len(deposits) != 1 || deposits[0].Nonce != "first" {
		t.Fatalf("unexpected journal %+v", deposits)
	}

	resp = f.do(t, http.MethodGet, "/api/v1/vaults/"+vault.Address.String()+"/accounts", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for vault accounts, got %d", resp.Code)
	}

	resp = f.do(t, http.MethodGet, "/api/v1/accounts/"+owner.Identity.String()+"?admin="+admin.Identity.String()+"&mint="+f.mint.String(), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for account lookup, got %d", resp.Code)
	}
	var account dto.AccountResponse
	decode(t, resp, &account)
	if account.Balance != 0 || account.Vault != vault.Address {
		t.Fatalf("admin deposits must not credit users, got %+v", account)
	}

	resp = f.do(t, http.MethodGet, "/api/v1/audit", nil, nil)
	var audit []dto.VaultSummaryResponse
	decode(t, resp, &audit)
	if len(audit) != 1 || !audit[0].Balanced || audit[0].Reserve != 1_000_000_000_000 {
		t.Fatalf("unexpected audit %+v", audit)
	}

	resp = f.do(t, http.MethodGet, "/api/v1/vaults", nil, nil)
	var vaults []dto.VaultResponse
	decode(t, resp, &vaults)
	if len(vaults) != 1 {
		t.Fatalf("expected one vault, got %d", len(vaults))
	}
}

func TestSetupServesHealthAndMetrics(t *testing.T) {
	f := newRouterFixture()

	resp := f.do(t, http.MethodGet, "/healthz", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for health, got %d", resp.Code)
	}
	resp = f.do(t, http.MethodGet, "/api/v1/vaults/"+testhelpers.RandomAddress().String(), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown vault, got %d", resp.Code)
	}

	resp = f.do(t, http.MethodGet, "/metrics", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{
		"savingsvault_http_requests_total",
		`route="/api/v1/vaults/:vault"`,
		`route="/healthz"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metrics output to contain %s", want)
		}
	}
}

func TestSetupCompressesResponses(t *testing.T) {
	f := newRouterFixture()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	f.engine.ServeHTTP(resp, req)
	if resp.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, got headers %v", resp.Header())
	}
}

var _ handlers.SavingsFacade = (*app.VaultFacade)(nil)
