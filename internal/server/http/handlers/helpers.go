package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/savingsvault/internal/domain/errors"
	"github.com/polkiloo/savingsvault/internal/domain/model"
	"github.com/polkiloo/savingsvault/internal/server/http/dto"
	"github.com/polkiloo/savingsvault/internal/server/http/middleware"
)

// CurrentProof extracts the signer proof attached by middleware.SignedRequest.
func CurrentProof(c *gin.Context) model.Proof {
	val, ok := c.Get(middleware.ProofContextKey)
	if !ok {
		return model.Proof{}
	}
	proof, _ := val.(model.Proof)
	return proof
}

// ErrorStatus maps domain errors onto HTTP status codes.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrAlreadyExists), errors.Is(err, domainErrors.ErrAccountAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, domainErrors.ErrFunds), errors.Is(err, domainErrors.ErrNonceRequired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := ErrorStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.Status(status)
		return
	}
	c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
}

func addressParam(c *gin.Context, name string) (model.Address, bool) {
	address, err := model.ParseAddress(c.Param(name))
	if err != nil {
		badRequest(c, err)
		return model.Address{}, false
	}
	return address, true
}

func toVaultResponse(v model.VaultAccount) dto.VaultResponse {
	return dto.VaultResponse{
		Address:   v.Address,
		Admin:     v.Admin,
		Mint:      v.Mint,
		Authority: v.Authority,
		Holding:   v.Holding,
		Bump:      v.Bump,
		Reserve:   v.Reserve,
		CreatedAt: v.CreatedAt,
	}
}

func toAccountResponse(a model.UserAccount) dto.AccountResponse {
	return dto.AccountResponse{
		Address:   a.Address,
		Owner:     a.Owner,
		Vault:     a.Vault,
		Mint:      a.Mint,
		Holding:   a.Holding,
		Balance:   a.Balance,
		Bump:      a.Bump,
		CreatedAt: a.CreatedAt,
	}
}

func toDepositResponse(d model.Deposit) dto.DepositResponse {
	return dto.DepositResponse{
		ID:          d.ID.String(),
		Vault:       d.Vault,
		Admin:       d.Admin,
		Source:      d.Source,
		Amount:      d.Amount,
		Nonce:       d.Nonce,
		Status:      string(d.Status),
		CommittedAt: d.CommittedAt,
	}
}

func toSummaryResponse(summary model.VaultSummary) dto.VaultSummaryResponse {
	return dto.VaultSummaryResponse{
		Vault:         toVaultResponse(summary.Vault),
		LedgerBalance: summary.LedgerBalance,
		Reserve:       summary.Vault.Reserve,
		UserClaims:    summary.UserClaims,
		Accounts:      summary.Accounts,
		Drift:         summary.Drift(),
		Balanced:      summary.Balanced(),
	}
}
