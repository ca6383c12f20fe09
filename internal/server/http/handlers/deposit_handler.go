package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/savingsvault/internal/server/http/dto"
	"github.com/polkiloo/savingsvault/internal/usecase"
)

var errVaultMismatch = errors.New("signed vault does not match path")

// DepositHandler manages admin deposit endpoints.
type DepositHandler struct {
	facade DepositFacade
}

// NewDepositHandler constructs DepositHandler.
func NewDepositHandler(facade DepositFacade) *DepositHandler {
	return &DepositHandler{facade: facade}
}

// AdminDeposit handles POST /api/v1/vaults/:vault/admin-deposits.
func (h *DepositHandler) AdminDeposit(c *gin.Context) {
	vault, ok := addressParam(c, "vault")
	if !ok {
		return
	}
	var req dto.AdminDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Vault != vault {
		badRequest(c, errVaultMismatch)
		return
	}

	deposit, err := h.facade.AdminDeposit(c.Request.Context(), usecase.AdminDeposit{
		Amount: req.Amount,
		Admin:  req.Admin,
		Source: req.Source,
		Vault:  vault,
		Nonce:  req.Nonce,
		Proof:  CurrentProof(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDepositResponse(*deposit))
}

// List handles GET /api/v1/vaults/:vault/deposits.
func (h *DepositHandler) List(c *gin.Context) {
	vault, ok := addressParam(c, "vault")
	if !ok {
		return
	}

	deposits, err := h.facade.Deposits(c.Request.Context(), vault)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(deposits) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.DepositResponse, 0, len(deposits))
	for _, d := range deposits {
		response = append(response, toDepositResponse(d))
	}
	c.JSON(http.StatusOK, response)
}
