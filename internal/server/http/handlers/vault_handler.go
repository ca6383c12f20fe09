package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/savingsvault/internal/server/http/dto"
)

// VaultHandler manages vault endpoints.
type VaultHandler struct {
	facade VaultFacade
}

// NewVaultHandler constructs VaultHandler.
func NewVaultHandler(facade VaultFacade) *VaultHandler {
	return &VaultHandler{facade: facade}
}

// Open handles POST /api/v1/vaults.
func (h *VaultHandler) Open(c *gin.Context) {
	var req dto.OpenVaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	vault, created, err := h.facade.OpenVault(c.Request.Context(), req.Admin, req.Mint, CurrentProof(c))
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, toVaultResponse(*vault))
}

// List handles GET /api/v1/vaults.
func (h *VaultHandler) List(c *gin.Context) {
	vaults, err := h.facade.Vaults(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if len(vaults) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.VaultResponse, 0, len(vaults))
	for _, v := range vaults {
		response = append(response, toVaultResponse(v))
	}
	c.JSON(http.StatusOK, response)
}

// Summary handles GET /api/v1/vaults/:vault.
func (h *VaultHandler) Summary(c *gin.Context) {
	address, ok := addressParam(c, "vault")
	if !ok {
		return
	}

	summary, err := h.facade.VaultSummary(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSummaryResponse(*summary))
}

// Audit handles GET /api/v1/audit.
func (h *VaultHandler) Audit(c *gin.Context) {
	summaries, err := h.facade.Audit(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if len(summaries) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.VaultSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, toSummaryResponse(s))
	}
	c.JSON(http.StatusOK, response)
}

// Accounts handles GET /api/v1/vaults/:vault/accounts.
func (h *VaultHandler) Accounts(c *gin.Context) {
	address, ok := addressParam(c, "vault")
	if !ok {
		return
	}

	accounts, err := h.facade.VaultAccounts(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(accounts) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		response = append(response, toAccountResponse(a))
	}
	c.JSON(http.StatusOK, response)
}
