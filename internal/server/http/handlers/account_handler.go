package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/savingsvault/internal/domain/model"
	"github.com/polkiloo/savingsvault/internal/server/http/dto"
)

// AccountHandler manages user account endpoints.
type AccountHandler struct {
	facade AccountFacade
}

// NewAccountHandler constructs AccountHandler.
func NewAccountHandler(facade AccountFacade) *AccountHandler {
	return &AccountHandler{facade: facade}
}

// Initialize handles POST /api/v1/accounts.
func (h *AccountHandler) Initialize(c *gin.Context) {
	var req dto.InitializeAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	account, err := h.facade.InitializeAccount(c.Request.Context(), req.Owner, req.Admin, req.Mint, CurrentProof(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAccountResponse(*account))
}

// Get handles GET /api/v1/accounts/:owner?admin=&mint=.
func (h *AccountHandler) Get(c *gin.Context) {
	owner, ok := addressParam(c, "owner")
	if !ok {
		return
	}
	admin, err := model.ParseAddress(c.Query("admin"))
	if err != nil {
		badRequest(c, err)
		return
	}
	mint, err := model.ParseAddress(c.Query("mint"))
	if err != nil {
		badRequest(c, err)
		return
	}

	account, err := h.facade.Account(c.Request.Context(), owner, admin, mint)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAccountResponse(*account))
}
