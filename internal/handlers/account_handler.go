package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peppermint/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
	auditService   services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, auditService: auditService}
}

// AccountRequest represents the payload for creating or updating an account.
// An update overwrites all three fields; the balance is written as given and
// is not reconciled against the account's transactions.
type AccountRequest struct {
	Institution    string  `json:"institution" binding:"required,not_blank,max=255"`
	AccountType    string  `json:"account_type" binding:"required,not_blank,max=100"`
	CurrentBalance float64 `json:"current_balance"`
}

// AccountResponse represents an account in responses.
type AccountResponse struct {
	ID             string  `json:"id"`
	Institution    string  `json:"institution"`
	AccountType    string  `json:"account_type"`
	CurrentBalance float64 `json:"current_balance"`
	UserID         string  `json:"user_id"`
}

// CreateAccount handles account creation
// @Summary     Create an account
// @Description Create a bank account record for the authenticated user
// @Tags        account
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AccountRequest true "Account details"
// @Success     200 {object} AccountResponse "Account created"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Invalid input"
// @Router      /account/ [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	account, err := h.accountService.CreateAccount(user.ID, req.Institution, req.AccountType, req.CurrentBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "CREATE_ACCOUNT", "account", account.ID, c.ClientIP(),
		map[string]interface{}{"institution": req.Institution, "account_type": req.AccountType})

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// GetMyAccounts lists the caller's accounts
// @Summary     List my accounts
// @Description List all accounts owned by the authenticated user
// @Tags        account
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} AccountResponse "Accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /account/my_accounts [get]
func (h *AccountHandler) GetMyAccounts(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.accountService.GetUserAccounts(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// GetAccountByID fetches one of the caller's accounts
// @Summary     Get an account
// @Description Get one of the authenticated user's accounts by id
// @Tags        account
// @Produce     json
// @Security    BearerAuth
// @Param       account_id path string true "Account ID"
// @Success     200 {object} AccountResponse "Account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /account/{account_id} [get]
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(user.ID, c.Param("account_id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount overwrites an account's editable fields
// @Summary     Update an account
// @Description Overwrite institution, account type and balance of an account
// @Tags        account
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       account_id path string true "Account ID"
// @Param       request body AccountRequest true "New account fields"
// @Success     200 {object} AccountResponse "Updated account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     422 {object} ErrorResponse "Invalid input"
// @Router      /account/{account_id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	account, err := h.accountService.UpdateAccount(user.ID, c.Param("account_id"),
		req.Institution, req.AccountType, req.CurrentBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "UPDATE_ACCOUNT", "account", account.ID, c.ClientIP(),
		map[string]interface{}{"institution": req.Institution, "current_balance": req.CurrentBalance})

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount removes an account and its transactions
// @Summary     Delete an account
// @Description Delete an account together with its transactions
// @Tags        account
// @Security    BearerAuth
// @Param       account_id path string true "Account ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /account/{account_id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID := c.Param("account_id")
	if err := h.accountService.DeleteAccount(user.ID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "DELETE_ACCOUNT", "account", accountID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
