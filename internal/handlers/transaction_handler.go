package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"peppermint/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// TransactionRequest represents the payload for creating or updating a
// transaction. The amount is signed: positive credits the account, negative
// debits it.
type TransactionRequest struct {
	TransactionDate        string   `json:"transaction_date" binding:"required,not_blank"`
	TransactionDescription string   `json:"transaction_description" binding:"max=500"`
	TransactionCategory    string   `json:"transaction_category" binding:"max=100"`
	TransactionAmount      *float64 `json:"transaction_amount" binding:"required"`
}

// TransactionResponse represents a transaction in responses.
type TransactionResponse struct {
	ID                     string    `json:"id"`
	AccountID              string    `json:"account_id"`
	TransactionDate        time.Time `json:"transaction_date"`
	TransactionDescription string    `json:"transaction_description"`
	TransactionCategory    string    `json:"transaction_category"`
	TransactionAmount      float64   `json:"transaction_amount"`
}

// CreateTransaction records a transaction against an account
// @Summary     Create a transaction
// @Description Record a transaction and apply its amount to the account balance. Returns the account's full transaction list.
// @Tags        transaction
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       account_id path string true "Account ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {array} TransactionResponse "Account transactions after the insert"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     422 {object} ErrorResponse "Invalid input"
// @Router      /transaction/{account_id} [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	date, err := parseFlexibleTime(req.TransactionDate)
	if err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	accountID := c.Param("account_id")
	transactions, err := h.transactionService.CreateTransaction(user.ID, accountID,
		date, req.TransactionDescription, req.TransactionCategory, *req.TransactionAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "CREATE_TRANSACTION", "account", accountID, c.ClientIP(),
		map[string]interface{}{"amount": *req.TransactionAmount, "category": req.TransactionCategory})

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GetAccountTransactions lists an account's transactions
// @Summary     List account transactions
// @Description List all transactions of one of the caller's accounts, oldest first
// @Tags        transaction
// @Produce     json
// @Security    BearerAuth
// @Param       account_id path string true "Account ID"
// @Success     200 {array} TransactionResponse "Transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /transaction/{account_id} [get]
func (h *TransactionHandler) GetAccountTransactions(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetAccountTransactions(user.ID, c.Param("account_id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	services.SortByDate(transactions)
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GetUserTransactions lists the caller's transactions across all accounts
// @Summary     List all my transactions
// @Description Collect the transactions of every account the caller owns, oldest first
// @Tags        transaction
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} TransactionResponse "Transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transaction/ [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetUserTransactions(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	services.SortByDate(transactions)
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// UpdateTransaction overwrites a transaction's fields
// @Summary     Update a transaction
// @Description Overwrite a transaction and move the account balance from the old amount to the new one
// @Tags        transaction
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       account_id path string true "Account ID"
// @Param       transaction_id path string true "Transaction ID"
// @Param       request body TransactionRequest true "New transaction fields"
// @Success     200 {array} TransactionResponse "Account transactions after the update"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or transaction not found, or mismatch"
// @Failure     422 {object} ErrorResponse "Invalid input"
// @Router      /transaction/{account_id}/{transaction_id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	date, err := parseFlexibleTime(req.TransactionDate)
	if err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	accountID := c.Param("account_id")
	transactionID := c.Param("transaction_id")
	transactions, err := h.transactionService.UpdateTransaction(user.ID, accountID, transactionID,
		date, req.TransactionDescription, req.TransactionCategory, *req.TransactionAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "UPDATE_TRANSACTION", "transaction", transactionID, c.ClientIP(),
		map[string]interface{}{"amount": *req.TransactionAmount})

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// DeleteTransaction removes a transaction
// @Summary     Delete a transaction
// @Description Delete a transaction and debit its amount from the account balance
// @Tags        transaction
// @Security    BearerAuth
// @Param       account_id path string true "Account ID"
// @Param       transaction_id path string true "Transaction ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or transaction not found, or mismatch"
// @Router      /transaction/{account_id}/{transaction_id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID := c.Param("account_id")
	transactionID := c.Param("transaction_id")
	if err := h.transactionService.DeleteTransaction(user.ID, accountID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
