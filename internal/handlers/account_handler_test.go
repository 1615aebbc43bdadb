package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "peppermint/internal/errors"
	"peppermint/internal/models"
)

func newAccountTestRouter(accounts *mockAccountService, audit *mockAuditService) *gin.Engine {
	handler := NewAccountHandler(accounts, audit)

	router := gin.New()
	authed := router.Group("/", injectUser(authedUser()))
	authed.POST("/account", handler.CreateAccount)
	authed.GET("/account/my_accounts", handler.GetMyAccounts)
	authed.GET("/account/:account_id", handler.GetAccountByID)
	authed.PUT("/account/:account_id", handler.UpdateAccount)
	authed.DELETE("/account/:account_id", handler.DeleteAccount)
	return router
}

func testAccount(balance float64) *models.Account {
	account := &models.Account{
		UserID:         authedUser().ID,
		Institution:    "HSBC",
		AccountType:    "checking",
		CurrentBalance: balance,
	}
	account.ID = "44444444-4444-4444-4444-444444444444"
	return account
}

func TestCreateAccountEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		audit := &mockAuditService{}
		accounts := &mockAccountService{
			createAccountFn: func(userID, institution, accountType string, initialBalance float64) (*models.Account, error) {
				account := testAccount(initialBalance)
				account.Institution = institution
				account.AccountType = accountType
				return account, nil
			},
		}
		router := newAccountTestRouter(accounts, audit)

		w := performJSON(router, http.MethodPost, "/account", gin.H{
			"institution":     "HSBC",
			"account_type":    "savings",
			"current_balance": 100.50,
		})

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Account models.Account `json:"account"`
		}
		decodeBody(t, w, &resp)
		if resp.Account.Institution != "HSBC" {
			t.Errorf("expected institution HSBC, got %s", resp.Account.Institution)
		}
		if resp.Account.CurrentBalance != 100.50 {
			t.Errorf("expected balance 100.50, got %f", resp.Account.CurrentBalance)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_ACCOUNT" {
			t.Errorf("expected CREATE_ACCOUNT audit entry, got %v", audit.actions)
		}
	})

	t.Run("blank_institution", func(t *testing.T) {
		router := newAccountTestRouter(&mockAccountService{}, &mockAuditService{})

		w := performJSON(router, http.MethodPost, "/account", gin.H{
			"institution":  "   ",
			"account_type": "savings",
		})

		assertErrorCode(t, w, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	})

	t.Run("missing_account_type", func(t *testing.T) {
		router := newAccountTestRouter(&mockAccountService{}, &mockAuditService{})

		w := performJSON(router, http.MethodPost, "/account", gin.H{
			"institution": "HSBC",
		})

		assertErrorCode(t, w, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	})
}

func TestGetMyAccountsEndpoint(t *testing.T) {
	t.Run("lists_accounts", func(t *testing.T) {
		accounts := &mockAccountService{
			getUserAccountsFn: func(userID string) ([]models.Account, error) {
				return []models.Account{*testAccount(10), *testAccount(20)}, nil
			},
		}
		router := newAccountTestRouter(accounts, &mockAuditService{})

		w := performJSON(router, http.MethodGet, "/account/my_accounts", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Accounts []models.Account `json:"accounts"`
		}
		decodeBody(t, w, &resp)
		if len(resp.Accounts) != 2 {
			t.Errorf("expected 2 accounts, got %d", len(resp.Accounts))
		}
	})
}

func TestGetAccountByIDEndpoint(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		accounts := &mockAccountService{
			getAccountByIDFn: func(userID, accountID string) (*models.Account, error) {
				return testAccount(55), nil
			},
		}
		router := newAccountTestRouter(accounts, &mockAuditService{})

		w := performJSON(router, http.MethodGet, "/account/44444444-4444-4444-4444-444444444444", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("not_found", func(t *testing.T) {
		accounts := &mockAccountService{
			getAccountByIDFn: func(userID, accountID string) (*models.Account, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		router := newAccountTestRouter(accounts, &mockAuditService{})

		w := performJSON(router, http.MethodGet, "/account/unknown", nil)
		assertErrorCode(t, w, http.StatusNotFound, "ACCOUNT_NOT_FOUND")
	})
}

func TestUpdateAccountEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotBalance float64
		accounts := &mockAccountService{
			updateAccountFn: func(userID, accountID, institution, accountType string, balance float64) (*models.Account, error) {
				gotBalance = balance
				account := testAccount(balance)
				account.Institution = institution
				return account, nil
			},
		}
		audit := &mockAuditService{}
		router := newAccountTestRouter(accounts, audit)

		w := performJSON(router, http.MethodPut, "/account/44444444-4444-4444-4444-444444444444", gin.H{
			"institution":     "New Bank",
			"account_type":    "savings",
			"current_balance": 777.0,
		})

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if gotBalance != 777 {
			t.Errorf("expected balance 777 forwarded to service, got %f", gotBalance)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "UPDATE_ACCOUNT" {
			t.Errorf("expected UPDATE_ACCOUNT audit entry, got %v", audit.actions)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		accounts := &mockAccountService{
			updateAccountFn: func(userID, accountID, institution, accountType string, balance float64) (*models.Account, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		router := newAccountTestRouter(accounts, &mockAuditService{})

		w := performJSON(router, http.MethodPut, "/account/unknown", gin.H{
			"institution":  "Bank",
			"account_type": "checking",
		})
		assertErrorCode(t, w, http.StatusNotFound, "ACCOUNT_NOT_FOUND")
	})
}

func TestDeleteAccountEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		accounts := &mockAccountService{
			deleteAccountFn: func(userID, accountID string) error { return nil },
		}
		audit := &mockAuditService{}
		router := newAccountTestRouter(accounts, audit)

		w := performJSON(router, http.MethodDelete, "/account/44444444-4444-4444-4444-444444444444", nil)

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
		}
		if len(audit.actions) != 1 || audit.actions[0] != "DELETE_ACCOUNT" {
			t.Errorf("expected DELETE_ACCOUNT audit entry, got %v", audit.actions)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		accounts := &mockAccountService{
			deleteAccountFn: func(userID, accountID string) error { return apperrors.ErrAccountNotFound },
		}
		router := newAccountTestRouter(accounts, &mockAuditService{})

		w := performJSON(router, http.MethodDelete, "/account/unknown", nil)
		assertErrorCode(t, w, http.StatusNotFound, "ACCOUNT_NOT_FOUND")
	})
}
