package integration

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"peppermint/internal/models"
)

// TestTransactionLifecycle walks an account through the full transaction
// lifecycle and checks the balance after every step.
func TestTransactionLifecycle(t *testing.T) {
	router, _ := newTestServer(t)

	registerUser(t, router, "lifecycle_user", "password123")
	token := loginUser(t, router, "lifecycle_user", "password123")

	accountID := createAccount(t, router, token, "Lifecycle Bank", 0)
	if got := accountBalance(t, router, token, accountID); got != 0 {
		t.Fatalf("expected starting balance 0, got %f", got)
	}

	// Create: +100
	w := doJSON(router, http.MethodPost, "/peppermint/transaction/"+accountID, token, gin.H{
		"transaction_date":        "2024-06-15",
		"transaction_description": "paycheck",
		"transaction_category":    "income",
		"transaction_amount":      100.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create transaction: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var listResp struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	decode(t, w, &listResp)
	if len(listResp.Transactions) != 1 {
		t.Fatalf("expected 1 transaction in response, got %d", len(listResp.Transactions))
	}
	transactionID := listResp.Transactions[0].ID

	if got := accountBalance(t, router, token, accountID); got != 100 {
		t.Fatalf("expected balance 100 after create, got %f", got)
	}

	// Update: 100 -> 50
	w = doJSON(router, http.MethodPut, "/peppermint/transaction/"+accountID+"/"+transactionID, token, gin.H{
		"transaction_date":        "2024-06-15",
		"transaction_description": "paycheck (corrected)",
		"transaction_category":    "income",
		"transaction_amount":      50.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update transaction: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if got := accountBalance(t, router, token, accountID); got != 50 {
		t.Fatalf("expected balance 50 after update, got %f", got)
	}

	// Delete: balance returns to 0
	w = doJSON(router, http.MethodDelete, "/peppermint/transaction/"+accountID+"/"+transactionID, token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete transaction: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	if got := accountBalance(t, router, token, accountID); got != 0 {
		t.Fatalf("expected balance 0 after delete, got %f", got)
	}

	w = doJSON(router, http.MethodGet, "/peppermint/transaction/"+accountID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list transactions: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &listResp)
	if len(listResp.Transactions) != 0 {
		t.Errorf("expected empty transaction list, got %d entries", len(listResp.Transactions))
	}
}

func TestTransactionAccountMismatch(t *testing.T) {
	router, _ := newTestServer(t)

	registerUser(t, router, "mismatch_user", "password123")
	token := loginUser(t, router, "mismatch_user", "password123")

	firstID := createAccount(t, router, token, "First Bank", 0)
	secondID := createAccount(t, router, token, "Second Bank", 0)

	w := doJSON(router, http.MethodPost, "/peppermint/transaction/"+firstID, token, gin.H{
		"transaction_date":   "2024-06-15",
		"transaction_amount": 100.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create transaction: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var listResp struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	decode(t, w, &listResp)
	transactionID := listResp.Transactions[0].ID

	// Pairing the transaction with the wrong account reads as not found.
	w = doJSON(router, http.MethodPut, "/peppermint/transaction/"+secondID+"/"+transactionID, token, gin.H{
		"transaction_date":   "2024-06-15",
		"transaction_amount": 999.0,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for mismatched pair, got %d: %s", w.Code, w.Body.String())
	}

	// Neither balance moved.
	if got := accountBalance(t, router, token, firstID); got != 100 {
		t.Errorf("expected first balance unchanged at 100, got %f", got)
	}
	if got := accountBalance(t, router, token, secondID); got != 0 {
		t.Errorf("expected second balance unchanged at 0, got %f", got)
	}
}

func TestAccountsAreOwnerScoped(t *testing.T) {
	router, _ := newTestServer(t)

	registerUser(t, router, "owner_user", "password123")
	registerUser(t, router, "intruder_user", "password123")
	ownerToken := loginUser(t, router, "owner_user", "password123")
	intruderToken := loginUser(t, router, "intruder_user", "password123")

	accountID := createAccount(t, router, ownerToken, "Private Bank", 500)

	w := doJSON(router, http.MethodGet, "/peppermint/account/"+accountID, intruderToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's account, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(router, http.MethodDelete, "/peppermint/account/"+accountID, intruderToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting another user's account, got %d: %s", w.Code, w.Body.String())
	}

	// The owner still sees it.
	if got := accountBalance(t, router, ownerToken, accountID); got != 500 {
		t.Errorf("expected owner balance 500, got %f", got)
	}
}

func TestDeleteAccountRemovesTransactions(t *testing.T) {
	router, _ := newTestServer(t)

	registerUser(t, router, "cascade_user", "password123")
	token := loginUser(t, router, "cascade_user", "password123")

	accountID := createAccount(t, router, token, "Cascade Bank", 0)
	w := doJSON(router, http.MethodPost, "/peppermint/transaction/"+accountID, token, gin.H{
		"transaction_date":   "2024-06-15",
		"transaction_amount": 10.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create transaction: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(router, http.MethodDelete, "/peppermint/account/"+accountID, token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete account: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	// The user-wide transaction feed is empty again.
	w = doJSON(router, http.MethodGet, "/peppermint/transaction", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list transactions: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var listResp struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	decode(t, w, &listResp)
	if len(listResp.Transactions) != 0 {
		t.Errorf("expected no transactions after account deletion, got %d", len(listResp.Transactions))
	}
}

func TestUserTransactionFeedSortedAcrossAccounts(t *testing.T) {
	router, _ := newTestServer(t)

	registerUser(t, router, "feed_user", "password123")
	token := loginUser(t, router, "feed_user", "password123")

	firstID := createAccount(t, router, token, "Feed Bank A", 0)
	secondID := createAccount(t, router, token, "Feed Bank B", 0)

	// Interleave dates across the two accounts, inserted out of order.
	entries := []struct {
		account string
		date    string
		amount  float64
	}{
		{firstID, "2024-06-03", 3},
		{secondID, "2024-06-01", 1},
		{firstID, "2024-06-02", 2},
	}
	for _, e := range entries {
		w := doJSON(router, http.MethodPost, "/peppermint/transaction/"+e.account, token, gin.H{
			"transaction_date":   e.date,
			"transaction_amount": e.amount,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("create transaction: expected 200, got %d: %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(router, http.MethodGet, "/peppermint/transaction", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list transactions: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var listResp struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	decode(t, w, &listResp)
	if len(listResp.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(listResp.Transactions))
	}
	for i, want := range []float64{1, 2, 3} {
		if listResp.Transactions[i].TransactionAmount != want {
			t.Errorf("position %d: expected amount %v, got %v", i, want, listResp.Transactions[i].TransactionAmount)
		}
	}
}
