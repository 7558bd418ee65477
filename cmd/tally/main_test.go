package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/tally/pkg/client"
	"github.com/naveenspark/tally/pkg/domain"
)

// backend is a fake expense API. Requests must carry the current valid token.
type backend struct {
	mu    sync.Mutex
	valid string
}

func (b *backend) revoke() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.valid = "revoked"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func (b *backend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		ok := r.Header.Get("Authorization") == "Bearer "+b.valid
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
			return
		}
		next(w, r)
	}
}

func newBackend(t *testing.T) (*backend, string) {
	t.Helper()
	b := &backend{valid: "tok-1"}
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	user := map[string]string{"id": "u1", "name": "Ann", "email": "ann@example.com"}

	api.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-1", "user": user})
	}).Methods(http.MethodPost)

	api.HandleFunc("/auth/me", b.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	})).Methods(http.MethodGet)

	api.HandleFunc("/auth/profile", b.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
	})).Methods(http.MethodPut)

	api.HandleFunc("/transactions", b.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"transactions": []map[string]any{
			{"_id": "t1", "type": "expense", "amount": 12.5, "category": "Food", "date": "2024-03-15T00:00:00Z"},
			{"_id": "t2", "type": "income", "amount": 2000, "category": "Salary", "date": "2024-03-01T00:00:00Z"},
		}})
	})).Methods(http.MethodGet)

	api.HandleFunc("/transactions", b.authed(func(w http.ResponseWriter, r *http.Request) {
		var in domain.TransactionInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"transaction": map[string]any{
			"_id": "t9", "type": in.Type, "amount": in.Amount, "category": in.Category, "date": in.Date + "T00:00:00Z",
		}})
	})).Methods(http.MethodPost)

	api.HandleFunc("/transactions/summary/monthly", b.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"year": 2024, "month": 3, "totalIncome": 2000, "totalExpense": 500, "totalSavings": 1500,
			"categoryExpense": map[string]float64{"Food": 300, "Fuel": 200},
		})
	})).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, srv.URL + "/api"
}

type result struct {
	out, err string
	runErr   error
}

// run executes the CLI against apiURL with a data directory private to the test.
func run(t *testing.T, apiURL, dataDir, stdin string, args ...string) result {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--api-url", apiURL, "--data-dir", dataDir}, args...))
	err := cmd.Execute()
	return result{out: out.String(), err: errOut.String(), runErr: err}
}

func login(t *testing.T, apiURL, dataDir string, extra ...string) {
	t.Helper()
	args := append([]string{"login", "--email", "ann@example.com", "--password", "secret"}, extra...)
	res := run(t, apiURL, dataDir, "", args...)
	require.NoError(t, res.runErr)
	assert.Contains(t, res.out, "Ann")
}

func TestLoginThenListTransactions(t *testing.T) {
	_, api := newBackend(t)
	dir := t.TempDir()

	login(t, api, dir)

	res := run(t, api, dir, "", "tx", "list")
	require.NoError(t, res.runErr)
	assert.Contains(t, res.out, "Food")
	assert.Contains(t, res.out, "Salary")
	assert.Contains(t, res.out, "12.50")
}

func TestLoginPromptsForPassword(t *testing.T) {
	_, api := newBackend(t)
	dir := t.TempDir()

	res := run(t, api, dir, "secret\n", "login", "--email", "ann@example.com")
	require.NoError(t, res.runErr)
	assert.Contains(t, res.err, "password: ")

	res = run(t, api, dir, "", "whoami")
	require.NoError(t, res.runErr)
	assert.Contains(t, res.out, "ann@example.com")
}

func TestLoginWrongPassword(t *testing.T) {
	_, api := newBackend(t)
	dir := t.TempDir()

	res := run(t, api, dir, "", "login", "--email", "ann@example.com", "--password", "nope")
	require.Error(t, res.runErr)
	assert.Contains(t, res.runErr.Error(), "Invalid credentials")
	assert.NotErrorIs(t, res.runErr, client.ErrSessionExpired)
	assert.NotContains(t, res.err, "session expired")
}

func TestWhoamiLoggedOut(t *testing.T) {
	_, api := newBackend(t)
	res := run(t, api, t.TempDir(), "", "whoami")
	require.ErrorIs(t, res.runErr, errNotSignedIn)
}

func TestRejectedTokenClearsSession(t *testing.T) {
	b, api := newBackend(t)
	dir := t.TempDir()
	login(t, api, dir)

	b.revoke()
	res := run(t, api, dir, "", "tx", "list")
	require.ErrorIs(t, res.runErr, client.ErrSessionExpired)
	assert.True(t, client.IsUnauthorized(res.runErr))
	assert.Equal(t, 1, strings.Count(res.err, "session expired"))

	res = run(t, api, dir, "", "whoami")
	require.ErrorIs(t, res.runErr, errNotSignedIn)
}

func TestSQLiteSessionSurvivesRuns(t *testing.T) {
	_, api := newBackend(t)
	dir := t.TempDir()
	login(t, api, dir, "--storage", "sqlite")

	res := run(t, api, dir, "", "--storage", "sqlite", "whoami", "--refresh")
	require.NoError(t, res.runErr)
	assert.Contains(t, res.out, "Ann")
}

func TestListAsJSON(t *testing.T) {
	_, api := newBackend(t)
	dir := t.TempDir()
	login(t, api, dir)

	res := run(t, api, dir, "", "tx", "list", "-o", "json")
	require.NoError(t, res.runErr)

	var txs []domain.Transaction
	require.NoError(t, json.Unmarshal([]byte(res.out), &txs))
	require.Len(t, txs, 2)
	assert.Equal(t, "t1", txs[0].ID)
}

func TestAddTransaction(t *testing.T) {
	_, api := newBackend(t)
	dir := t.TempDir()
	login(t, api, dir)

	res := run(t, api, dir, "", "tx", "add", "--amount", "4,20", "--category", "Coffee", "--date", "2024-03-20")
	require.NoError(t, res.runErr)
	assert.Contains(t, res.out, "Coffee")
	assert.Contains(t, res.out, "4.20")
}

func TestAddTransactionRejectsBadAmount(t *testing.T) {
	_, api := newBackend(t)
	dir := t.TempDir()
	login(t, api, dir)

	res := run(t, api, dir, "", "tx", "add", "--amount", "-3", "--category", "Coffee")
	require.ErrorIs(t, res.runErr, domain.ErrInvalidAmount)
}

func TestMonthlySummary(t *testing.T) {
	_, api := newBackend(t)
	dir := t.TempDir()
	login(t, api, dir)

	res := run(t, api, dir, "", "summary", "monthly", "--year", "2024", "--month", "3")
	require.NoError(t, res.runErr)
	assert.Contains(t, res.out, "Fuel")
	assert.Contains(t, res.out, "2024-03")
}

func TestLogout(t *testing.T) {
	_, api := newBackend(t)
	dir := t.TempDir()
	login(t, api, dir)

	res := run(t, api, dir, "", "logout")
	require.NoError(t, res.runErr)
	assert.Contains(t, res.out, "Logged out.")

	res = run(t, api, dir, "", "logout")
	require.NoError(t, res.runErr)
	assert.Contains(t, res.out, "Already logged out.")
}

func TestVersion(t *testing.T) {
	res := run(t, "http://localhost:1/api", t.TempDir(), "", "version")
	require.NoError(t, res.runErr)
	assert.Equal(t, "tally dev\n", res.out)
}

func TestInvalidConfig(t *testing.T) {
	res := run(t, "http://localhost:1/api", t.TempDir(), "", "--storage", "floppy", "whoami")
	require.Error(t, res.runErr)
	assert.Contains(t, res.runErr.Error(), "invalid storage")
}

func TestProfileNeedsAFlag(t *testing.T) {
	res := run(t, "http://localhost:1/api", t.TempDir(), "", "profile")
	require.Error(t, res.runErr)
	assert.Contains(t, res.runErr.Error(), "nothing to update")
}

func TestProfileMergesLocallyWhenNotEchoed(t *testing.T) {
	_, api := newBackend(t)
	dir := t.TempDir()
	login(t, api, dir)

	res := run(t, api, dir, "", "profile", "--name", "Ann Lee")
	require.NoError(t, res.runErr)
	assert.Contains(t, res.out, "Ann Lee")

	res = run(t, api, dir, "", "whoami")
	require.NoError(t, res.runErr)
	assert.Contains(t, res.out, "Ann Lee")
	assert.Contains(t, res.out, "ann@example.com")
}

func TestTxFilter(t *testing.T) {
	tests := []struct {
		name                      string
		typ, cat, from, to, month string
		wantErr                   bool
		wantStart, wantEnd        string
	}{
		{name: "empty"},
		{name: "month", month: "2024-02", wantStart: "2024-02-01", wantEnd: "2024-02-29"},
		{name: "range", from: "2024-01-05", to: "2024-01-10", wantStart: "2024-01-05", wantEnd: "2024-01-10"},
		{name: "month with range", month: "2024-02", from: "2024-01-01", wantErr: true},
		{name: "bad month", month: "Feb", wantErr: true},
		{name: "bad day", from: "05/01/2024", wantErr: true},
		{name: "inverted", from: "2024-02-01", to: "2024-01-01", wantErr: true},
		{name: "bad type", typ: "refund", wantErr: true},
		{name: "type is case-insensitive", typ: "INCOME"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := txFilter(tc.typ, tc.cat, tc.from, tc.to, tc.month)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tc.wantStart != "" {
				assert.Equal(t, tc.wantStart, f.StartDate.Format(time.DateOnly))
				assert.Equal(t, tc.wantEnd, f.EndDate.Format(time.DateOnly))
			}
		})
	}
}
