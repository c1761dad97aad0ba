package compliance_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	httpapi "github.com/tallyworks/compliance/internal/compliance/http"
	"github.com/tallyworks/compliance/internal/compliance/service"
	"github.com/tallyworks/compliance/internal/compliance/store/drivers/sqlite"
	"github.com/tallyworks/compliance/pkg/tincrypt"
)

// newServer stands up the full router over a file-backed database, the same
// wiring the application performs at startup.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	encoded, err := tincrypt.GenerateKey()
	require.NoError(t, err)
	cipher, err := tincrypt.NewFromString(encoded)
	require.NoError(t, err)

	dbFile := filepath.Join(t.TempDir(), "compliance.db")
	st, err := sqlite.NewStore(fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", dbFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter("e2e", st, cipher, logger)
	router.ContractorService = &service.ContractorService{Store: st, Cipher: cipher}
	router.PaymentService = &service.PaymentService{Store: st}
	router.ReportingService = &service.ReportingService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestComplianceLifecycle(t *testing.T) {
	srv := newServer(t)

	// Intake: two contractors submit W-9s.
	resp := postJSON(t, srv.URL+"/v1/w9/submit", httpapi.W9SubmitRequest{
		Name:  "Ada Example",
		Email: "ada@example.com",
		TIN:   "123-45-6789",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ada := decodeBody[httpapi.ContractorResponse](t, resp)

	resp = postJSON(t, srv.URL+"/v1/w9/submit", httpapi.W9SubmitRequest{
		Name:  "Grace Example",
		Email: "grace@example.com",
		TIN:   "98-7654321",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	grace := decodeBody[httpapi.ContractorResponse](t, resp)

	// Payments through the year: Ada crosses the threshold, Grace does not.
	pay := func(id, amount, date string) {
		resp := postJSON(t, srv.URL+"/v1/payments", httpapi.PaymentRequest{
			ContractorID: id,
			Amount:       decimal.RequireFromString(amount),
			Date:         date,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	pay(ada.ID, "800.00", "2026-01-15")
	pay(ada.ID, "500.00", "2026-02-01")
	pay(grace.ID, "250.00", "2026-03-01")

	t.Run("totals reflect recorded payments", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/contractors/" + ada.ID + "/total?year=2026")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		total := decodeBody[httpapi.TotalResponse](t, resp)
		require.True(t, total.Total.Equal(decimal.RequireFromString("1300.00")), "got %s", total.Total)
	})

	t.Run("threshold report includes only qualifying contractors", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/reports/1099?year=2026")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		report := decodeBody[httpapi.ReportResponse](t, resp)
		require.Len(t, report.Contractors, 1)
		require.Equal(t, ada.ID, report.Contractors[0].Contractor.ID)
		require.True(t, report.Contractors[0].TotalPaid.Equal(decimal.RequireFromString("1300.00")))
	})

	t.Run("forms materialize for the year", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/v1/reports/1099/generate", httpapi.GenerateFormsRequest{Year: 2026})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		forms := decodeBody[[]httpapi.FormResponse](t, resp)
		require.Len(t, forms, 1)
		require.Equal(t, ada.ID, forms[0].ContractorID)
	})

	t.Run("tin reveal round-trips through encryption", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/contractors/" + grace.ID + "/tin?kind=ein")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "98-7654321", decodeBody[httpapi.TINResponse](t, resp).TIN)
	})

	t.Run("tin reveal is rate limited", func(t *testing.T) {
		// One reveal already happened above; burn through the remaining
		// strict-limit budget and expect a 429.
		var last int
		for i := 0; i < 6; i++ {
			resp, err := http.Get(srv.URL + "/v1/contractors/" + ada.ID + "/tin")
			require.NoError(t, err)
			last = resp.StatusCode
			resp.Body.Close()
			if last == http.StatusTooManyRequests {
				break
			}
		}
		require.Equal(t, http.StatusTooManyRequests, last)
	})

	t.Run("listing contractors never exposes tin material", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/contractors")
		require.NoError(t, err)
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NotContains(t, string(raw), "123456789")
		require.NotContains(t, string(raw), "987654321")
	})
}
