package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Dan9191/finance-service/internal/ai"
	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/export"
	"github.com/Dan9191/finance-service/internal/formstore"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/Dan9191/finance-service/internal/service/servicetest"
)

type testServer struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newTestServer(t *testing.T, gen ai.Generator) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{JWTSecret: "handler-secret"}
	store := formstore.NewStore(formstore.NewMemoryBackend(), log)
	svc := service.NewService(servicetest.NewRepository(), log, cfg, store, gen)
	ts := &testServer{t: t, router: NewRouter(NewHandler(svc, log), cfg)}

	rec := ts.do(http.MethodPost, "/register", `{"username":"asha","email":"asha@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(http.MethodPost, "/login", `{"email":"asha@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	ts.token = login["token"]
	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func textGenerator(text string) ai.Generator {
	return ai.GeneratorFunc(func(context.Context, string) (string, error) { return text, nil })
}

func TestAuthRoutes(t *testing.T) {
	ts := newTestServer(t, textGenerator(""))

	rec := ts.do(http.MethodPost, "/login", `{"email":"asha@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/register", `{"email":"bad","password":"correct-horse"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/register", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.token = ""
	rec = ts.do(http.MethodGet, "/split/form", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSplitRoutes(t *testing.T) {
	ts := newTestServer(t, textGenerator(""))

	form := decodeBody[models.SplitExpenseForm](t, ts.do(http.MethodGet, "/split/form", ""))
	assert.Equal(t, "asha", form.RequesterName)
	require.Len(t, form.Participants, 1)

	rec := ts.do(http.MethodPut, "/split/form", `{"totalAmount":"1000","requesterUpiId":"asha@okaxis","description":"Trip"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPost, "/split/participants", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	form = decodeBody[models.SplitExpenseForm](t, rec)
	require.Len(t, form.Participants, 2)

	for _, body := range []string{
		`{"field":"name","value":"Ravi"}`,
		`{"field":"phoneNumber","value":"9876543210"}`,
	} {
		rec = ts.do(http.MethodPatch, "/split/participants/0", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec = ts.do(http.MethodPatch, "/split/participants/1", `{"field":"name","value":"Meera"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(http.MethodPatch, "/split/participants/1", `{"field":"phoneNumber","value":"123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPatch, "/split/participants/0", `{"field":"email","value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = ts.do(http.MethodPatch, "/split/participants/7", `{"field":"name","value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	summary := decodeBody[struct {
		SplitAmountFormatted string              `json:"splitAmountFormatted"`
		Errors               []map[string]string `json:"errors"`
	}](t, ts.do(http.MethodGet, "/split/summary", ""))
	assert.Equal(t, "500.00", summary.SplitAmountFormatted)
	assert.Empty(t, summary.Errors)

	rec = ts.do(http.MethodPost, "/split/participants/0/request", "")
	require.Equal(t, http.StatusOK, rec.Code)
	link := decodeBody[service.PaymentRequestLink](t, rec)
	assert.True(t, strings.HasPrefix(link.URL, "https://wa.me/9876543210?text=Hi%20Ravi!"))
	assert.Equal(t, models.PaymentRequested, link.Status)

	rec = ts.do(http.MethodPost, "/split/participants/1/request", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	verr := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "phoneNumber", verr["field"])

	rec = ts.do(http.MethodPost, "/split/participants/1/paid", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, "/split/participants/0/paid", "")
	require.Equal(t, http.StatusOK, rec.Code)
	form = decodeBody[models.SplitExpenseForm](t, rec)
	assert.Equal(t, models.PaymentPaid, form.PaymentStatus[0])

	rec = ts.do(http.MethodPost, "/split/upi-link", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "upi://pay?pa=asha@okaxis&pn=asha&am=500.00&cu=INR&tn=Trip", decodeBody[map[string]string](t, rec)["url"])

	rec = ts.do(http.MethodDelete, "/split/participants/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(http.MethodDelete, "/split/participants/0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodDelete, "/split/form", "")
	require.Equal(t, http.StatusOK, rec.Code)
	form = decodeBody[models.SplitExpenseForm](t, rec)
	assert.Empty(t, form.TotalAmount)
}

func TestLedgerRoutes(t *testing.T) {
	ts := newTestServer(t, textGenerator(""))

	rec := ts.do(http.MethodPost, "/accounts", `{"name":"Main","currency":"INR"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	account := decodeBody[models.Account](t, rec)
	assert.True(t, account.IsDefault)

	rec = ts.do(http.MethodPost, "/transactions", `{"account_id":1,"type":"EXPENSE","category":"food","amount":"250.50"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, "/transactions", `{"account_id":99,"type":"EXPENSE","amount":"1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	txs := decodeBody[[]models.Transaction](t, ts.do(http.MethodGet, "/transactions", ""))
	assert.Len(t, txs, 1)

	rec = ts.do(http.MethodPut, "/budget", `{"amount":"20000"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPost, "/transactions/import?account_id=1",
		`<Document><BkToCstmrStmt><Stmt><Ntry><Amt>10</Amt><CdtDbtInd>DBIT</CdtDbtInd><BookgDt><Dt>2024-03-02</Dt></BookgDt></Ntry></Stmt></BkToCstmrStmt></Document>`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decodeBody[map[string]int](t, rec)["imported"])

	rec = ts.do(http.MethodPost, "/transactions/import", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/reports/export?month=2024-03", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), export.TransactionsSheet)

	rec = ts.do(http.MethodGet, "/reports/export?month=March", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsightRoutes(t *testing.T) {
	ts := newTestServer(t, textGenerator(`{"monthlySummary":"Fine","keyObservations":[],"problemAreas":[],"aiRecommendations":[],"nextMonthActionPlan":[]}`))

	rec := ts.do(http.MethodGet, "/insights/report/latest", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, "/insights/report?month=2024-03", "")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decodeBody[service.ReportResult](t, rec)
	require.True(t, report.Success)
	assert.Equal(t, "Fine", report.Report.MonthlySummary)
	assert.Equal(t, "2024-03", report.Data.CurrentMonth.Month)

	rec = ts.do(http.MethodGet, "/insights/report/latest", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/insights/anomalies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	anomalies := decodeBody[service.AnomalyResult](t, rec)
	assert.True(t, anomalies.Success)
	assert.Empty(t, anomalies.Insights)

	rec = ts.do(http.MethodPost, "/insights/advice", `{"question":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdviceQuotaExceeded(t *testing.T) {
	ts := newTestServer(t, ai.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", errors.New("gemini API error (status 429): quota")
	}))

	rec := ts.do(http.MethodPost, "/insights/advice", `{"question":"Can I afford a trip?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[map[string]any](t, rec)
	assert.Equal(t, false, res["success"])
	assert.Equal(t, string(ai.QuotaExceeded), res["error"])
	assert.Equal(t, ai.QuotaMessage, res["message"])
	assert.Nil(t, res["advice"])
	assert.NotNil(t, res["data"])
}
