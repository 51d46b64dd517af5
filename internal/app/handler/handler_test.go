package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"orderledger/internal/app/config"
	"orderledger/internal/app/ds"
	"orderledger/internal/app/dto"
	"orderledger/internal/app/ledger"
	"orderledger/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	uploaded map[string][]byte
	err      error
}

func (f *fakeUploader) UploadFile(_ context.Context, data []byte, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.uploaded == nil {
		f.uploaded = map[string][]byte{}
	}
	stored := "stored-" + name
	f.uploaded[stored] = data
	return stored, nil
}

func (f *fakeUploader) GetFileURL(_ context.Context, name string, _ time.Duration) (string, error) {
	return "http://minio.local/" + name, nil
}

type testEnv struct {
	h      *Handler
	router *gin.Engine
	store  *storage.Memory
}

func newTestEnv(t *testing.T, uploader Uploader) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemory()
	l, err := ledger.New(store, ledger.Config{NodeID: 1})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = l.Close(ctx)
	})

	h := NewHandler(l, config.ExportConfig{
		CurrencyLabel: "Rs.",
		URLExpiry:     time.Hour,
	}, uploader)
	h.now = func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC) }

	r := gin.New()
	h.RegisterRoutes(r)
	return &testEnv{h: h, router: r, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// ============ Items ============

func TestAddItemPercentage(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodPost, "/api/items",
		`{"code":"JE-WHT-XL","description":"Jeans","unit_price":1000,"quantity":1,"pricing_mode":"percentage","discount_percent":10}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	item := decodeBody[dto.ItemResponse](t, rr)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, 900.0, item.FinalPrice)
	assert.Equal(t, "Rs. 900.00", item.FinalPriceText)
	assert.Equal(t, "percentage", item.PricingMode)
}

func TestAddItemNoneIgnoresDiscount(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodPost, "/api/items",
		`{"code":"JO-WHT-S","description":"Joggers","unit_price":500,"quantity":2,"pricing_mode":"none","discount_percent":50}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, 1000.0, decodeBody[dto.ItemResponse](t, rr).FinalPrice)
}

func TestAddItemLegacyModeAccepted(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodPost, "/api/items",
		`{"code":"SH-WHT-M","description":"Shirt","unit_price":390,"quantity":1,"pricing_mode":"NP"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "none", decodeBody[dto.ItemResponse](t, rr).PricingMode)
}

func TestAddItemValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing code", `{"description":"x","unit_price":1,"quantity":1,"pricing_mode":"none"}`},
		{"missing description", `{"code":"A","unit_price":1,"quantity":1,"pricing_mode":"none"}`},
		{"missing price", `{"code":"A","description":"x","quantity":1,"pricing_mode":"none"}`},
		{"missing quantity", `{"code":"A","description":"x","unit_price":1,"pricing_mode":"none"}`},
		{"unknown mode", `{"code":"A","description":"x","unit_price":1,"quantity":1,"pricing_mode":"bogus"}`},
		{"discount over 100", `{"code":"A","description":"x","unit_price":1,"quantity":1,"discount_percent":150}`},
		{"percentage without discount", `{"code":"A","description":"x","unit_price":1,"quantity":1}`},
		{"price not a number", `{"code":"A","description":"x","unit_price":"ten","quantity":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/items", tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "fail", decodeBody[dto.ErrorResponse](t, rr).Status)
		})
	}
	assert.Equal(t, 0, env.h.Ledger.Len())
}

func TestListRemoveClear(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, body := range []string{
		`{"code":"A","description":"first","unit_price":100,"quantity":2,"pricing_mode":"none"}`,
		`{"code":"B","description":"second","unit_price":1000,"quantity":1,"discount_percent":10}`,
	} {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/items", body).Code)
	}

	list := decodeBody[dto.ItemListResponse](t, env.do(t, http.MethodGet, "/api/items", ""))
	require.Len(t, list.Items, 2)
	assert.Equal(t, "A", list.Items[0].Code)
	assert.Equal(t, "B", list.Items[1].Code)
	assert.Equal(t, 1100.0, list.Total)
	assert.Equal(t, "Rs. 1,100.00", list.TotalText)

	rr := env.do(t, http.MethodDelete, "/api/items/"+list.Items[0].ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"removed":true`)

	rr = env.do(t, http.MethodDelete, "/api/items/does-not-exist", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"removed":false`)

	total := decodeBody[dto.TotalResponse](t, env.do(t, http.MethodGet, "/api/total", ""))
	assert.Equal(t, 1, total.Count)
	assert.Equal(t, 900.0, total.Total)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/api/items", "").Code)
	total = decodeBody[dto.TotalResponse](t, env.do(t, http.MethodGet, "/api/total", ""))
	assert.Equal(t, 0, total.Count)
	assert.Equal(t, 0.0, total.Total)
}

func TestQuoteDoesNotAdd(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodPost, "/api/items/quote",
		`{"unit_price":1500,"quantity":3,"pricing_mode":"percentage","discount_percent":20}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	q := decodeBody[dto.QuoteResponse](t, rr)
	assert.Equal(t, 3600.0, q.FinalPrice)
	assert.Equal(t, "Rs. 3,600.00", q.FinalPriceText)
	assert.Equal(t, 0, env.h.Ledger.Len())
}

func TestMutationsArePersisted(t *testing.T) {
	env := newTestEnv(t, nil)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/items",
		`{"code":"A","description":"x","unit_price":10,"quantity":1,"pricing_mode":"none"}`).Code)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, env.h.Ledger.Flush(ctx))

	data, err := env.store.Get(ctx, ledger.DefaultKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"code":"A"`)

	st := decodeBody[dto.StatusResponse](t, env.do(t, http.MethodGet, "/api/status", ""))
	assert.Equal(t, 1, st.Items)
	assert.Equal(t, uint64(1), st.Storage.Saves)
	assert.Zero(t, st.Storage.SaveFailures)
}

func TestListTotalConsistentWithConcurrentAdds(t *testing.T) {
	env := newTestEnv(t, nil)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				env.h.Ledger.Add(ds.LineItemInput{Code: "A", UnitPrice: 1, Quantity: 1, PricingMode: ds.PricingNone})
			}
		}
	}()

	for i := 0; i < 300; i++ {
		list := decodeBody[dto.ItemListResponse](t, env.do(t, http.MethodGet, "/api/items", ""))
		var listed float64
		for _, it := range list.Items {
			listed += it.FinalPrice
		}
		if !assert.Equal(t, listed, list.Total, "request %d", i) || !assert.Equal(t, len(list.Items), list.Count) {
			break
		}
	}
	close(stop)
	wg.Wait()
}

// ============ Catalog ============

func TestCatalog(t *testing.T) {
	env := newTestEnv(t, nil)

	list := decodeBody[dto.ProductListResponse](t, env.do(t, http.MethodGet, "/api/catalog", ""))
	assert.Equal(t, 7, list.Total)

	rr := env.do(t, http.MethodGet, "/api/catalog/je-wht-xl", "")
	require.Equal(t, http.StatusOK, rr.Code)
	p := decodeBody[dto.ProductResponse](t, rr)
	assert.Equal(t, "JE-WHT-XL", p.Code)
	assert.Equal(t, 1000.0, p.Price)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/catalog/NOPE", "").Code)
}

// ============ Export ============

func addSample(t *testing.T, env *testEnv) {
	t.Helper()
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/items",
		`{"code":"T-BLK-XL","description":"T-shirt","unit_price":950,"quantity":1,"pricing_mode":"none"}`).Code)
}

func TestDownloadPDF(t *testing.T) {
	env := newTestEnv(t, nil)

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodGet, "/api/export/pdf", "").Code)

	addSample(t, env)
	rr := env.do(t, http.MethodGet, "/api/export/pdf", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "order-summary-20240501-103000.pdf")
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")))
}

func TestUploadPDF(t *testing.T) {
	up := &fakeUploader{}
	env := newTestEnv(t, up)
	addSample(t, env)

	rr := env.do(t, http.MethodPost, "/api/export", "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	resp := decodeBody[dto.ExportResponse](t, rr)
	assert.Equal(t, "stored-order-summary-20240501-103000.pdf", resp.File)
	assert.Equal(t, "http://minio.local/"+resp.File, resp.URL)
	assert.True(t, env.h.now().Add(time.Hour).Equal(resp.ExpiresAt))
	assert.True(t, bytes.HasPrefix(up.uploaded[resp.File], []byte("%PDF")))
}

func TestUploadPDFErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	addSample(t, env)
	assert.Equal(t, http.StatusServiceUnavailable, env.do(t, http.MethodPost, "/api/export", "").Code)

	env = newTestEnv(t, &fakeUploader{err: errors.New("minio down")})
	addSample(t, env)
	assert.Equal(t, http.StatusBadGateway, env.do(t, http.MethodPost, "/api/export", "").Code)
}

func TestPing(t *testing.T) {
	env := newTestEnv(t, nil)
	rr := env.do(t, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pong")
}
