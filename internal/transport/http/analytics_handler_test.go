package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salespulse/internal/config"
	"salespulse/internal/services"
)

const testMaxUpload = 8 << 20

func newTestHandler(t *testing.T) (*AnalyticsHandler, *services.AnalysisService) {
	t.Helper()
	cfg := &config.Config{
		Ingest: config.IngestConfig{Workers: 2, ParseTimeout: 5 * time.Second},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := services.NewAnalysisService(cfg, logger, nil)
	return NewAnalyticsHandler(service, logger, testMaxUpload), service
}

// branchWorkbook renders one minimal valid branch export.
func branchWorkbook(t *testing.T, branch string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	require.NoError(t, f.SetCellValue(sheet, "A1", "Sales Report"))
	require.NoError(t, f.SetCellValue(sheet, "A2", branch))

	header := []string{
		"Sales Number", "Sales Date", "Menu", "Menu Category", "Qty", "Price",
		"Total", "Discount Total", "COGS Total", "COGS Total (%)", "Margin",
	}
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 5)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, name))
	}
	data := []interface{}{
		"S-001", "2024-03-04 12:30:00", "Nasi Goreng", "Food",
		2, 25000, 50000, 0, 20000, 40.0, 30000,
	}
	for col, value := range data {
		cell, err := excelize.CoordinatesToCellName(col+1, 6)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, value))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// multipartBody builds a multipart request body with one part per file under
// the "files" field.
func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, data := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func postBatch(t *testing.T, handler *AnalyticsHandler, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, files)
	req := httptest.NewRequest(http.MethodPost, "/sales/batch", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	return rec
}

func get(handler *AnalyticsHandler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	return rec
}

func TestLoadBatch_Success(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postBatch(t, handler, map[string][]byte{
		"kemang.xlsx":   branchWorkbook(t, "Kemang"),
		"senopati.xlsx": branchWorkbook(t, "Senopati"),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp batchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.BatchID)
	assert.Equal(t, []string{"Kemang", "Senopati"}, resp.Branches)
	assert.Equal(t, 2, resp.TotalRecords)
	assert.Equal(t, "2024-03-04", resp.MinDate)
}

func TestLoadBatch_NoFiles(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postBatch(t, handler, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadBatch_AllFilesUnreadable(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postBatch(t, handler, map[string][]byte{
		"junk.xlsx": []byte("not a spreadsheet"),
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		ErrorCode string `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "EMPTY_DATASET", resp.ErrorCode)
}

func TestAnalytics_NoDatasetLoaded(t *testing.T) {
	handler, _ := newTestHandler(t)

	for _, path := range []string{
		"/analytics/branches",
		"/analytics/products",
		"/analytics/time",
		"/analytics/cogs",
		"/analytics/summary",
		"/analytics/insights",
		"/analytics/digest",
	} {
		rec := get(handler, path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var resp tableResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), path)
		assert.False(t, resp.HasData, path)
	}
}

func TestAnalytics_AfterBatchLoad(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postBatch(t, handler, map[string][]byte{
		"kemang.xlsx": branchWorkbook(t, "Kemang"),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	res := get(handler, "/analytics/branches")
	require.Equal(t, http.StatusOK, res.Code)

	var resp struct {
		HasData bool `json:"has_data"`
		Data    []struct {
			Branch       string  `json:"branch"`
			TotalRevenue float64 `json:"total_revenue"`
			RevenueRank  int     `json:"revenue_rank"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &resp))
	assert.True(t, resp.HasData)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Kemang", resp.Data[0].Branch)
	assert.Equal(t, 50000.0, resp.Data[0].TotalRevenue)
	assert.Equal(t, 1, resp.Data[0].RevenueRank)
}

func TestTopNValidation(t *testing.T) {
	handler, _ := newTestHandler(t)

	tests := []struct {
		query string
		code  int
	}{
		{query: "", code: http.StatusOK},
		{query: "?top_n=10", code: http.StatusOK},
		{query: "?top_n=0", code: http.StatusOK},
		{query: "?top_n=1000", code: http.StatusOK},
		{query: "?top_n=1001", code: http.StatusBadRequest},
		{query: "?top_n=-1", code: http.StatusBadRequest},
		{query: "?top_n=ten", code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := get(handler, "/analytics/products"+tt.query)
		assert.Equal(t, tt.code, rec.Code, "query %q", tt.query)

		rec = get(handler, "/analytics/cogs"+tt.query)
		assert.Equal(t, tt.code, rec.Code, "query %q", tt.query)
	}
}

func TestHealthHandler(t *testing.T) {
	_, service := newTestHandler(t)
	health := NewHealthHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	health.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status  string `json:"status"`
		HasData bool   `json:"has_data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.HasData)
}
