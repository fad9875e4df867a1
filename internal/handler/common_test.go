package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T, query string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// page/limitの不正値もAPI共通の{"error": ...}で返る
func TestParsePaging_InvalidPage_ErrorShape(t *testing.T) {
	c, rec := newTestContext(t, "page=abc")

	_, _, err := parsePaging(c, 20)

	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusBadRequest, he.Status)
	}

	assert.NoError(t, writeError(c, err))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid page"}`, rec.Body.String())
}

func TestParsePaging_InvalidLimit_ErrorShape(t *testing.T) {
	c, rec := newTestContext(t, "limit=xx")

	_, _, err := parsePaging(c, 20)

	assert.NoError(t, writeError(c, err))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid limit"}`, rec.Body.String())
}

func TestParsePaging_Defaults(t *testing.T) {
	c, _ := newTestContext(t, "")

	page, limit, err := parsePaging(c, 20)
	assert.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
}

func TestParseOptTime(t *testing.T) {
	//RFC3339はそのまま
	c, _ := newTestContext(t, "from=2026-01-15T09:00:00Z")
	got, bad := parseOptTime(c, "from", "")
	assert.Empty(t, bad)
	if assert.NotNil(t, got) {
		assert.Equal(t, time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC), got.UTC())
	}

	//日付のみのtoはその日を含めるため翌日0時になる
	c, _ = newTestContext(t, "to=2026-01-15")
	got, bad = parseOptTime(c, "to", "")
	assert.Empty(t, bad)
	if assert.NotNil(t, got) {
		assert.Equal(t, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC), got.UTC())
	}

	//不正な値はパラメータ名が返る
	c, _ = newTestContext(t, "from=yesterday")
	got, bad = parseOptTime(c, "from", "")
	assert.Nil(t, got)
	assert.Equal(t, "from", bad)

	//未指定はnil
	c, _ = newTestContext(t, "")
	got, bad = parseOptTime(c, "from", "")
	assert.Nil(t, got)
	assert.Empty(t, bad)
}
