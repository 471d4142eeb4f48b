package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tr := NewTranslator("en")

	assert.Equal(t, "Wrong username or password.", tr.T("en", "flash.login.failed", nil))
	assert.Equal(t, "Username atau password salah.", tr.T("id", "flash.login.failed", nil))
	assert.Equal(t, "Wrong username or password.", tr.T("fr", "flash.login.failed", nil), "unknown locale falls back")
	assert.Equal(t, "flash.missing", tr.T("en", "flash.missing", nil))
	assert.Equal(t, "", tr.T("en", "", nil))
}

func TestTranslateTemplateData(t *testing.T) {
	tr := NewTranslator("en")

	got := tr.T("en", "flash.validation", map[string]any{"Field": "price", "Reason": "must not be negative"})
	assert.Equal(t, "Invalid price: must not be negative.", got)
}

func TestLocale(t *testing.T) {
	tr := NewTranslator("en")

	req := httptest.NewRequest(http.MethodGet, "/?lang=id", nil)
	assert.Equal(t, "id", tr.Locale(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "id-ID,id;q=0.9,en;q=0.5")
	assert.Equal(t, "id", tr.Locale(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ja")
	assert.Equal(t, "en", tr.Locale(req))

	assert.Equal(t, "en", tr.Locale(httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, "id", NewTranslator("id").Locale(nil))
}
