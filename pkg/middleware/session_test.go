package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionCapture struct {
	id    string
	isNew bool
}

func (p *sessionCapture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.id = SessionIDFromContext(r.Context())
		p.isNew = IsNewSession(r.Context())
	})
}

func TestSession_MintsIDWhenMissing(t *testing.T) {
	var p sessionCapture
	h := Session(SessionConfig{CookieName: "sid", TTL: 30 * time.Minute})(p.handler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(p.id)
	require.NoError(t, err)
	assert.True(t, p.isNew)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, p.id, cookies[0].Value)
	assert.Equal(t, 1800, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, p.id, rec.Header().Get(SessionHeader))
}

func TestSession_ReusesCookie(t *testing.T) {
	var p sessionCapture
	h := Session(SessionConfig{CookieName: "sid"})(p.handler())

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: id})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, id, p.id)
	assert.False(t, p.isNew)
}

func TestSession_HeaderTakesPrecedenceOverCookie(t *testing.T) {
	var p sessionCapture
	h := Session(SessionConfig{CookieName: "sid"})(p.handler())

	headerID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/view", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: uuid.NewString()})
	req.Header.Set(SessionHeader, headerID)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, headerID, p.id)
}

func TestSession_MalformedCookieReplaced(t *testing.T) {
	var p sessionCapture
	h := Session(SessionConfig{CookieName: "sid"})(p.handler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "not-a-uuid"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEqual(t, "not-a-uuid", p.id)
	assert.True(t, p.isNew)
}

func TestSession_DefaultCookieName(t *testing.T) {
	h := Session(SessionConfig{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "storefront_session", cookies[0].Name)
}

func TestNoStore_SetsHeaderOnGet(t *testing.T) {
	h := NoStore()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reload", nil))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestCacheControl_MaxAge(t *testing.T) {
	h := CacheControl(300)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/carousel", nil))
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
}
