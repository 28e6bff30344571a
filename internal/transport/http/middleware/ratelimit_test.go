package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRealIP_XForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	assert.Equal(t, "1.2.3.4", realIP(req))
}

func TestRealIP_XRealIP_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-Ip", "9.10.11.12")
	assert.Equal(t, "9.10.11.12", realIP(req))
}

func TestRealIP_RemoteAddr_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	assert.Equal(t, "192.168.1.1", realIP(req))
}

func TestRealIP_XForwardedFor_TakesPrecedenceOverXRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.1.1.1")
	req.Header.Set("X-Real-Ip", "2.2.2.2")
	assert.Equal(t, "1.1.1.1", realIP(req))
}

func serveN(h http.Handler, n int, prep func(i int, r *http.Request)) []int {
	codes := make([]int, 0, n)
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/events/e1/registrations", nil)
		prep(i, req)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	return codes
}

func created() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func TestLimit_RejectsOverBurst(t *testing.T) {
	h := NewRateLimiter(rate.Limit(0.001), 2, false).Limit(created())

	codes := serveN(h, 3, func(_ int, r *http.Request) { r.RemoteAddr = "7.7.7.7:1000" })
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket.
	codes = serveN(h, 1, func(_ int, r *http.Request) { r.RemoteAddr = "8.8.8.8:1000" })
	assert.Equal(t, []int{http.StatusCreated}, codes)
}

func TestLimit_IgnoresForwardingHeadersByDefault(t *testing.T) {
	h := NewRateLimiter(rate.Limit(0.001), 2, false).Limit(created())

	// Rotating X-Forwarded-For from one connection does not buy a new bucket.
	codes := serveN(h, 3, func(i int, r *http.Request) {
		r.RemoteAddr = "7.7.7.7:1000"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
	})
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestLimit_TrustedProxyKeysOnForwardedFor(t *testing.T) {
	h := NewRateLimiter(rate.Limit(0.001), 1, true).Limit(created())

	// Two clients behind the same proxy address get separate buckets.
	codes := serveN(h, 3, func(i int, r *http.Request) {
		r.RemoteAddr = "172.16.0.1:443"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i%2))
	})
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}
