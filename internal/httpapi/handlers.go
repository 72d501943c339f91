package httpapi

import (
	_ "embed"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/otplabs/otp-gateway/internal/service"
)

//go:embed index.html
var indexPage []byte

type Handlers struct {
	service *service.Service
	metrics http.Handler
}

type sendOTPRequest struct {
	Phone string `json:"phone"`
}

func NewRouter(service *service.Service, metricsHandler http.Handler) http.Handler {
	handlers := &Handlers{service: service, metrics: metricsHandler}
	router := chi.NewRouter()

	router.Get("/", handlers.index)
	router.Get("/healthz", handlers.healthz)
	router.Post("/send-otp", handlers.sendOTP)
	if metricsHandler != nil {
		router.Get("/metrics", metricsHandler.ServeHTTP)
	}

	return router
}

func (handlers *Handlers) index(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(indexPage)
}

func (handlers *Handlers) healthz(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write([]byte("ok"))
}

func (handlers *Handlers) sendOTP(writer http.ResponseWriter, request *http.Request) {
	clientIP := requestIP(request)
	if handlers.service.OverLimit(request.Context(), clientIP) {
		writeJSON(writer, http.StatusTooManyRequests, map[string]string{"error": "Rate limit exceeded. Try again later."})
		return
	}

	var payload sendOTPRequest
	if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
		payload.Phone = ""
	}

	result, err := handlers.service.SendOTP(request.Context(), clientIP, payload.Phone)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhoneRequired):
			writeJSON(writer, http.StatusBadRequest, map[string]string{"error": "Phone number required."})
		case errors.Is(err, service.ErrInvalidPhone):
			writeJSON(writer, http.StatusBadRequest, map[string]string{"error": "Invalid phone number format."})
		default:
			log.Printf("otp delivery failed ip=%s err=%v", clientIP, err)
			writeJSON(writer, http.StatusInternalServerError, map[string]string{"error": "Failed to send SMS. Check server logs and provider configuration."})
		}
		return
	}

	writeJSON(writer, http.StatusOK, map[string]string{"message": result.Message})
}

func requestIP(request *http.Request) string {
	forwardedFor := strings.TrimSpace(strings.Split(request.Header.Get("X-Forwarded-For"), ",")[0])
	if forwardedFor != "" {
		return forwardedFor
	}

	realIP := strings.TrimSpace(request.Header.Get("X-Real-IP"))
	if realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(request.RemoteAddr))
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

func writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}
