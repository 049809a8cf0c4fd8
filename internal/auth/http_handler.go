package auth

import (
	"context"
	"log"
	"net/http"
)

type tokenAuthorizer interface {
	RedirectURL() (string, error)
	AuthorizeCode(ctx context.Context, code, state string) error
	Persist() error
}

// HTTPHandler serves the OAuth2 authorization flow:
// GET /oauth redirects to Google consent, GET /oauth/callback completes it.
type HTTPHandler struct {
	tok tokenAuthorizer
}

// NewHTTPHandler creates the OAuth HTTP handler.
func NewHTTPHandler(tok tokenAuthorizer) *HTTPHandler {
	return &HTTPHandler{tok: tok}
}

// RegisterRoutes attaches the OAuth endpoints to mux.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /oauth", h.redirect)
	mux.HandleFunc("GET /oauth/callback", h.callback)
}

func (h *HTTPHandler) redirect(w http.ResponseWriter, r *http.Request) {
	url, err := h.tok.RedirectURL()
	if err != nil {
		log.Printf("tok.RedirectURL failed: %v", err)
		http.Error(w, "failed to start authorization", http.StatusInternalServerError)

		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *HTTPHandler) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	code, state := q.Get("code"), q.Get("state")
	if code == "" {
		http.Error(w, "missing code parameter", http.StatusBadRequest)

		return
	}

	if err := h.tok.AuthorizeCode(r.Context(), code, state); err != nil {
		log.Printf("tok.AuthorizeCode failed: %v", err)
		http.Error(w, "authorization failed", http.StatusBadRequest)

		return
	}

	if err := h.tok.Persist(); err != nil {
		log.Printf("tok.Persist failed: %v", err)
	}

	_, _ = w.Write([]byte("Authorized. You can close this tab and return to the chat."))
}
