package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/theheadmen/figurine/internal/auth"
	"github.com/theheadmen/figurine/internal/models"
)

const flashCookieName = "flash"

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeStatus(w http.ResponseWriter, code int, status, message string) {
	writeJSON(w, code, models.StatusResponse{Status: status, Message: message})
}

// setFlash оставляет одноразовое сообщение для страницы, на которую уходит
// редирект. Cookie читается скриптом страницы, поэтому не HttpOnly.
func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:   flashCookieName,
		Value:  url.QueryEscape(message),
		Path:   "/",
		MaxAge: 60,
	})
}

func (ls *ServerSystem) setSessionCookie(w http.ResponseWriter, userID uint) error {
	token, err := auth.GenerateSessionToken([]byte(ls.Config.SessionSecret), userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
