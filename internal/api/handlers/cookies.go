package handlers

import (
	"net/http"

	"github.com/raghavk/vidtube/internal/config"
)

// Auth cookies are httpOnly + secure; SameSite is applied only when a
// deployment opts in via config.
func setAuthCookies(w http.ResponseWriter, cfg *config.Config, accessToken, refreshToken string) {
	http.SetCookie(w, authCookie(cfg, "accessToken", accessToken, int(cfg.AccessTokenTTL.Seconds())))
	http.SetCookie(w, authCookie(cfg, "refreshToken", refreshToken, int(cfg.RefreshTokenTTL.Seconds())))
}

func clearAuthCookies(w http.ResponseWriter, cfg *config.Config) {
	http.SetCookie(w, authCookie(cfg, "accessToken", "", -1))
	http.SetCookie(w, authCookie(cfg, "refreshToken", "", -1))
}

func authCookie(cfg *config.Config, name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: sameSiteMode(cfg.CookieSameSite),
	}
}

func sameSiteMode(mode string) http.SameSite {
	switch mode {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
