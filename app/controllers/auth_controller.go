package controllers

import (
	"net/http"
	"time"

	"inkwell/app/auth"
	"inkwell/app/logger"
	"inkwell/app/services"
)

// CookieName is the cookie carrying the access token.
const CookieName = "jwt"

// AuthController handles sign up, sign in and the current user
type AuthController struct {
	authService *services.AuthService
	cookieTTL   time.Duration
	log         *logger.Logger
}

// NewAuthController creates an AuthController whose login cookie lives for
// cookieTTL, normally the token lifetime.
func NewAuthController(authService *services.AuthService, cookieTTL time.Duration, log *logger.Logger) *AuthController {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthController{
		authService: authService,
		cookieTTL:   cookieTTL,
		log:         log.With("controller", "AuthController"),
	}
}

func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		sendError(w, r, ac.log, err)
		return
	}

	result, err := ac.authService.Register(r.Context(), services.RegisterInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		sendError(w, r, ac.log, err)
		return
	}
	ac.setCookie(w, r, result.Token)
	sendData(w, http.StatusCreated, result)
}

func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		sendError(w, r, ac.log, err)
		return
	}

	result, err := ac.authService.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		sendError(w, r, ac.log, err)
		return
	}
	ac.setCookie(w, r, result.Token)
	sendData(w, http.StatusOK, result)
}

// Logout clears the token cookie. Bearer tokens stay valid until they expire.
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	sendMessage(w, http.StatusOK, "Logged out")
}

func (ac *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	user, err := ac.authService.Me(r.Context(), principal)
	if err != nil {
		sendError(w, r, ac.log, err)
		return
	}
	sendData(w, http.StatusOK, user)
}

func (ac *AuthController) setCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ac.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
