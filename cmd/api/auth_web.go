package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"vairanya/internal/domain/staff"
	"vairanya/internal/session"

	"github.com/golang-jwt/jwt/v5"
)

func roleOrCustomer(s string) session.Role {
	role, _ := session.ParseRole(s)
	return role
}

func subjectFromClaims(token *jwt.Token) (int64, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid sub claim")
	}
	return int64(sub), nil
}

// setAuthCookies sets access + refresh tokens as HttpOnly cookies.
// Web browsers store/send these automatically; JS cannot read them (HttpOnly).
func (app *application) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {

	domain := ""

	if app.config.env == "production" {
		domain = ".vairanya.com"
	}
	// Access token cookie (short lived)
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(app.config.auth.token.accessTokenExp.Seconds()),
	})

	// Refresh token cookie (long lived)
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/v1/authentication", // refresh/logout only
		Domain:   domain,
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(app.config.auth.token.refreshTokenExp.Seconds()),
	})
}

func (app *application) clearAuthCookies(w http.ResponseWriter) {
	expire := func(name, path string) {

		domain := ""

		if app.config.env == "production" {
			domain = ".vairanya.com"
		}
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     path,
			Domain:   domain,
			HttpOnly: true,
			Secure:   app.config.env == "production",
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}

	expire("access_token", "/")
	expire("refresh_token", "/v1/authentication")
}

// - same login logic as the token handler
// - sets HttpOnly cookies for web
// - returns small JSON (user_id, role)
func (app *application) createTokenCookieHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateUserTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.store.Users.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}
	if err := user.Password.Compare(payload.Password); err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	subjectID := strconv.FormatInt(user.ID, 10)

	role := "customer"
	member, err := app.store.Staff.GetBySubject(r.Context(), subjectID)
	switch {
	case err == nil:
		role = string(member.Role)
		// Seed the resolved session so the back-office shell renders without
		// a second classification round trip.
		app.gate.Resolver().Establish(r.Context(), subjectID, member.Role, member.DisplayName)
	case errors.Is(err, staff.ErrNotFound):
		// plain customer, nothing to establish
	default:
		app.internalServerError(w, r, err)
		return
	}

	accessToken, refreshToken, err := app.authenticator.GenerateTokens(user.ID, role)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	// Save refresh token in DB for rotation/revocation
	if err := app.store.Users.SetRefreshToken(r.Context(), user.ID, refreshToken); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.setAuthCookies(w, accessToken, refreshToken)

	_ = app.jsonResponse(w, http.StatusOK, map[string]string{
		"user_id":    subjectID,
		"role":       role,
		"home_route": app.gate.Policy().HomeFor(roleOrCustomer(role)),
	})
}

func (app *application) refreshTokenCookieHandler(w http.ResponseWriter, r *http.Request) {
	// take refresh token from cookie
	c, err := r.Cookie("refresh_token")
	if err != nil || c.Value == "" {
		app.unauthorizedErrorResponse(w, r, errors.New("missing refresh token"))
		return
	}

	token, err := app.authenticator.ValidateRefreshToken(c.Value)
	if err != nil || !token.Valid {
		app.unauthorizedErrorResponse(w, r, errors.New("invalid refresh token"))
		return
	}

	userID, err := subjectFromClaims(token)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	// Ensure refresh token matches DB (rotation safety)
	saved, err := app.store.Users.GetRefreshToken(r.Context(), userID)
	if err != nil || saved != c.Value {
		app.unauthorizedErrorResponse(w, r, errors.New("refresh token mismatch"))
		return
	}

	role := app.lookupRole(r, userID)

	accessToken, newRefresh, err := app.authenticator.GenerateTokens(userID, role)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.SetRefreshToken(r.Context(), userID, newRefresh); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.setAuthCookies(w, accessToken, newRefresh)

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) logoutCookieHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("not authorized"))
		return
	}

	if err := app.store.Users.SetRefreshToken(r.Context(), user.ID, ""); err != nil {
		app.logger.Warnw("failed to delete refresh token on logout", "user_id", user.ID, "error", err)
	}

	// Drop the resolved session across both tiers.
	app.gate.Resolver().Clear(r.Context(), strconv.FormatInt(user.ID, 10))

	// Always clear cookies
	app.clearAuthCookies(w)

	w.WriteHeader(http.StatusNoContent)
}
