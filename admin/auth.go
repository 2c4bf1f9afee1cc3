package admin

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"wanderlog/config"
)

const (
	sessionEmailKey  = "email"
	sessionIssuedKey = "issued_at"
	// ContextEmailKey holds the signed-in admin's email on gated requests.
	ContextEmailKey = "admin_email"

	SignInPath       = "/signin"
	UnauthorizedPath = "/auth/unauthorized"
)

// Credentials is the single administrator identity.
type Credentials struct {
	Email        string
	Password     string
	PasswordHash string
}

func CredentialsFrom(cfg config.AdminConfig) Credentials {
	return Credentials{Email: cfg.Email, Password: cfg.Password, PasswordHash: cfg.PasswordHash}
}

// Authenticate compares the email case-insensitively and the password
// exactly. A configured bcrypt hash takes precedence over the plain password.
func (cr Credentials) Authenticate(email, password string) bool {
	if cr.Email == "" || !strings.EqualFold(strings.TrimSpace(email), cr.Email) {
		return false
	}
	if cr.PasswordHash != "" {
		return checkPasswordHash(password, cr.PasswordHash)
	}
	if cr.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(cr.Password)) == 1
}

// HashPassword returns a bcrypt hash suitable for admin.password_hash.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// RequireAdmin gates every path under /admin. Without a live session the
// visitor is sent to the sign-in page with the original URL as callbackUrl;
// a session older than maxAge counts as absent. A session for anyone but
// adminEmail is sent to the unauthorized page. All other paths pass through
// untouched.
func RequireAdmin(adminEmail string, maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAdminPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		session := sessions.Default(c)
		email, _ := session.Get(sessionEmailKey).(string)
		issuedAt, _ := session.Get(sessionIssuedKey).(int64)
		if email == "" || expired(issuedAt, maxAge) {
			c.Redirect(http.StatusFound, SignInPath+"?callbackUrl="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		if !strings.EqualFold(email, adminEmail) {
			c.Redirect(http.StatusFound, UnauthorizedPath)
			c.Abort()
			return
		}

		c.Set(ContextEmailKey, email)
		c.Next()
	}
}

func isAdminPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

// expired reports whether a session issued at the given unix time is older
// than maxAge. A session without an issue time is always expired.
func expired(issuedAt int64, maxAge time.Duration) bool {
	if issuedAt == 0 {
		return true
	}
	return maxAge > 0 && time.Since(time.Unix(issuedAt, 0)) > maxAge
}

type signinRequest struct {
	Email       string `form:"email" json:"email"`
	Password    string `form:"password" json:"password"`
	CallbackURL string `form:"callbackUrl" json:"callbackUrl"`
}

func (a *AdminModule) signinPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signin.html", gin.H{
		"callbackUrl": c.Query("callbackUrl"),
	})
}

func (a *AdminModule) signinPost(c *gin.Context) {
	var req signinRequest
	_ = c.ShouldBind(&req)
	wantsJSON := c.ContentType() == gin.MIMEJSON

	if !a.credentials.Authenticate(req.Email, req.Password) {
		if wantsJSON {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.HTML(http.StatusUnauthorized, "signin.html", gin.H{
			"error":       "Invalid email or password",
			"email":       req.Email,
			"callbackUrl": req.CallbackURL,
		})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionEmailKey, a.credentials.Email)
	session.Set(sessionIssuedKey, time.Now().Unix())
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "signin.html", gin.H{
			"error":       "Could not start session",
			"callbackUrl": req.CallbackURL,
		})
		return
	}

	target := safeCallback(req.CallbackURL, c.Request.Host)
	if wantsJSON {
		c.JSON(http.StatusOK, gin.H{"url": target})
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (a *AdminModule) signout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = session.Save()

	c.Redirect(http.StatusSeeOther, "/")
}

func (a *AdminModule) unauthorized(c *gin.Context) {
	c.HTML(http.StatusForbidden, "unauthorized.html", gin.H{})
}

// safeCallback keeps post-sign-in redirects on this site. Absolute URLs are
// accepted only for the request's own host and reduced to path and query.
func safeCallback(raw, host string) string {
	const fallback = "/admin"
	if raw == "" {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fallback
	}
	if u.IsAbs() || u.Host != "" {
		if !strings.EqualFold(u.Host, host) {
			return fallback
		}
		u.Scheme, u.Host, u.User = "", "", nil
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") || strings.HasPrefix(u.Path, "/\\") {
		return fallback
	}
	return u.RequestURI()
}
