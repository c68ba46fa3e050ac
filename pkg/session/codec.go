package session

import (
	"net/http"

	"github.com/dmitrymomot/plugsession/pkg/cookie"
)

// CookieCodec binds session identifiers to a signed cookie.
type CookieCodec struct {
	cookies *cookie.Manager
	name    string
	domains []string
}

// NewCookieCodec creates a codec writing cookie name with the attributes of
// cookies. One Set-Cookie header is emitted per domain; with no domains the
// Domain attribute is left out.
func NewCookieCodec(cookies *cookie.Manager, name string, domains ...string) *CookieCodec {
	return &CookieCodec{
		cookies: cookies,
		name:    name,
		domains: domains,
	}
}

// Name returns the cookie name.
func (c *CookieCodec) Name() string {
	return c.name
}

// Bind returns the verified identifier carried by the request. A missing,
// tampered or foreign cookie yields false.
func (c *CookieCodec) Bind(r *http.Request) (string, bool) {
	id, err := c.cookies.GetSigned(r, c.name)
	if err != nil || !IsIdentifier(id) {
		return "", false
	}
	return id, true
}

// SetCookies writes the signed identifier.
func (c *CookieCodec) SetCookies(w http.ResponseWriter, id string) {
	if len(c.domains) == 0 {
		_ = c.cookies.SetSigned(w, c.name, id)
		return
	}
	for _, d := range c.domains {
		_ = c.cookies.SetSigned(w, c.name, id, cookie.WithDomain(d))
	}
}

// Expire tells the client to drop the session cookie.
func (c *CookieCodec) Expire(w http.ResponseWriter) {
	if len(c.domains) == 0 {
		c.cookies.Delete(w, c.name)
		return
	}
	for _, d := range c.domains {
		c.cookies.Delete(w, c.name, cookie.WithDomain(d))
	}
}
