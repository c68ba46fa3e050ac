package cookie

import (
	"errors"
	"net/http"
	"time"
)

// Manager writes and reads cookies with shared default attributes.
// Signed cookies go through the Manager's Signer.
type Manager struct {
	signer   *Signer
	defaults Options
}

// New creates a Manager signing with secrets under the default salt and hash
// algorithm. Use NewWithSigner to control both.
func New(secrets []string, opts ...Option) (*Manager, error) {
	signer, err := NewSigner(secrets, DefaultSalt, DefaultHashAlgorithm)
	if err != nil {
		return nil, err
	}
	return NewWithSigner(signer, opts...), nil
}

// NewWithSigner creates a Manager around an existing Signer.
func NewWithSigner(signer *Signer, opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		signer:   signer,
		defaults: applyOptions(defaults, opts),
	}
}

// Signer returns the signer used for signed cookies.
func (m *Manager) Signer() *Signer {
	return m.signer
}

// Defaults returns a copy of the default cookie attributes.
func (m *Manager) Defaults() Options {
	return m.defaults
}

func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	})
	return nil
}

func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete instructs the client to drop the cookie. Options override the
// defaults so that Path and Domain match the cookie being removed.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	options := applyOptions(m.defaults, opts)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
		Secure:   options.Secure,
	})
}

func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.signer.SignString(value), opts...)
}

func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.signer.VerifyString(signed)
}
