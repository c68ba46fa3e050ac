package session

import "crypto/subtle"

const csrfKey = "_csrft_"

// NewCSRFToken stores and returns a fresh CSRF token.
func (s *Session) NewCSRFToken() string {
	token := randomHex()
	s.Set(csrfKey, token)
	return token
}

// CSRFToken returns the stored CSRF token, creating one when absent.
func (s *Session) CSRFToken() string {
	if token, ok := s.GetString(csrfKey); ok && token != "" {
		return token
	}
	return s.NewCSRFToken()
}

// ValidCSRFToken compares candidate with the stored token in constant time.
func (s *Session) ValidCSRFToken(candidate string) bool {
	token, ok := s.GetString(csrfKey)
	if !ok || token == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(candidate)) == 1
}
