// Package cookie signs and verifies values carried in HTTP cookies.
//
// The Signer is the primitive: it binds a value to an HMAC computed with a
// key derived from a secret and a salt, using a configurable hash algorithm
// (sha1, sha256, sha384, sha512, sha3-256, sha3-512, blake2b-256,
// blake2b-512). Several secrets can be configured to rotate keys - the first
// signs, every secret verifies.
//
// The Manager wraps net/http cookies with default attributes and signed
// variants of Set and Get.
//
// # Usage
//
//	signer, err := cookie.NewSigner([]string{os.Getenv("COOKIE_SECRET")}, "app.", "sha512")
//	if err != nil { log.Fatal(err) }
//	man := cookie.NewWithSigner(signer, cookie.WithSecure(true))
//
//	_ = man.SetSigned(w, "uid", "42")
//	uid, err := man.GetSigned(r, "uid")
//
// # Configuration
//
// Config can be populated from environment variables through
// github.com/caarlos0/env and turned into a Manager with NewFromConfig.
//
// # Error Handling
//
// Sentinel errors such as ErrInvalidSignature, ErrInvalidFormat and
// ErrCookieNotFound work with errors.Is.
package cookie
