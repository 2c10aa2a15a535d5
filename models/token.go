package models

// AccessClaims is the JWT payload carried by upload and settings requests.
// The subject identifies the user whose settings and jobs are addressed.
type AccessClaims struct {
	Issuer    string `json:"iss"` // optional
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// UserID returns the opaque user identifier the claims belong to.
func (c *AccessClaims) UserID() string {
	return c.Subject
}
