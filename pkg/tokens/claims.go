package tokens

import (
	"bytes"
	"encoding/json"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified identity of a caller.
type Claims struct {
	Subject   string
	Email     string
	Username  string
	CompanyID string
	Groups    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c *Claims) InGroup(group string) bool {
	return slices.Contains(c.Groups, group)
}

// claimString accepts a JSON string or number. Custom attributes arrive as
// strings from the user pool but as numbers from some token minting tools;
// the value is validated later by whoever reads it.
type claimString string

func (s *claimString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = claimString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = claimString(n.String())
	return nil
}

// userPoolClaims mirrors the payload issued by the identity provider.
type userPoolClaims struct {
	Email     string      `json:"email,omitempty"`
	Username  string      `json:"cognito:username,omitempty"`
	CompanyID claimString `json:"custom:company_id,omitempty"`
	Groups    []string    `json:"cognito:groups,omitempty"`
	ClientID  string      `json:"client_id,omitempty"`
	TokenUse  string      `json:"token_use,omitempty"`
	jwt.RegisteredClaims
}

func (c *userPoolClaims) toClaims() *Claims {
	out := &Claims{
		Subject:   c.Subject,
		Email:     c.Email,
		Username:  c.Username,
		CompanyID: string(c.CompanyID),
		Groups:    c.Groups,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
