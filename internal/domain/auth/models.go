package auth

import "time"

type Account struct {
	ID                  int64      `json:"id"`
	Email               string     `json:"email"`
	SecretHash          string     `json:"-"`
	Role                Role       `json:"role"`
	Active              bool       `json:"active"`
	FirstName           string     `json:"firstName,omitempty"`
	LastName            string     `json:"lastName,omitempty"`
	MFAEnabled          bool       `json:"mfaEnabled"`
	MFASecretEnc        []byte     `json:"-"`
	LastAuthenticatedAt *time.Time `json:"lastAuthenticatedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Identity is what a verified token proves about the caller.
type Identity struct {
	AccountID int64     `json:"accountId"`
	Role      Role      `json:"role"`
	TokenID   string    `json:"-"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type RegisterInput struct {
	Email     string
	Secret    string
	Role      Role
	FirstName string
	LastName  string
}

type AccountPatch struct {
	Role      *Role
	Active    *bool
	FirstName *string
	LastName  *string
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Account   Account   `json:"account"`
}

type AccountFilter struct {
	Role   Role
	Active *bool
	Limit  int
	Offset int
}
