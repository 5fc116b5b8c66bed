package domain

import "time"

// User represents a signed-in account. Rows are created on the first
// successful Google sign-in for an email and never deleted here.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      *string   `json:"name" db:"name"`
	ImageURL  *string   `json:"image_url" db:"image_url"`
	Timezone  *string   `json:"timezone" db:"timezone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ProviderClaims is the verified profile returned by the identity provider.
type ProviderClaims struct {
	Email   string
	Name    *string
	Picture *string
}

// Identity is the caller resolved from a session cookie.
type Identity struct {
	ID    string
	Email string
}
