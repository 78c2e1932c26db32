package model

import "time"

// Member roles. Travellers buy reservations; sellers publish products.
// Both share the members table and differ only in the role column.
const (
	RoleTraveller = "TRAVELLER"
	RoleSeller    = "SELLER"
)

// DefaultProfileImageURL is assigned to new accounts until the member
// uploads a picture of their own.
const DefaultProfileImageURL = "https://static.travelly.dev/images/default-profile.png"

// Member represents an account row in the `members` table. A member acts
// as a buyer (traveller) or a seller depending on its role. The point
// balance is the only payment medium in the system: it is debited on
// reservation create and credited back on cancel/reject.
//
// Fields:
//
//	ID           – primary key identifier.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password.
//	Nickname     – display name.
//	Point        – internal balance; buyer funds or seller earnings.
//	ImageURL     – profile image location.
//	Role         – TRAVELLER or SELLER.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type Member struct {
	ID           uint64    // members.id
	Email        string    // members.email
	PasswordHash string    // members.password_hash
	Nickname     string    // members.nickname
	Point        int       // members.point
	ImageURL     string    // members.image_url
	Role         string    // members.role
	CreatedAt    time.Time // members.created_at
	UpdatedAt    time.Time // members.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each token
// belongs to a member; only the SHA-256 hash of the raw value is stored.
//
// Fields:
//
//	ID        – primary key identifier.
//	MemberID  – owner of the token.
//	TokenHash – SHA-256 hex digest of the token value.
//	ExpiresAt – expiration timestamp.
//	RevokedAt – when the token was revoked (nil if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	MemberID  uint64     // refresh_tokens.member_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
