package model

// Role is the subscription tier recorded in the accounts database.
type Role string

const (
	RoleFree    Role = "free_user"
	RolePremium Role = "premium_user"
)

// UserProfile mirrors a row of the accounts database. The pipeline only ever
// reads it (tier checks, notification email); the sole write is the upgrade
// to premium.
type UserProfile struct {
	ID          string
	Name        string
	Email       string
	Institution string
	Role        Role
}

func (p *UserProfile) IsPremium() bool { return p != nil && p.Role == RolePremium }
