package model

type UserRole string

const (
	Admin    UserRole = "admin"
	Trainer  UserRole = "trainer"
	Employee UserRole = "employee"
)

// User is the local mirror of the identity directory: an opaque id plus a
// display name and role. Passwords exist only for the API's own login.
// swagger:model User
type User struct {
	BaseModel
	Name       string   `gorm:"size:100;not null" json:"name"`
	Email      string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password   string   `gorm:"size:255;not null" json:"-"`
	Role       UserRole `gorm:"size:20;default:'employee'" json:"role"`
	Department string   `gorm:"size:100" json:"department,omitempty"`
	IsDisabled bool     `gorm:"default:false" json:"isDisabled"`
}

func (User) TableName() string {
	return "users"
}
