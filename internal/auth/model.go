package auth

import "time"

// Identity is one allowed participant. Code holds a bcrypt hash of the
// upper-cased credential code bound on first login.
type Identity struct {
	Name       string     `gorm:"column:name;primaryKey"`
	Code       string     `gorm:"column:code;not null"`
	Attempts   int        `gorm:"column:attempts;not null;default:0"`
	BlockUntil *time.Time `gorm:"column:block_until"`
}

func (Identity) TableName() string {
	return "users"
}
