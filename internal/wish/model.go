package wish

import "time"

type Wish struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null;index:idx_wishes_name_created_at,priority:1"`
	Text      string    `gorm:"column:wish;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_wishes_name_created_at,priority:2,sort:desc"`
}

func (Wish) TableName() string {
	return "wishes"
}
