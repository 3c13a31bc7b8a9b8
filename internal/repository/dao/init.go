package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&School{},
		&Student{},
		&Menu{},
		&Subscription{},
		&Payment{},
		&Attendance{},
		&Notification{},
	)
}
