package models

// AllTables returns every model for migration, in dependency order.
func AllTables() []any {
	return []any{
		&User{},
		&Permission{},
		&Post{},
		&Comment{},
		&Tag{},
		&IconGroup{},
		&Attachment{},
	}
}
