package database

import "blogapi/internal/models"

// Models lists every table managed by Migrate, parents first.
func Models() []any {
	return []any{
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
	}
}
