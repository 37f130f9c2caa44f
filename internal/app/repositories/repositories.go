package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances.
type Repositories struct {
	User    *UserRepository
	Token   *TokenRepository
	Course  *CourseRepository
	Module  *ModuleRepository
	Content *ContentRepository
}

// NewRepositories creates all repositories sharing one connection pool.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Token:   NewTokenRepository(db),
		Course:  NewCourseRepository(db),
		Module:  NewModuleRepository(db),
		Content: NewContentRepository(db),
	}
}
