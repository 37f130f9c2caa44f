package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/emre/educore/internal/app/models"
	appRepos "github.com/emre/educore/internal/app/repositories"
	"github.com/emre/educore/internal/pkg/apperrors"
	pkgauth "github.com/emre/educore/internal/pkg/auth"
)

// CreateDefaultData creates a demo instructor account if it doesn't exist, so
// a fresh database has a user that can exercise the course endpoints.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")

	hash, err := pkgauth.HashPassword("instructor-demo-pass")
	if err != nil {
		return err
	}

	instructor := &appModels.User{
		Email:        "instructor@educore.app",
		PasswordHash: hash,
		FirstName:    "Demo",
		LastName:     "Instructor",
		RoleType:     appModels.RoleInstructor,
	}

	_, err = userRepo.Create(ctx, instructor, appModels.InstructorPermissions)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Debug().Str("email", instructor.Email).Msg("Demo instructor already present")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating demo instructor")
		return err
	}

	lgr.Info().Str("email", instructor.Email).Msg("Demo instructor created")
	return nil
}
