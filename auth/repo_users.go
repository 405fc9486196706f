package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the user repository surface the rest of the app consumes.
type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

// NewUsersRepository builds a Users repository on top of the generic
// bun-backed repository.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	if existing, err := a.getByEmailTx(ctx, tx, user.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !repository.IsRecordNotFound(err) {
		return nil, err
	}

	prepareUserDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.getByEmailTx(ctx, a.db, email)
}

func (a *users) getByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"identifier": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	record := &User{}
	record.ID = id
	record.PasswordHash = passwordHash
	now := time.Now()
	record.UpdatedAt = &now

	_, err := a.Repository.UpdateTx(ctx, a.db, record, repository.UpdateByID(id.String()))
	return err
}

func prepareUserDefaults(user *User) {
	if user.ID == uuid.Nil {
		// deterministic id from the unique email, falls back to random
		if id, err := hashid.NewUUID(user.Email); err == nil {
			user.ID = id
		} else {
			user.ID = uuid.New()
		}
	}

	if user.Role == "" {
		user.Role = RoleStudent
	}

	if user.CreatedAt == nil {
		now := time.Now()
		user.CreatedAt = &now
		user.UpdatedAt = &now
	}
}

// IsNotFound reports whether err is a record-not-found from the repository
// layer or the structured identity error.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return repository.IsRecordNotFound(err) || goerrors.Is(err, ErrIdentityNotFound)
}
