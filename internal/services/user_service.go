package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/recettes/internal/auth"
	"github.com/tbourn/recettes/internal/domain"
	"github.com/tbourn/recettes/internal/observability"
	"github.com/tbourn/recettes/internal/repo"
)

const msgUserTaken = "L'email et/ou le login sont déjà inscrits dans notre base de données."

var userMessages = map[string]string{
	"Login.required":     "L'identifiant est manquant",
	"Login.max":          "L'identifiant ne doit pas dépasser 45 caractères",
	"Email.required":     "L'email est manquant",
	"Surname.required":   "Le nom est manquant",
	"FirstName.required": "Le prenom est manquant",
	"Password.required":  "Le mot de passe est manquant",
	"Password.bcryptlen": "Le mot de passe ne doit pas dépasser 72 octets",
}

// UserInput carries the registration form. Field order is the order in
// which validation messages are reported.
type UserInput struct {
	Login     string `validate:"required,max=45"`
	Email     string `validate:"required"`
	Surname   string `validate:"required"`
	FirstName string `validate:"required"`
	Password  string `validate:"required,bcryptlen"`
}

// UserService registers and identifies accounts.
type UserService struct {
	DB     *gorm.DB
	Hasher *auth.Hasher
}

// NewUserService constructs a UserService hashing passwords with h.
func NewUserService(db *gorm.DB, h *auth.Hasher) *UserService {
	return &UserService{DB: db, Hasher: h}
}

// Create validates in and stores a new account with a bcrypt digest of the
// password. The password itself is never stored. Login and email must both
// be unused.
func (s *UserService) Create(ctx context.Context, in UserInput) (u *domain.User, err error) {
	ctx, end := observability.StartSpan(ctx, "UserService", "Create")
	defer end(&err)
	defer func() { recordWrite("user", "create", err) }()

	in.Login, in.Email = trim(in.Login), trim(in.Email)
	in.Surname, in.FirstName = trim(in.Surname), trim(in.FirstName)
	if trim(in.Password) == "" {
		in.Password = ""
	}

	msgs := check(in, userMessages)
	taken, err := repo.UserTaken(ctx, s.DB, in.Login, in.Email)
	if err != nil {
		return nil, commitFailed(err)
	}
	if taken {
		msgs = append(msgs, msgUserTaken)
	}
	if len(msgs) > 0 {
		return nil, rejected(msgs...)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, commitFailed(err)
	}
	u = &domain.User{
		Login:        in.Login,
		Email:        in.Email,
		Surname:      in.Surname,
		FirstName:    in.FirstName,
		PasswordHash: hash,
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if repo.IsDuplicate(err) {
			return nil, &ValidationError{Messages: []string{msgUserTaken}, Err: err}
		}
		return nil, commitFailed(err)
	}
	return u, nil
}

// Identify returns the account matching login and password. An unknown
// login and a wrong password both yield ErrInvalidCredentials and take
// about as long.
func (s *UserService) Identify(ctx context.Context, login, password string) (u *domain.User, err error) {
	ctx, end := observability.StartSpan(ctx, "UserService", "Identify")
	defer end(&err)

	login = trim(login)
	if login == "" || password == "" {
		s.Hasher.Burn(password)
		return nil, ErrInvalidCredentials
	}
	u, err = repo.GetUserByLogin(ctx, s.DB, login)
	if errors.Is(err, repo.ErrNotFound) {
		s.Hasher.Burn(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.Hasher.Check(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns user id or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id uint) (u *domain.User, err error) {
	ctx, end := observability.StartSpan(ctx, "UserService", "Get")
	defer end(&err)

	u, err = repo.GetUser(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}
