package app

import (
	"fmt"
	"regexp"
	"strings"

	"lecturehub/pkg/auth"
	"lecturehub/pkg/domain"
)

// Default profile assets assigned at registration.
const (
	defaultAvatar     = "/static/defaults/avatar.png"
	defaultBackground = "/static/defaults/background.jpg"
)

var emailRx = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

func sanitize(u domain.User) domain.User {
	u.PasswordHash = ""
	return u
}

// Register creates a user account. Username and email must be unused;
// duplicates fail with a conflict error before the insert.
func (a *App) Register(username, email, password string, role int) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if !emailRx.MatchString(email) {
		return domain.User{}, ErrInvalidEmail
	}
	if taken, err := a.store.HasUsername(username); err != nil {
		return domain.User{}, fmt.Errorf("probe username: %w", err)
	} else if taken {
		return domain.User{}, ErrUsernameTaken
	}
	if taken, err := a.store.HasEmail(email); err != nil {
		return domain.User{}, fmt.Errorf("probe email: %w", err)
	} else if taken {
		return domain.User{}, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Avatar:       defaultAvatar,
		Background:   defaultBackground,
	}
	id, err := a.store.CreateUser(user)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	user.ID = id
	return sanitize(user), nil
}

// Login verifies credentials and opens a session. The error for an
// unknown email and a wrong password is identical.
func (a *App) Login(email, password string) (domain.User, string, error) {
	user, ok, err := a.store.GetUserByEmail(strings.TrimSpace(email))
	if err != nil {
		return domain.User{}, "", fmt.Errorf("lookup user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("open session: %w", err)
	}
	return sanitize(user), token, nil
}

// Logout discards a session token.
func (a *App) Logout(token string) error {
	return a.sessions.DeleteSession(token)
}

// UserFromToken resolves a bearer token to its user.
func (a *App) UserFromToken(token string) (domain.User, bool) {
	userID, ok, err := a.sessions.GetUserIDByToken(token)
	if err != nil || !ok {
		return domain.User{}, false
	}
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil || !ok {
		return domain.User{}, false
	}
	return sanitize(user), true
}

// GetUser returns a user's public profile.
func (a *App) GetUser(id string) (domain.User, error) {
	userID, err := parseID(id)
	if err != nil {
		return domain.User{}, err
	}
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return sanitize(user), nil
}

// ListUsers returns every public profile.
func (a *App) ListUsers() ([]domain.User, error) {
	users, err := a.store.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	res := make([]domain.User, 0, len(users))
	for _, u := range users {
		res = append(res, sanitize(u))
	}
	return res, nil
}

// UpdateProfile applies a partial profile update. A username change
// re-checks uniqueness against other accounts.
func (a *App) UpdateProfile(id string, upd domain.UserUpdate) (domain.User, error) {
	userID, err := parseID(id)
	if err != nil {
		return domain.User{}, err
	}
	if upd.Empty() {
		return domain.User{}, ErrEmptyUpdate
	}
	current, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		if name == "" {
			return domain.User{}, ErrEmptyUpdate
		}
		if name != current.Username {
			if taken, err := a.store.HasUsername(name); err != nil {
				return domain.User{}, fmt.Errorf("probe username: %w", err)
			} else if taken {
				return domain.User{}, ErrUsernameTaken
			}
		}
		upd.Username = &name
	}
	matched, err := a.store.UpdateUser(userID, upd)
	if err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	if !matched {
		return domain.User{}, ErrUserNotFound
	}
	return a.GetUser(userID)
}
