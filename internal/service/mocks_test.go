package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"lishe/internal/domain"
	"lishe/internal/repository"
)

type mockUserRepo struct {
	nextID     int64
	usersByID  map[int64]domain.User
	byUsername map[string]int64
	byMobile   map[string]int64
	createErr  error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:  make(map[int64]domain.User),
		byUsername: make(map[string]int64),
		byMobile:   make(map[string]int64),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byUsername[user.Username]; ok {
		return repository.ErrDuplicateUsername
	}
	if _, ok := m.byMobile[user.Mobile]; ok {
		return repository.ErrDuplicateMobile
	}
	m.nextID++
	user.ID = m.nextID
	user.UpdatedAt = user.CreatedAt
	m.usersByID[user.ID] = *user
	m.byUsername[user.Username] = user.ID
	m.byMobile[user.Mobile] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	id, ok := m.byUsername[username]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByMobile(ctx context.Context, mobile string) (domain.User, error) {
	id, ok := m.byMobile[mobile]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) UpdateStatus(_ context.Context, id int64, status domain.UserStatus) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Status = status
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) UpdateCredentials(_ context.Context, id int64, hash string, role domain.Role, status domain.UserStatus) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = hash
	user.Role = role
	user.Status = status
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id int64, profile domain.Profile, status domain.UserStatus) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Profile = profile
	user.Status = status
	m.usersByID[id] = user
	return nil
}

type mockOTPRepo struct {
	nextID   int64
	byUserID map[int64]domain.OTPCode
	// stolen simula que otra peticion consumio el codigo antes que nosotros.
	stolen bool
}

func newMockOTPRepo() *mockOTPRepo {
	return &mockOTPRepo{byUserID: make(map[int64]domain.OTPCode)}
}

func (m *mockOTPRepo) Create(_ context.Context, otp *domain.OTPCode) error {
	if _, ok := m.byUserID[otp.UserID]; ok {
		return repository.ErrDuplicateOTP
	}
	m.nextID++
	otp.ID = m.nextID
	m.byUserID[otp.UserID] = *otp
	return nil
}

func (m *mockOTPRepo) GetByUserID(_ context.Context, userID int64) (domain.OTPCode, error) {
	otp, ok := m.byUserID[userID]
	if !ok {
		return domain.OTPCode{}, pgx.ErrNoRows
	}
	return otp, nil
}

func (m *mockOTPRepo) Delete(_ context.Context, id int64) (bool, error) {
	if m.stolen {
		return false, nil
	}
	for userID, otp := range m.byUserID {
		if otp.ID == id {
			delete(m.byUserID, userID)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOTPRepo) ReplaceForUser(_ context.Context, otp *domain.OTPCode) error {
	m.nextID++
	otp.ID = m.nextID
	m.byUserID[otp.UserID] = *otp
	return nil
}

// mockTransactor ejecuta fn sobre los mismos repos en memoria.
type mockTransactor struct {
	users *mockUserRepo
	otps  *mockOTPRepo
	calls int
}

func (m *mockTransactor) WithinTx(_ context.Context, fn func(repository.UserRepository, repository.OTPRepository) error) error {
	m.calls++
	return fn(m.users, m.otps)
}

type mockSMSSender struct {
	calls       int
	lastPhone   string
	lastCode    string
	lastExpires time.Time
	err         error
}

func (m *mockSMSSender) SendOTP(_ context.Context, phone, code string, expiresAt time.Time) error {
	m.calls++
	m.lastPhone = phone
	m.lastCode = code
	m.lastExpires = expiresAt
	return m.err
}

type publishedEvent struct {
	key     string
	payload any
}

type mockPublisher struct {
	published []publishedEvent
	err       error
}

func (m *mockPublisher) PublishJSON(_ context.Context, key string, v any) error {
	m.published = append(m.published, publishedEvent{key: key, payload: v})
	return m.err
}

type allowAll struct{}

func (allowAll) Allow(context.Context, string) bool { return true }

type denyAll struct{}

func (denyAll) Allow(context.Context, string) bool { return false }

var errStoreDown = errors.New("store down")
