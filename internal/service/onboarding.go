package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"lishe/internal/domain"
	"lishe/internal/events"
)

// OnboardInput llega con los codigos tal como los envia la app.
type OnboardInput struct {
	Identifier       string
	GoalCode         int
	ActivityBand     string
	AgeBand          string
	Height           float64
	Weight           float64
	BMI              float64
	Gender           string
	DietType         string
	FoodAllergies    []string
	FavoriteFoods    []string
	HealthConditions string
}

// Onboard traduce los codigos del perfil, lo valida y lo guarda dejando al usuario en ONBOARDED.
// Se puede repetir para corregir el perfil.
func (s *RegistrationService) Onboard(ctx context.Context, in OnboardInput) (domain.User, error) {
	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" {
		return domain.User{}, validationError("identifier is required")
	}

	user, err := s.userByUsername(ctx, identifier)
	if err != nil {
		return domain.User{}, err
	}
	if !user.CanOnboard() {
		if user.Status == domain.StatusPendingVerification {
			return domain.User{}, ErrNotVerified
		}
		return domain.User{}, ErrPasswordNotSet
	}

	profile, err := buildProfile(in)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.users.UpdateProfile(ctx, user.ID, profile, domain.StatusOnboarded); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}

	user.Profile = profile
	user.Status = domain.StatusOnboarded
	s.publish(ctx, events.KeyUserOnboarded, user)
	return user, nil
}

func buildProfile(in OnboardInput) (domain.Profile, error) {
	goal, ok := domain.GoalFromCode(in.GoalCode)
	if !ok {
		return domain.Profile{}, validationError("unknown goal code %d", in.GoalCode)
	}
	activity, ok := domain.ActivityLevelFromBand(in.ActivityBand)
	if !ok {
		return domain.Profile{}, validationError("unknown activity band %q", in.ActivityBand)
	}
	age, ok := domain.AgeGroupFromBand(in.AgeBand)
	if !ok {
		return domain.Profile{}, validationError("unknown age band %q", in.AgeBand)
	}

	switch {
	case in.Height <= 0:
		return domain.Profile{}, validationError("height must be positive")
	case in.Weight <= 0:
		return domain.Profile{}, validationError("weight must be positive")
	case in.BMI < 0:
		return domain.Profile{}, validationError("bmi must not be negative")
	}

	gender := strings.TrimSpace(in.Gender)
	if gender == "" {
		return domain.Profile{}, validationError("gender is required")
	}
	diet := strings.TrimSpace(in.DietType)
	if diet == "" {
		return domain.Profile{}, validationError("diet type is required")
	}

	return domain.Profile{
		Height:           in.Height,
		Weight:           in.Weight,
		BMI:              in.BMI,
		Gender:           gender,
		DietType:         diet,
		Goal:             goal,
		ActivityLevel:    activity,
		AgeGroup:         age,
		FoodAllergies:    normalizeSet(in.FoodAllergies),
		FavoriteFoods:    normalizeSet(in.FavoriteFoods),
		HealthConditions: strings.TrimSpace(in.HealthConditions),
	}, nil
}

// normalizeSet recorta, descarta vacios y elimina duplicados conservando el orden.
func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
