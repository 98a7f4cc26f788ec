package http

import "lishe/internal/domain"

type profileResponse struct {
	Username         string           `json:"username"`
	Mobile           string           `json:"mobile"`
	Status           string           `json:"status"`
	Gender           string           `json:"gender,omitempty"`
	DietType         string           `json:"diet_type,omitempty"`
	Height           float64          `json:"height,omitempty"`
	Weight           float64          `json:"weight,omitempty"`
	BMI              float64          `json:"bmi_value,omitempty"`
	FoodAllergies    []string         `json:"food_allergies"`
	FavoriteFoods    []string         `json:"favorite_foods"`
	HealthConditions string           `json:"health_conditions,omitempty"`
	Goal             *domain.EnumView `json:"goal,omitempty"`
	Level            *domain.EnumView `json:"level,omitempty"`
	Age              *domain.EnumView `json:"age,omitempty"`
}

func newProfileResponse(u domain.User) profileResponse {
	p := u.Profile
	resp := profileResponse{
		Username:         u.Username,
		Mobile:           u.Mobile,
		Status:           string(u.Status),
		Gender:           p.Gender,
		DietType:         p.DietType,
		Height:           p.Height,
		Weight:           p.Weight,
		BMI:              p.BMI,
		FoodAllergies:    orEmpty(p.FoodAllergies),
		FavoriteFoods:    orEmpty(p.FavoriteFoods),
		HealthConditions: p.HealthConditions,
	}
	if p.Goal != "" {
		v := p.Goal.View()
		resp.Goal = &v
	}
	if p.ActivityLevel != "" {
		v := p.ActivityLevel.View()
		resp.Level = &v
	}
	if p.AgeGroup != "" {
		v := p.AgeGroup.View()
		resp.Age = &v
	}
	return resp
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
