package domain

import "strings"

// EnumView es la representacion {code, description} que se devuelve al cliente.
type EnumView struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type Goal string

const (
	GoalLoseWeight   Goal = "LOSE_WEIGHT"
	GoalEatHealthier Goal = "EAT_HEALTHIER"
	GoalManageHealth Goal = "MANAGE_HEALTH"
)

var goalByCode = map[int]Goal{
	100: GoalLoseWeight,
	200: GoalEatHealthier,
	300: GoalManageHealth,
}

var goalDescriptions = map[Goal]string{
	GoalLoseWeight:   "Health, sustainable weight loss plan",
	GoalEatHealthier: "Balanced nutrition for overall wellness",
	GoalManageHealth: "Specialized diets for health conditions",
}

// GoalFromCode traduce el codigo numerico enviado por la app.
func GoalFromCode(code int) (Goal, bool) {
	g, ok := goalByCode[code]
	return g, ok
}

func (g Goal) View() EnumView {
	return EnumView{Code: string(g), Description: goalDescriptions[g]}
}

type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "SEDENTARY"
	ActivityLightlyActive    ActivityLevel = "LIGHTLY_ACTIVE"
	ActivityModeratelyActive ActivityLevel = "MODERATELY_ACTIVE"
	ActivityVeryActive       ActivityLevel = "VERY_ACTIVE"
)

var activityByBand = map[string]ActivityLevel{
	"0-1": ActivitySedentary,
	"1-3": ActivityLightlyActive,
	"3-5": ActivityModeratelyActive,
	"5-7": ActivityVeryActive,
}

var activityDescriptions = map[ActivityLevel]string{
	ActivitySedentary:        "Little or no exercise",
	ActivityLightlyActive:    "Light exercise 1-3 days/week",
	ActivityModeratelyActive: "Moderate exercise 3-5 days/week",
	ActivityVeryActive:       "Hard exercise 6-7 days/week",
}

// ActivityLevelFromBand traduce rangos como "3-5" (dias de ejercicio por semana).
func ActivityLevelFromBand(band string) (ActivityLevel, bool) {
	a, ok := activityByBand[strings.TrimSpace(band)]
	return a, ok
}

func (a ActivityLevel) View() EnumView {
	return EnumView{Code: string(a), Description: activityDescriptions[a]}
}

type AgeGroup string

const (
	AgeInfancy         AgeGroup = "INFANCY"
	AgeChildhood       AgeGroup = "CHILDHOOD"
	AgeAdolescence     AgeGroup = "ADOLESCENCE"
	AgeYoungAdulthood  AgeGroup = "YOUNG_ADULTHOOD"
	AgeMiddleAdulthood AgeGroup = "MIDDLE_ADULTHOOD"
	AgeOlderAdulthood  AgeGroup = "OLDER_ADULTHOOD"
)

var ageByBand = map[string]AgeGroup{
	"0-1":       AgeInfancy,
	"1-12":      AgeChildhood,
	"13-19":     AgeAdolescence,
	"20-39":     AgeYoungAdulthood,
	"40-59":     AgeMiddleAdulthood,
	"60+ years": AgeOlderAdulthood,
}

var ageDescriptions = map[AgeGroup]string{
	AgeInfancy:         "0-1 year: Focus on growth and development, vaccinations, nutrition, and identifying potential developmental delays.",
	AgeChildhood:       "1-12 years: Emphasis on immunizations, healthy eating habits, physical activity, and addressing common childhood illnesses.",
	AgeAdolescence:     "13-19 years: Concerns include puberty, mental health, substance use prevention, and promoting healthy behaviors.",
	AgeYoungAdulthood:  "20-39 years: Focus on establishing healthy lifestyles, reproductive health, and managing chronic conditions that may emerge.",
	AgeMiddleAdulthood: "40-59 years: Emphasis on preventive screenings, managing chronic conditions, and maintaining a healthy weight.",
	AgeOlderAdulthood:  "60+ years: Prioritizes maintaining independence, managing age-related conditions, and promoting cognitive and physical well-being.",
}

// AgeGroupFromBand traduce el rango de edad elegido en la app.
func AgeGroupFromBand(band string) (AgeGroup, bool) {
	a, ok := ageByBand[strings.TrimSpace(band)]
	return a, ok
}

func (a AgeGroup) View() EnumView {
	return EnumView{Code: string(a), Description: ageDescriptions[a]}
}
