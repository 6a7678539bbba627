package domain

import (
	"github.com/go-playground/validator/v10"
)

var profileValidator = validator.New()

// SkinProfile holds one user's self-reported skin traits.
// Each trait is conventionally in [0,100]; the range is not enforced.
type SkinProfile struct {
	Hydration   float64 `json:"hydration" yaml:"hydration"`
	Oiliness    float64 `json:"oiliness" yaml:"oiliness"`
	Sensitivity float64 `json:"sensitivity" yaml:"sensitivity"`
	AcneLevel   float64 `json:"acneLevel" yaml:"acneLevel"`
}

// FuzzyMembership is the degree to which a profile belongs to each skin category.
// Entries are independent and do not sum to 1.
type FuzzyMembership struct {
	Dry       float64 `json:"dry"`
	Normal    float64 `json:"normal"`
	Oily      float64 `json:"oily"`
	Sensitive float64 `json:"sensitive"`
	AcneProne float64 `json:"acneProne"`
}

// ProfileInput is the wire form of a skin profile. Pointer fields let the
// validator tell a missing trait apart from a zero slider position.
type ProfileInput struct {
	Hydration   *float64 `json:"hydration" validate:"required"`
	Oiliness    *float64 `json:"oiliness" validate:"required"`
	Sensitivity *float64 `json:"sensitivity" validate:"required"`
	AcneLevel   *float64 `json:"acneLevel" validate:"required"`
}

// Validate checks that every trait is present. Ranges are deliberately not checked.
func (in *ProfileInput) Validate() error {
	return profileValidator.Struct(in)
}

// ToProfile converts a validated input into a SkinProfile.
func (in *ProfileInput) ToProfile() SkinProfile {
	return SkinProfile{
		Hydration:   *in.Hydration,
		Oiliness:    *in.Oiliness,
		Sensitivity: *in.Sensitivity,
		AcneLevel:   *in.AcneLevel,
	}
}

// StoredProfile is a profile together with the key it is stored under.
type StoredProfile struct {
	ID         string          `json:"id"`
	Profile    SkinProfile     `json:"profile"`
	Membership FuzzyMembership `json:"membership"`
}

// ProfileRef points at a profile either inline or by stored ID.
// An inline profile wins when both are set.
type ProfileRef struct {
	ProfileID string        `json:"profileId,omitempty"`
	Profile   *ProfileInput `json:"profile,omitempty"`
}

// IsEmpty reports whether the reference names no profile at all.
func (r ProfileRef) IsEmpty() bool {
	return r.ProfileID == "" && r.Profile == nil
}
