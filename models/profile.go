package models

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/text/cases"
)

// Intake options offered on the pre-scan screen.
var (
	SkinColors = []string{"Fair", "Light", "Medium", "Tan", "Brown", "Deep"}
	SkinTypes  = []string{"Oily", "Dry", "Combination", "Normal"}
	Conditions = []string{
		"Vitiligo",
		"Eczema",
		"Psoriasis",
		"Sensitive Skin",
		"Acne Scarring",
		"Hyperpigmentation",
	}
	Environments = []string{
		"Indoor most of the day",
		"Outdoor exposure (sun/dust)",
		"Mixed indoor/outdoor",
	}
)

const (
	SkinTypeOily        = "Oily"
	SkinTypeDry         = "Dry"
	SkinTypeCombination = "Combination"
	SkinTypeNormal      = "Normal"

	ConditionAcneScarring = "Acne Scarring"
)

// UserProfile is what the user tells us about their skin before a scan.
type UserProfile struct {
	SkinColor   string   `json:"skin_color"`
	SkinType    string   `json:"skin_type"`
	Conditions  []string `json:"conditions"`
	Environment string   `json:"environment"`
}

// CanProceed reports whether the three required intake fields are filled in.
// Conditions may be empty.
func (p UserProfile) CanProceed() bool {
	return p.SkinColor != "" && p.SkinType != "" && p.Environment != ""
}

func (p UserProfile) HasCondition(condition string) bool {
	return slices.Contains(p.Conditions, condition)
}

// ToggleCondition adds the condition if absent and removes it otherwise.
func (p *UserProfile) ToggleCondition(condition string) {
	if i := slices.Index(p.Conditions, condition); i >= 0 {
		p.Conditions = slices.Delete(p.Conditions, i, i+1)
		return
	}
	p.Conditions = append(p.Conditions, condition)
}

// Clone returns a copy that shares no memory with p.
func (p UserProfile) Clone() UserProfile {
	p.Conditions = slices.Clone(p.Conditions)
	if p.Conditions == nil {
		p.Conditions = []string{}
	}
	return p
}

// ErrUnknownOption is returned for a label outside the intake option lists.
var ErrUnknownOption = errors.New("unknown option")

// Canonical maps label onto the matching entry of options ignoring case,
// so "oily" and "OILY" both become "Oily". An empty label stays empty.
func Canonical(label string, options []string) (string, error) {
	if label == "" {
		return "", nil
	}
	fold := cases.Fold()
	want := fold.String(label)
	for _, opt := range options {
		if fold.String(opt) == want {
			return opt, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownOption, label)
}

// NormalizeProfile canonicalises every label in p against the intake options.
func NormalizeProfile(p UserProfile) (UserProfile, error) {
	var (
		out UserProfile
		err error
	)
	if out.SkinColor, err = Canonical(p.SkinColor, SkinColors); err != nil {
		return UserProfile{}, fmt.Errorf("skin color: %w", err)
	}
	if out.SkinType, err = Canonical(p.SkinType, SkinTypes); err != nil {
		return UserProfile{}, fmt.Errorf("skin type: %w", err)
	}
	if out.Environment, err = Canonical(p.Environment, Environments); err != nil {
		return UserProfile{}, fmt.Errorf("environment: %w", err)
	}
	out.Conditions = []string{}
	for _, c := range p.Conditions {
		canon, err := Canonical(c, Conditions)
		if err != nil {
			return UserProfile{}, fmt.Errorf("condition: %w", err)
		}
		if canon != "" && !slices.Contains(out.Conditions, canon) {
			out.Conditions = append(out.Conditions, canon)
		}
	}
	return out, nil
}
