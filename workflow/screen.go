// Package workflow is the screen state machine of a scan session: intake,
// capture, the simulated analysis run and the results and log screens.
package workflow

import (
	"fmt"
	"slices"
)

type Screen int

const (
	Splash Screen = iota
	Home
	PreScan
	Scan
	Results
	Log
	HydratingIngredients
	NaturalTreatments
	HowItWorks
)

var screenNames = [...]string{
	Splash:               "splash",
	Home:                 "home",
	PreScan:              "pre-scan",
	Scan:                 "scan",
	Results:              "results",
	Log:                  "log",
	HydratingIngredients: "hydrating",
	NaturalTreatments:    "natural",
	HowItWorks:           "how-it-works",
}

// Screens lists every screen in declaration order.
func Screens() []Screen {
	out := make([]Screen, len(screenNames))
	for i := range screenNames {
		out[i] = Screen(i)
	}
	return out
}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return fmt.Sprintf("screen(%d)", int(s))
	}
	return screenNames[s]
}

func (s Screen) Valid() bool {
	return s >= 0 && int(s) < len(screenNames)
}

// ParseScreen maps a screen name such as "pre-scan" back to its Screen.
func ParseScreen(name string) (Screen, error) {
	if i := slices.Index(screenNames[:], name); i >= 0 {
		return Screen(i), nil
	}
	return 0, fmt.Errorf("%w: unknown screen %q", ErrIllegalTransition, name)
}

func (s Screen) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid screen %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Screen) UnmarshalText(text []byte) error {
	parsed, err := ParseScreen(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// userEdges are the transitions a user may request from each screen.
var userEdges = map[Screen][]Screen{
	Splash:               nil,
	Home:                 {PreScan, Log, HydratingIngredients, NaturalTreatments, HowItWorks, Results},
	PreScan:              {Home, Scan},
	Scan:                 {Home, PreScan},
	Results:              {Home, Log, PreScan},
	Log:                  {Home},
	HydratingIngredients: {Home},
	NaturalTreatments:    {Home},
	HowItWorks:           {Home, PreScan},
}

// autoEdges fire without user input: the splash timer and scan completion.
var autoEdges = map[Screen]Screen{
	Splash: Home,
	Scan:   Results,
}

var backEdges = map[Screen]Screen{
	PreScan:              Home,
	Scan:                 PreScan,
	Results:              Home,
	Log:                  Home,
	HydratingIngredients: Home,
	NaturalTreatments:    Home,
	HowItWorks:           Home,
}

// CanNavigate reports whether a user may move from one screen to another.
// Guards such as profile completeness are checked by the Controller.
func CanNavigate(from, to Screen) bool {
	return slices.Contains(userEdges[from], to)
}

// Destinations returns the screens a user may move to from s.
func Destinations(s Screen) []Screen {
	return slices.Clone(userEdges[s])
}

// BackTarget returns where the back action leads from s.
func BackTarget(s Screen) (Screen, bool) {
	to, ok := backEdges[s]
	return to, ok
}

func automatic(from, to Screen) bool {
	next, ok := autoEdges[from]
	return ok && next == to
}
