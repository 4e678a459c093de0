package workflow

import (
	"skinscan/capture"
	"skinscan/models"
	"skinscan/routinelog"
)

// Session is the state shared between screens: the intake profile, the
// image of the current scan, the last result and the treatment log. It is
// owned by a Controller and only touched under its lock.
type Session struct {
	Screen  Screen
	Profile models.UserProfile
	Image   *capture.CapturedImage
	Result  *models.AnalysisResult
	Log     *routinelog.Book
	// LastError is the error shown on the current screen until dismissed.
	LastError error
}

func newSession(book *routinelog.Book) *Session {
	return &Session{
		Screen:  Splash,
		Profile: models.UserProfile{Conditions: []string{}},
		Log:     book,
	}
}

// Transition is a screen change as seen by observers.
type Transition struct {
	From      Screen `json:"from"`
	To        Screen `json:"to"`
	Automatic bool   `json:"automatic"`
}

// ResultsView is what the results screen renders. Result is nil exactly
// when Status is StatusNoData.
type ResultsView struct {
	Status string                 `json:"status"`
	Result *models.AnalysisResult `json:"result,omitempty"`
}

const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

func (v ResultsView) HasData() bool { return v.Result != nil }
