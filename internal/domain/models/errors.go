package models

import "fmt"

// IncompleteIndicatorsError reports that a required indicator on the
// latest bar is still NaN. Non-retriable: the caller must recompute
// indicators over a longer history.
type IncompleteIndicatorsError struct {
	Indicator string
}

func (e *IncompleteIndicatorsError) Error() string {
	return fmt.Sprintf("indicator %s is undefined on the latest bar", e.Indicator)
}

// EmptyForecastError reports a forecast with zero points. Non-retriable.
type EmptyForecastError struct{}

func (e *EmptyForecastError) Error() string {
	return "forecast contains no points"
}

// InsufficientDataError reports that the requested backtest window is
// longer than the available history. Non-retriable: shorten the window
// or sync more bars.
type InsufficientDataError struct {
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("need %d bars, have %d", e.Need, e.Have)
}
