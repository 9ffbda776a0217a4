package model

import "time"

const monthLayout = "2006-01"

// Window is the optional inclusive month range applied to every time-bearing
// table. Timestamp columns are filtered against the half-open [From, Until)
// pair, which covers the full end month on any calendar. The fuel summary
// stores year and month separately, so it is filtered against the inclusive
// [FromYM, UntilYM] pair instead.
type Window struct {
	From    time.Time
	Until   time.Time
	FromYM  int
	UntilYM int
	bounded bool
}

// ResolveWindow builds a Window from raw start_month/end_month query values.
// Filtering is all-or-nothing: if either value is missing or malformed the
// window is unbounded and no predicate is applied anywhere.
func ResolveWindow(startMonth, endMonth string) Window {
	if startMonth == "" || endMonth == "" {
		return Window{}
	}
	start, err := time.Parse(monthLayout, startMonth)
	if err != nil {
		return Window{}
	}
	end, err := time.Parse(monthLayout, endMonth)
	if err != nil {
		return Window{}
	}
	return Window{
		From:    start,
		Until:   end.AddDate(0, 1, 0),
		FromYM:  start.Year()*100 + int(start.Month()),
		UntilYM: end.Year()*100 + int(end.Month()),
		bounded: true,
	}
}

func (w Window) Bounded() bool { return w.bounded }

// Contains reports whether t falls inside the window. Unbounded windows
// contain everything.
func (w Window) Contains(t time.Time) bool {
	if !w.bounded {
		return true
	}
	return !t.Before(w.From) && t.Before(w.Until)
}
