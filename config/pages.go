package config

// Page identifies the view the router is showing
type Page int

const (
	PageCreate Page = iota
	PageMultiSend
	PageContacts
	PageHistory
	PagePayment
	PageSettings
)

// NavPages are the pages reachable from the top navigation, in tab order.
var NavPages = []Page{PageCreate, PageMultiSend, PageContacts, PageHistory, PageSettings}

func (p Page) String() string {
	switch p {
	case PageCreate:
		return "send"
	case PageMultiSend:
		return "multi-send"
	case PageContacts:
		return "book"
	case PageHistory:
		return "activity"
	case PagePayment:
		return "payment"
	case PageSettings:
		return "profile"
	}
	return "unknown"
}

// ClickableArea is a screen region that selects a list entry on click.
type ClickableArea struct {
	X, Y          int
	Width, Height int
	Index         int
}

// Contains reports whether the cell (x, y) falls inside the area.
func (a ClickableArea) Contains(x, y int) bool {
	return x >= a.X && x < a.X+a.Width && y >= a.Y && y < a.Y+a.Height
}
