package docstore

import "strings"

// Collection names a flat set of records.
type Collection string

const (
	Users         Collection = "users"
	Houses        Collection = "houses"
	Bookings      Collection = "bookings"
	Jobs          Collection = "jobs"
	Cleaners      Collection = "cleaners"
	Notifications Collection = "notifications"
	Conversations Collection = "conversations"
	Messages      Collection = "messages"
	Reviews       Collection = "reviews"
	Transactions  Collection = "transactions"
	PromoCodes    Collection = "promoCodes"
	Settings      Collection = "settings"
)

// AllCollections is the closed set of collections, in export order.
var AllCollections = []Collection{
	Users,
	Houses,
	Bookings,
	Jobs,
	Cleaners,
	Notifications,
	Conversations,
	Messages,
	Reviews,
	Transactions,
	PromoCodes,
	Settings,
}

func (c Collection) Valid() bool {
	for _, known := range AllCollections {
		if c == known {
			return true
		}
	}
	return false
}

// IDPrefix is the prefix used for generated ids, e.g. "booking" for bookings.
func (c Collection) IDPrefix() string {
	switch c {
	case PromoCodes:
		return "promo"
	default:
		return strings.TrimSuffix(string(c), "s")
	}
}
