package contract

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Collection names a business record table that references users.
type Collection string

const (
	CollectionBookings        Collection = "bookings"
	CollectionServiceRequests Collection = "service_requests"
	CollectionReviews         Collection = "reviews"
	CollectionPayments        Collection = "payments"
	CollectionSubscriptions   Collection = "subscriptions"
	CollectionProperties      Collection = "properties"
	CollectionNotifications   Collection = "notifications"
)

// NonFinancialCollections are removed outright on FULL anonymization.
func NonFinancialCollections() []Collection {
	return []Collection{
		CollectionBookings,
		CollectionServiceRequests,
		CollectionReviews,
		CollectionProperties,
		CollectionNotifications,
	}
}

// FinancialCollections fall under legal retention and are only ever re-tagged.
func FinancialCollections() []Collection {
	return []Collection{
		CollectionPayments,
		CollectionSubscriptions,
	}
}

func AllCollections() []Collection {
	return append(NonFinancialCollections(), FinancialCollections()...)
}

// BusinessRecordRepository is a generic filtered write interface over the
// named record collections. The anonymization engine fans out over it.
type BusinessRecordRepository interface {
	// TagByUser stamps every row of the collection belonging to userID with
	// the anonymous id and timestamp. Returns the number of rows tagged.
	TagByUser(ctx context.Context, collection Collection, userID uuid.UUID, anonymousID string, at time.Time) (int64, error)

	// DeleteByUser hard-deletes every row of the collection belonging to
	// userID. Returns the number of rows removed.
	DeleteByUser(ctx context.Context, collection Collection, userID uuid.UUID) (int64, error)

	CountByUser(ctx context.Context, collection Collection, userID uuid.UUID) (int64, error)
}
