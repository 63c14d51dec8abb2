package domain

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/jinzhu/now"
)

// TrackingIDPrefix starts every generated tracking id.
const TrackingIDPrefix = "APX"

const sampleWindow = 30 * 24 * time.Hour

var (
	sampleCustomers = []string{
		"John Smith", "Jane Doe", "Robert Johnson", "Emily Williams",
		"Michael Brown", "Sarah Davis", "David Miller", "Lisa Wilson",
		"James Moore", "Jennifer Taylor", "Christopher Anderson", "Elizabeth Thomas",
	}

	// SampleCities are the locations offered by the admin create-order form.
	SampleCities = []string{
		"New York, NY", "Los Angeles, CA", "Chicago, IL", "Houston, TX",
		"Phoenix, AZ", "Philadelphia, PA", "San Antonio, TX", "London, UK",
		"Paris, France", "Tokyo, Japan", "Berlin, Germany", "Sydney, Australia",
	}
)

const sampleHoldReason = "Package requires additional documentation"

// GenerateTrackingID returns "APX" followed by 9 random digits.
// Uniqueness is not guaranteed.
func GenerateTrackingID(r *rand.Rand) string {
	return fmt.Sprintf("%s%09d", TrackingIDPrefix, r.IntN(1_000_000_000))
}

// TrackingHash folds id into a signed 32-bit hash (h = c + h*31).
// The same id always yields the same hash.
func TrackingHash(id string) int32 {
	var h int32
	for _, c := range id {
		h = int32(c) + (h << 5) - h
	}
	return h
}

// SampleOrders builds n demo orders. Tracking ids and creation times come from
// r; every other attribute is derived from the tracking id's hash, so a given
// random source always produces the same set. The result is newest first.
func SampleOrders(n int, r *rand.Rand, ref time.Time) []Order {
	orders := make([]Order, 0, n)

	for i := 0; i < n; i++ {
		trackingID := GenerateTrackingID(r)
		h := absHash(TrackingHash(trackingID))

		status := Statuses[h%uint32(len(Statuses))]
		origin := int(h % uint32(len(SampleCities)))
		destination := (origin + int((h/10)%uint32(len(SampleCities)))) % len(SampleCities)
		if destination == origin {
			destination = (destination + 1) % len(SampleCities)
		}

		createdAt := ref.Add(-time.Duration(r.Int64N(int64(sampleWindow))))

		order := Order{
			ID:               fmt.Sprintf("order-%d", i+1),
			TrackingID:       trackingID,
			CustomerName:     sampleCustomers[(h/7)%uint32(len(sampleCustomers))],
			CreatedAt:        now.With(createdAt.UTC()).BeginningOfMinute(),
			Status:           status,
			Origin:           SampleCities[origin],
			Destination:      SampleCities[destination],
			RecipientName:    "John Doe",
			RecipientAddress: "123 Main St, City, Country",
		}
		if status == StatusOnHold {
			order.OnHold = true
			order.OnHoldReason = sampleHoldReason
		}

		orders = append(orders, order)
	}

	slices.SortStableFunc(orders, func(a, b Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return orders
}

func absHash(h int32) uint32 {
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}
