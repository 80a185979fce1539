package places

import (
	"context"
	"errors"
)

// Fallback is the curated set shown when live reviews are unavailable.
func Fallback() []Review {
	return []Review{
		{
			ID:     "review-1",
			Stars:  5,
			Text:   `"From the moment I arrived, I was blown away. The trek up is worth every step for the view alone—it's absolutely mind-blowing. The hostel itself has an incredible vibe. The staff is super friendly and the other guests are all amazing people."`,
			Author: "- Rahul S., Verified Guest",
		},
		{
			ID:     "review-2",
			Stars:  5,
			Text:   `"As a solo female traveler, safety and a friendly environment are my top priorities. Parvati's Lap exceeded all my expectations. The dorms were clean and cozy, the food was delicious, and the hosts made me feel like family."`,
			Author: "- Anya V., Solo Traveler",
		},
		{
			ID:     "review-3",
			Stars:  5,
			Text:   `"We booked for a few nights and ended up staying for over a week! The location is a secluded paradise, and the bonfire nights are something we'll never forget. It's not just a place to sleep; it's a community where you make lasting friendships."`,
			Author: "- The Backpacker Duo, Verified Group",
		},
		{
			ID:     "review-4",
			Stars:  5,
			Text:   `"The food here is absolutely mind-blowing! Every meal felt like a warm hug after a long day of trekking. The cafe has the most incredible views and the staff goes above and beyond to make you feel at home."`,
			Author: "- Maria K., Food Enthusiast",
		},
		{
			ID:     "review-5",
			Stars:  5,
			Text:   `"Perfect honeymoon destination! The villa is absolutely stunning with breathtaking views. Complete privacy and luxury in the heart of the Himalayas. We couldn't have asked for a better romantic getaway."`,
			Author: "- David & Sarah, Honeymooners",
		},
	}
}

// LoadWithFallback asks src for reviews. On any failure, or an empty reply,
// it returns the fallback set together with the cause so callers can say
// they are showing cached reviews.
func LoadWithFallback(ctx context.Context, src Source) ([]Review, error) {
	if src == nil {
		return Fallback(), ErrMissingConfig
	}
	reviews, err := src.FetchReviews(ctx)
	if err == nil && len(reviews) == 0 {
		err = ErrNoReviews
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return Fallback(), err
	}
	return reviews, nil
}
