package services

import (
	"math"

	"vendorhub/contexts/vendor-marketplace/deal-service/domain/entities"
)

const maxStars = 5

// StarsFor converts an average rating into the card's star slots.
func StarsFor(average float64) entities.Stars {
	if math.IsNaN(average) || average < 0 {
		average = 0
	}
	if average > maxStars {
		average = maxStars
	}
	full := int(math.Floor(average))
	half := 0
	if average-float64(full) >= 0.5 {
		half = 1
	}
	return entities.Stars{
		Full:  full,
		Half:  half,
		Empty: maxStars - full - half,
	}
}
