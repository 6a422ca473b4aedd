package registry

import (
	"github.com/warp-contracts/arns/src/utils/model"

	"golang.org/x/exp/slices"
)

// Permanent purchases of short, unreserved names go through an auction
func IsDomainAuctionable(domain string, registrationType model.RegistrationType, reservedList []string, auctionableNameLength int) bool {
	if slices.Contains(reservedList, domain) {
		return false
	}
	return registrationType == model.RegistrationTypePermabuy && len(domain) < auctionableNameLength
}
