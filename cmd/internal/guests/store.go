package guests

import "context"

// Store is the persistence boundary for the roster (parties + party_members).
type Store interface {
	// ListParties returns every party with its members, ordered by last name.
	ListParties(ctx context.Context) ([]Party, error)
	// CreateParty inserts a party and its members atomically.
	CreateParty(ctx context.Context, in CreatePartyInput) (Party, error)
}
