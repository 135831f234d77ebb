package dataset

// Entity names an id sequence.
type Entity string

// Id sequences. Each entity type has its own counter starting at 1.
const (
	SeqStatus      Entity = "status"
	SeqRole        Entity = "role"
	SeqUser        Entity = "user"
	SeqEmail       Entity = "email"
	SeqWallet      Entity = "wallet"
	SeqNFT         Entity = "nft"
	SeqReview      Entity = "review"
	SeqAuction     Entity = "auction"
	SeqBid         Entity = "bid"
	SeqReservation Entity = "reservation"
	SeqLedger      Entity = "ledger"
	SeqOutbox      Entity = "outbox"
)

// IDs allocates monotonic identifiers per entity type within one generation
// context. It is not safe for concurrent use; parallel producers collect their
// records first and take ids while merging in a fixed order.
type IDs struct {
	next map[Entity]int64
}

// NewIDs returns an allocator with every sequence at 1.
func NewIDs() *IDs {
	return &IDs{next: make(map[Entity]int64)}
}

// Next returns the next id of the sequence.
func (a *IDs) Next(e Entity) int64 {
	a.next[e]++
	return a.next[e]
}

// Peek returns the id Next would return without consuming it.
func (a *IDs) Peek(e Entity) int64 {
	return a.next[e] + 1
}
