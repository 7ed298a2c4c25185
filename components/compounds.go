package components

// Compound identifies a stored compound kind.
type Compound uint8

const (
	CompoundATP Compound = iota
	CompoundMucilage

	compoundCount
)

// CompoundBag stores named compounds for one body. Each colony member owns
// its own bag; within a tick only the owning entity's computation touches it.
type CompoundBag struct {
	Amounts  [compoundCount]float32
	Capacity float32
}

// NewCompoundBag returns a bag with the given capacity and starting amounts.
func NewCompoundBag(capacity, atp, mucilage float32) CompoundBag {
	bag := CompoundBag{Capacity: capacity}
	bag.Amounts[CompoundATP] = atp
	bag.Amounts[CompoundMucilage] = mucilage
	return bag
}

// Amount returns the stored amount of a compound.
func (b *CompoundBag) Amount(c Compound) float32 {
	return b.Amounts[c]
}

// Take withdraws up to the requested amount and returns what was actually
// granted: never negative, never more than requested or available.
func (b *CompoundBag) Take(c Compound, amount float32) float32 {
	if amount <= 0 {
		return 0
	}
	got := amount
	if b.Amounts[c] < got {
		got = b.Amounts[c]
	}
	b.Amounts[c] -= got
	return got
}

// Add stores a compound up to capacity and returns the amount accepted.
func (b *CompoundBag) Add(c Compound, amount float32) float32 {
	if amount <= 0 {
		return 0
	}
	space := b.Capacity - b.Amounts[c]
	if space <= 0 {
		return 0
	}
	if amount > space {
		amount = space
	}
	b.Amounts[c] += amount
	return amount
}
