package domain

// Item categories as stored in the catalog. Each category corresponds
// to exactly one equipment slot on a user.
const (
	CategoryHat   = "Hat"
	CategoryShirt = "Shirt"
	CategoryPants = "Pants"
)

// Slot sentinels: the default cosmetic for each slot. They never appear
// in the catalog, cost nothing and are always equippable.
const (
	DefaultHat   = 0
	DefaultShirt = -1
	DefaultPants = -2
)

type Item struct {
	ID       int
	Name     string
	Category string
	Price    int
}

// DefaultSlotCategory maps a slot sentinel to its category. The second
// return is false for ids that are not sentinels.
func DefaultSlotCategory(id int) (string, bool) {
	switch id {
	case DefaultHat:
		return CategoryHat, true
	case DefaultShirt:
		return CategoryShirt, true
	case DefaultPants:
		return CategoryPants, true
	}
	return "", false
}
