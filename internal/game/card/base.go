package card

import "fmt"

// BaseCard identifies one entry of the card catalogue.
type BaseCard int

const (
	Mush1 BaseCard = iota
	Mush2
	Mush3
	Mush4
	Mush5
	Mush6
	Mush7
	Mush8

	Merch1
	Merch2
	Merch3
	Merch4
	Merch5
	Merch6
	Merch7
	Merch8

	Spid1
	Spid2
	Spid3
	Spid4
	Spid5
	Spid6
	Spid7
	Spid8

	Rob1
	Rob2
	Rob3
	Rob4
	Rob5
	Rob6
	Rob7
	Rob8

	baseCardCount
)

var baseCardKeys = [baseCardCount]string{
	"mush_1", "mush_2", "mush_3", "mush_4", "mush_5", "mush_6", "mush_7", "mush_8",
	"merch_1", "merch_2", "merch_3", "merch_4", "merch_5", "merch_6", "merch_7", "merch_8",
	"spid_1", "spid_2", "spid_3", "spid_4", "spid_5", "spid_6", "spid_7", "spid_8",
	"rob_1", "rob_2", "rob_3", "rob_4", "rob_5", "rob_6", "rob_7", "rob_8",
}

// String returns the catalogue key, e.g. "mush_5".
func (b BaseCard) String() string {
	if !b.Valid() {
		return fmt.Sprintf("base_card(%d)", int(b))
	}
	return baseCardKeys[b]
}

// Valid reports whether b names a catalogue entry.
func (b BaseCard) Valid() bool {
	return b >= 0 && b < baseCardCount
}

// ParseBaseCard returns the BaseCard whose catalogue key is key.
//
// Postcondition: Returns the matching BaseCard or a non-nil error.
func ParseBaseCard(key string) (BaseCard, error) {
	for i, k := range baseCardKeys {
		if k == key {
			return BaseCard(i), nil
		}
	}
	return 0, fmt.Errorf("card: unknown base card %q", key)
}

// AllBaseCards returns every BaseCard in catalogue order.
func AllBaseCards() []BaseCard {
	out := make([]BaseCard, baseCardCount)
	for i := range out {
		out[i] = BaseCard(i)
	}
	return out
}

// MarshalText encodes b as its catalogue key.
func (b BaseCard) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("card: cannot encode invalid base card %d", int(b))
	}
	return []byte(baseCardKeys[b]), nil
}

// UnmarshalText decodes a catalogue key into b.
func (b *BaseCard) UnmarshalText(text []byte) error {
	v, err := ParseBaseCard(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
