package card

import "fmt"

// Family groups cards that synergise with each other.
type Family int

const (
	FamilyMushrooms Family = iota
	FamilyMerchants
	FamilySpiders
	FamilyRobots
)

var familyNames = map[Family]string{
	FamilyMushrooms: "mushrooms",
	FamilyMerchants: "merchants",
	FamilySpiders:   "spiders",
	FamilyRobots:    "robots",
}

// String returns the catalogue name of the family.
func (f Family) String() string {
	if n, ok := familyNames[f]; ok {
		return n
	}
	return "unknown"
}

// Trigger is the condition that causes a card's ability to fire.
type Trigger int

const (
	// TriggerNone means the card has no ability at combat time.
	TriggerNone Trigger = iota
	// TriggerTurn fires at the beginning of each shop turn.
	TriggerTurn
	// TriggerPlayed fires when the card is placed on the board.
	TriggerPlayed
	// TriggerDeath fires when the card dies.
	TriggerDeath
	// TriggerSurvived fires when the card attacks and survives the counter-attack.
	TriggerSurvived
	// TriggerHit fires whenever the card attacks or is attacked.
	TriggerHit
	// TriggerKill fires when the card kills its opponent.
	TriggerKill
	// TriggerSold fires when the card is sold in the shop.
	TriggerSold
)

var triggerNames = map[Trigger]string{
	TriggerNone:     "none",
	TriggerTurn:     "turn",
	TriggerPlayed:   "played",
	TriggerDeath:    "death",
	TriggerSurvived: "survived",
	TriggerHit:      "hit",
	TriggerKill:     "kill",
	TriggerSold:     "sold",
}

// String returns the catalogue name of the trigger.
func (t Trigger) String() string {
	if n, ok := triggerNames[t]; ok {
		return n
	}
	return "unknown"
}

// Ability is the closed set of card abilities.
type Ability int

const (
	AbilityNone Ability = iota
	// Mushrooms
	AbilitySlimy
	AbilitySweetScent
	AbilityToxicSpores
	AbilitySporocarp
	AbilityRoots
	AbilityGigantism
	// Merchants
	AbilitySadism
	AbilityExplodingArmour
	AbilityPillage
	AbilityGoldMine
	AbilityAltruism
	AbilityDexterity
	// Spiders
	AbilityCooperation
	AbilityTrap
	AbilityMultiplication
	AbilityPoisonous
	AbilitySpawn
	AbilityCannibalism
	// Robots
	AbilityReplication
	AbilityScanner
	AbilityUpgrade
	AbilityGlitch
	AbilityUpload
	AbilityDownload
)

var abilityNames = map[Ability]string{
	AbilityNone:            "none",
	AbilitySlimy:           "slimy",
	AbilitySweetScent:      "sweet_scent",
	AbilityToxicSpores:     "toxic_spores",
	AbilitySporocarp:       "sporocarp",
	AbilityRoots:           "roots",
	AbilityGigantism:       "gigantism",
	AbilitySadism:          "sadism",
	AbilityExplodingArmour: "exploding_armour",
	AbilityPillage:         "pillage",
	AbilityGoldMine:        "gold_mine",
	AbilityAltruism:        "altruism",
	AbilityDexterity:       "dexterity",
	AbilityCooperation:     "cooperation",
	AbilityTrap:            "trap",
	AbilityMultiplication:  "multiplication",
	AbilityPoisonous:       "poisonous",
	AbilitySpawn:           "spawn",
	AbilityCannibalism:     "cannibalism",
	AbilityReplication:     "replication",
	AbilityScanner:         "scanner",
	AbilityUpgrade:         "upgrade",
	AbilityGlitch:          "glitch",
	AbilityUpload:          "upload",
	AbilityDownload:        "download",
}

// String returns the catalogue name of the ability.
func (a Ability) String() string {
	if n, ok := abilityNames[a]; ok {
		return n
	}
	return "unknown"
}

// ParseFamily returns the Family named s.
//
// Postcondition: Returns the matching Family or a non-nil error.
func ParseFamily(s string) (Family, error) {
	for f, n := range familyNames {
		if n == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("card: unknown family %q", s)
}

// ParseTrigger returns the Trigger named s.
//
// Postcondition: Returns the matching Trigger or a non-nil error.
func ParseTrigger(s string) (Trigger, error) {
	for t, n := range triggerNames {
		if n == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("card: unknown trigger %q", s)
}

// ParseAbility returns the Ability named s.
//
// Postcondition: Returns the matching Ability or a non-nil error.
func ParseAbility(s string) (Ability, error) {
	for a, n := range abilityNames {
		if n == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("card: unknown ability %q", s)
}

// MarshalText encodes t as its catalogue name.
func (t Trigger) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes a catalogue name into t.
func (t *Trigger) UnmarshalText(text []byte) error {
	v, err := ParseTrigger(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalText encodes a as its catalogue name.
func (a Ability) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText decodes a catalogue name into a.
func (a *Ability) UnmarshalText(text []byte) error {
	v, err := ParseAbility(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
