package combat

// DefaultMaxAttacks bounds a battle whose boards never empty.
const DefaultMaxAttacks = 1000

// Outcome is the termination state of a battle.
type Outcome struct {
	// WinnerID and LoserID are zero when Draw is set.
	WinnerID int64
	LoserID  int64
	// Draw is set when both boards emptied together or the attack cap was reached.
	Draw bool
}

// Result is everything Simulate produces.
type Result struct {
	// Events is the ordered battle log.
	Events []Event
	Outcome
	// Attacks is the number of attack resolutions performed, replays included.
	Attacks int
	// First is the player who acted first.
	First int64
	// Left and Right are the post-battle rosters matching Simulate's a and b.
	Left  Roster
	Right Roster
}

type config struct {
	maxAttacks int
}

// Option tunes a Simulate call.
type Option func(*config)

// WithMaxAttacks caps the number of attack resolutions; n <= 0 selects DefaultMaxAttacks.
func WithMaxAttacks(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttacks = n
		}
	}
}

// Simulate runs a whole battle between a and b.
//
// The inputs are deep-copied; the caller's rosters are never mutated. The
// first draw from src is the coin flip deciding who acts first.
//
// Precondition: src must be non-nil.
// Postcondition: Result.Events is non-empty whenever both rosters started
// with cards. A decided battle ends with exactly one PlayerDamageEvent.
func Simulate(a, b Roster, src Source, opts ...Option) Result {
	cfg := config{maxAttacks: DefaultMaxAttacks}
	for _, opt := range opts {
		opt(&cfg)
	}

	sides := [2]*Roster{}
	left, right := a.clone(), b.clone()
	sides[0], sides[1] = &left, &right

	active := src.Intn(2)
	res := Result{First: sides[active].PlayerID}

	for len(left.Cards) > 0 && len(right.Cards) > 0 && res.Attacks < cfg.maxAttacks {
		own, opp := sides[active], sides[1-active]

		attacker := own.Cards[own.nextAttacker()]
		attacker.Played++
		events, replay := ResolveAttack(own.indexOf(attacker), own, opp, src)
		res.Events = append(res.Events, events...)
		res.Attacks++

		if replay && res.Attacks < cfg.maxAttacks {
			if idx := own.indexOf(attacker); idx >= 0 && len(opp.Cards) > 0 {
				events, _ = ResolveAttack(idx, own, opp, src)
				res.Events = append(res.Events, events...)
				res.Attacks++
			}
		}

		active = 1 - active
	}

	switch {
	case len(left.Cards) > 0 && len(right.Cards) > 0, len(left.Cards) == 0 && len(right.Cards) == 0:
		res.Draw = true
	case len(right.Cards) == 0:
		res.Events = append(res.Events, finish(&left, &right, &res.Outcome))
	default:
		res.Events = append(res.Events, finish(&right, &left, &res.Outcome))
	}
	res.Left, res.Right = left, right
	return res
}

// finish applies the winner's board rank to the loser's hp, capped so hp
// never goes below 0.
func finish(winner, loser *Roster, out *Outcome) PlayerDamageEvent {
	damage := min(max(loser.HP, 0), winner.RankSum())
	loser.HP -= damage
	out.WinnerID = winner.PlayerID
	out.LoserID = loser.PlayerID
	return PlayerDamageEvent{PlayerID: winner.PlayerID, LoserID: loser.PlayerID, Change: -damage}
}
