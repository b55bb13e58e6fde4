// Package main runs one auto-battler fight between two predefined hands and
// prints the battle log.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/autobattler/internal/config"
	"github.com/cory-johannsen/autobattler/internal/game/card"
	"github.com/cory-johannsen/autobattler/internal/game/dice"
	"github.com/cory-johannsen/autobattler/internal/game/fight"
	"github.com/cory-johannsen/autobattler/internal/game/hand"
	"github.com/cory-johannsen/autobattler/internal/game/player"
	"github.com/cory-johannsen/autobattler/internal/observability"
	"github.com/cory-johannsen/autobattler/internal/scripting"
	"github.com/cory-johannsen/autobattler/internal/storage/postgres"
)

type options struct {
	configPath string
	seed       uint64
	turn       int
	me         string
	foe        string
	persist    bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "path to configuration file (empty: defaults and AUTOBATTLER_* env)")
	flag.Uint64Var(&o.seed, "seed", 0, "random seed; 0 uses battle.seed from the config")
	flag.IntVar(&o.turn, "turn", 1, "shop turn whose boards are fielded")
	flag.StringVar(&o.me, "me", "", "hand fielded by the player; empty picks one at random")
	flag.StringVar(&o.foe, "foe", "", "hand fielded by the opponent; empty picks one at random")
	flag.BoolVar(&o.persist, "persist", false, "save both profiles and the battle report to PostgreSQL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		log.Fatalf("simulate: %v", err)
	}
}

func run(ctx context.Context, o options, out io.Writer) error {
	start := time.Now()
	if o.turn < 1 {
		return fmt.Errorf("turn must be >= 1, got %d", o.turn)
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, zap.String("cmd", "simulate"))
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	src := newSource(cfg.Battle, o.seed, logger)
	cat := card.DefaultCatalogue()
	hands := hand.Default()

	meHand, err := pickHand(hands, o.me, src)
	if err != nil {
		return err
	}
	foeHand, err := pickHand(hands, o.foe, src)
	if err != nil {
		return err
	}
	if cfg.Content.HandsScript != "" {
		scripted, err := scriptedHand(cfg.Content, o.turn, cat, src, logger)
		if err != nil {
			return err
		}
		if scripted != nil {
			foeHand = scripted
		}
	}

	me, err := newProfile("me", meHand, o.turn, cfg.Battle.StartingHP, 0)
	if err != nil {
		return err
	}
	// foe ids continue after me's so every card id is unique within the fight
	foe, err := newProfile("foe", foeHand, o.turn, cfg.Battle.StartingHP, me.NextCardID)
	if err != nil {
		return err
	}

	opts := []fight.Option{fight.WithMaxAttacks(cfg.Battle.MaxAttacks)}
	if o.persist {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		profiles := pool.Profiles()
		for _, p := range []*player.Profile{me, foe} {
			p.Name = fmt.Sprintf("%s-%s", p.Name, uuid.NewString()[:8])
			if err := profiles.Save(ctx, p); err != nil {
				return fmt.Errorf("saving profile %q: %w", p.Name, err)
			}
		}
		opts = append(opts,
			fight.WithProfileStore(profiles),
			fight.WithReportStore(pool.Reports()),
		)
	} else {
		me.ID, foe.ID = 1, 2
	}

	logger.Info("simulating fight",
		zap.String("me", meHand.Name),
		zap.String("foe", foeHand.Name),
		zap.Int("turn", o.turn),
	)

	report, err := fight.NewService(cat, src, logger, opts...).Run(ctx, me, foe)
	if err != nil {
		return fmt.Errorf("running fight: %w", err)
	}

	printReport(out, report, meHand, foeHand, o.turn)
	if o.persist {
		fmt.Fprintf(out, "saved report %s\n", report.ID)
	}
	logger.Info("simulation complete", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// newSource selects the battle random source; a non-zero flag seed wins over
// the configured one.
func newSource(cfg config.BattleConfig, flagSeed uint64, logger *zap.Logger) dice.Source {
	seed := cfg.Seed
	if flagSeed != 0 {
		seed = flagSeed
	}
	var src dice.Source
	if seed != 0 {
		src = dice.NewSeededSource(seed)
	} else {
		src = dice.NewCryptoSource()
	}
	if cfg.LogDraws {
		return dice.NewLoggedSource(src, logger)
	}
	return src
}

func pickHand(hands *hand.Set, name string, src dice.Source) (*hand.Hand, error) {
	if name == "" {
		return hands.Random(src), nil
	}
	h, ok := hands.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown hand %q (known: %v)", name, hands.Names())
	}
	return h, nil
}

// scriptedHand asks the configured Lua script for the opponent board. It
// returns nil when the script does not define the hook.
func scriptedHand(cfg config.ContentConfig, turn int, cat *card.Catalogue, src dice.Source, logger *zap.Logger) (*hand.Hand, error) {
	mgr := scripting.NewManager(cat, src, logger)
	defer mgr.Close()

	if err := mgr.Load(cfg.HandsScript, cfg.ScriptInstructionLimit); err != nil {
		return nil, fmt.Errorf("loading hands script: %w", err)
	}
	slots, ok, err := mgr.OpponentHand(turn)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Warn("hands script defines no opponent hand", zap.String("script", cfg.HandsScript))
		return nil, nil
	}
	return hand.Fixed("script", slots), nil
}

// newProfile builds a profile fielding h on turn, numbering its cards from firstID.
func newProfile(name string, h *hand.Hand, turn, hp int, firstID uint32) (*player.Profile, error) {
	p, err := player.New(name, hp)
	if err != nil {
		return nil, err
	}
	p.Turn = turn
	p.NextCardID = firstID
	p.Board = h.Cards(turn, p)
	return p, nil
}

func printReport(out io.Writer, r *fight.Report, meHand, foeHand *hand.Hand, turn int) {
	fmt.Fprintf(out, "turn %d: %s (player %d) vs %s (player %d), player %d attacks first\n",
		turn, meHand.Name, r.LeftID, foeHand.Name, r.RightID, r.FirstID)
	for i, e := range r.Events {
		fmt.Fprintf(out, "%4d %s\n", i, e)
	}
	if r.Draw {
		fmt.Fprintf(out, "draw after %d attacks\n", r.Attacks)
	} else {
		fmt.Fprintf(out, "player %d wins after %d attacks\n", r.WinnerID, r.Attacks)
	}
	for _, s := range []fight.Side{r.Left, r.Right} {
		fmt.Fprintf(out, "player %d: hp %d -> %d, gold +%d, %d survivors, %d deaths\n",
			s.PlayerID, s.HPBefore, s.HPAfter, s.Gold, len(s.Survivors), len(s.Deaths))
	}
}
