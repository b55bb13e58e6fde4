package scripting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/autobattler/internal/game/card"
	"github.com/cory-johannsen/autobattler/internal/game/dice"
	"github.com/cory-johannsen/autobattler/internal/game/hand"
)

// OpponentHandHook is the Lua global called to override the opponent board.
const OpponentHandHook = "opponent_hand"

// Manager owns one sandboxed LState holding the content scripts and exposes
// hook dispatch.
//
// Manager is safe for concurrent use; calls into the VM are serialised.
type Manager struct {
	mu        sync.Mutex
	L         *lua.LState
	cancel    context.CancelFunc
	instLimit int
	cat       *card.Catalogue
	src       dice.Source
	logger    *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: cat, src and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no script loaded.
func NewManager(cat *card.Catalogue, src dice.Source, logger *zap.Logger) *Manager {
	return &Manager{cat: cat, src: src, logger: logger}
}

// Load creates a fresh VM, registers the engine.* modules and executes path.
// A directory path runs every *.lua file in it in lexicographic order.
//
// Precondition: path must be a readable file or directory.
// Postcondition: The new VM replaces any previous one; on error the previous
// VM is kept.
func (m *Manager) Load(path string, instLimit int) error {
	files, err := luaFiles(path)
	if err != nil {
		return err
	}
	return m.install(path, instLimit, func(L *lua.LState) error {
		for _, f := range files {
			if err := L.DoFile(f); err != nil {
				return fmt.Errorf("scripting: loading %q: %w", f, err)
			}
		}
		return nil
	})
}

// LoadString is Load for an in-memory script named name.
func (m *Manager) LoadString(name, code string, instLimit int) error {
	return m.install(name, instLimit, func(L *lua.LState) error {
		if err := L.DoString(code); err != nil {
			return fmt.Errorf("scripting: loading %q: %w", name, err)
		}
		return nil
	})
}

func (m *Manager) install(name string, instLimit int, run func(*lua.LState) error) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	// Top-level script code may draw from engine.dice; hold m.mu as CallHook does.
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := run(L); err != nil {
		cancel()
		L.Close()
		return err
	}
	if m.L != nil {
		m.cancel()
		m.L.Close()
	}
	m.L, m.cancel, m.instLimit = L, cancel, instLimit
	m.logger.Info("scripting: script loaded", zap.String("script", name))
	return nil
}

func luaFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scripting: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Close releases the VM. The Manager may be reloaded afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L != nil {
		m.cancel()
		m.L.Close()
		m.L, m.cancel = nil, nil
	}
}

// CallHook calls the named Lua global function with a fresh instruction
// budget. Returns (LNil, nil) if no script is loaded or the hook is not
// defined. Lua runtime errors are logged at Warn level and returned.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.L == nil {
		m.logger.Debug("scripting: no VM loaded", zap.String("hook", hook))
		return lua.LNil, nil
	}
	fn := m.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	m.cancel()
	m.cancel = rearm(m.L, m.instLimit)

	if err := m.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error", zap.String("hook", hook), zap.Error(err))
		return lua.LNil, fmt.Errorf("scripting: hook %q: %w", hook, err)
	}
	ret := m.L.Get(-1)
	m.L.Pop(1)
	return ret, nil
}

// OpponentHand asks the loaded script for the opponent board on turn. The
// hook must return a list of {base=, atk=, hp=} tables.
//
// Postcondition: ok is false when no script defines the hook; otherwise the
// returned slots are validated against the catalogue.
func (m *Manager) OpponentHand(turn int) (slots []hand.Slot, ok bool, err error) {
	ret, err := m.CallHook(OpponentHandHook, lua.LNumber(turn))
	if err != nil {
		return nil, false, err
	}
	if ret == lua.LNil {
		return nil, false, nil
	}
	tbl, isTable := ret.(*lua.LTable)
	if !isTable {
		return nil, false, fmt.Errorf("scripting: %s must return a table, got %s", OpponentHandHook, ret.Type())
	}

	n := tbl.Len()
	if n == 0 {
		return nil, false, fmt.Errorf("scripting: %s returned an empty board for turn %d", OpponentHandHook, turn)
	}
	for i := 1; i <= n; i++ {
		slot, err := m.toSlot(tbl.RawGetInt(i))
		if err != nil {
			return nil, false, fmt.Errorf("scripting: %s slot %d: %w", OpponentHandHook, i, err)
		}
		slots = append(slots, slot)
	}
	return slots, true, nil
}

func (m *Manager) toSlot(v lua.LValue) (hand.Slot, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return hand.Slot{}, fmt.Errorf("expected table, got %s", v.Type())
	}
	key, ok := t.RawGetString("base").(lua.LString)
	if !ok {
		return hand.Slot{}, errors.New("base must be a string")
	}
	base, err := card.ParseBaseCard(string(key))
	if err != nil {
		return hand.Slot{}, err
	}
	def, ok := m.cat.Lookup(base)
	if !ok {
		return hand.Slot{}, fmt.Errorf("unknown base card %q", key)
	}
	slot := hand.Slot{Base: base, Atk: def.Atk, HP: def.HP}
	if atk, ok := t.RawGetString("atk").(lua.LNumber); ok {
		slot.Atk = int(atk)
	}
	if hp, ok := t.RawGetString("hp").(lua.LNumber); ok {
		slot.HP = int(hp)
	}
	if err := (card.Card{Base: base, Atk: slot.Atk, HP: slot.HP}).Validate(m.cat); err != nil {
		return hand.Slot{}, err
	}
	return slot, nil
}
