package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/autobattler/internal/game/card"
)

// RegisterModules registers all engine.* Lua tables into L:
//
//	engine.log.debug|info|warn|error(msg)
//	engine.dice.intn(n)  -> integer in [0, n)
//	engine.cards.keys()  -> list of base card keys in catalogue order
//	engine.cards.get(key) -> {name, family, ability, trigger, rank, atk, hp} or nil
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	engine.RawSetString("log", m.logModule(L))
	engine.RawSetString("dice", m.diceModule(L))
	engine.RawSetString("cards", m.cardsModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, fn := range levels {
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			fn("lua: "+L.CheckString(1), zap.String("source", "script"))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "intn", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n <= 0 {
			L.ArgError(1, "n must be > 0")
			return 0
		}
		L.Push(lua.LNumber(m.src.Intn(n)))
		return 1
	}))
	return mod
}

func (m *Manager) cardsModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "keys", L.NewFunction(func(L *lua.LState) int {
		keys := L.NewTable()
		for _, b := range card.AllBaseCards() {
			keys.Append(lua.LString(b.String()))
		}
		L.Push(keys)
		return 1
	}))
	L.SetField(mod, "get", L.NewFunction(func(L *lua.LState) int {
		base, err := card.ParseBaseCard(L.CheckString(1))
		if err != nil {
			L.Push(lua.LNil)
			return 1
		}
		def, ok := m.cat.Lookup(base)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		t := L.NewTable()
		t.RawSetString("name", lua.LString(def.Name))
		t.RawSetString("family", lua.LString(def.Family.String()))
		t.RawSetString("ability", lua.LString(def.Ability.String()))
		t.RawSetString("trigger", lua.LString(def.Trigger.String()))
		t.RawSetString("rank", lua.LNumber(def.Rank))
		t.RawSetString("atk", lua.LNumber(def.Atk))
		t.RawSetString("hp", lua.LNumber(def.HP))
		L.Push(t)
		return 1
	}))
	return mod
}
