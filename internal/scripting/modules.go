package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.* Lua table into L for sceneID.
//
//	engine.log(msg)  logs msg at info level, tagged with the scene id.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, sceneID string) {
	engine := L.NewTable()
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Info("scripting: log",
			zap.String("scene", sceneID),
			zap.String("msg", L.CheckString(1)),
		)
		return 0
	}))
	L.SetGlobal("engine", engine)
}
