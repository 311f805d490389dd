package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/catalog"
)

// OnEnterHook is the Lua global called when a scene is entered.
const OnEnterHook = "on_enter"

type sceneVM struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per scene and exposes hook dispatch.
//
// Manager is safe for concurrent use. Calls into the same scene's VM are
// serialized; different scenes run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*sceneVM
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no scenes loaded.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*sceneVM),
		logger: logger,
	}
}

// LoadCatalog loads a VM for every scene in cat that names a script_dir,
// resolving each directory against root.
//
// Postcondition: returns the first load failure; scenes loaded before it stay loaded.
func (m *Manager) LoadCatalog(cat *catalog.Catalog, root string, instLimit int) error {
	for _, sc := range cat.Scenes() {
		if sc.ScriptDir == "" {
			continue
		}
		if err := m.LoadScene(sc.ID, filepath.Join(root, sc.ScriptDir), instLimit); err != nil {
			return err
		}
	}
	return nil
}

// LoadScene creates a sandboxed VM for sceneID, registers the engine.* module,
// then executes every *.lua file in scriptDir in lexicographic order. A VM
// already loaded for sceneID is replaced.
//
// Precondition: sceneID must be non-empty; scriptDir must be a readable directory.
// Postcondition: Scene VM is registered; returns error on Lua load failure.
func (m *Manager) LoadScene(sceneID, scriptDir string, instLimit int) error {
	L := NewSandboxedState(instLimit)
	m.RegisterModules(L, sceneID)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, sceneID, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, sceneID, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.vms[sceneID]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.vms[sceneID] = &sceneVM{L: L, limit: instLimit}
	m.mu.Unlock()
	m.logger.Debug("scripting: scene loaded",
		zap.String("scene", sceneID),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// CallHook calls the named Lua global function in sceneID's VM with a fresh
// instruction budget. Returns (LNil, nil) if the hook is not defined or the
// scene has no VM. Lua runtime errors, including an exhausted budget, are
// logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(sceneID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	vm, ok := m.vms[sceneID]
	m.mu.RUnlock()
	if !ok {
		return lua.LNil, nil
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	L := vm.L

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	cancel := budget(L, vm.limit)
	defer cancel()
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scene", sceneID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// OnEnter calls the scene's on_enter hook and returns the facts it yields: a
// single string, or the string elements of an array table in order.
// Non-string values are skipped.
func (m *Manager) OnEnter(sceneID, location string) []string {
	ret, _ := m.CallHook(sceneID, OnEnterHook, lua.LString(sceneID), lua.LString(location))
	switch v := ret.(type) {
	case lua.LString:
		return []string{string(v)}
	case *lua.LTable:
		var facts []string
		n := v.Len()
		for i := 1; i <= n; i++ {
			if s, ok := v.RawGetInt(i).(lua.LString); ok {
				facts = append(facts, string(s))
			}
		}
		return facts
	}
	return nil
}

// Close releases every scene VM.
//
// Postcondition: no scenes are loaded; subsequent CallHook calls return LNil.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, vm := range m.vms {
		vm.mu.Lock()
		vm.L.Close()
		vm.mu.Unlock()
		delete(m.vms, id)
	}
}
