package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/narration"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// narrate asks the narrator for flavor prose. A narrator failure is logged and
// yields no flavor; it never fails the turn.
func (e *Engine) narrate(ctx context.Context, s *state.GameState, sc *catalog.SceneDef, mode turn.Mode, out *turn.Outcome) string {
	req := narration.Request{
		Mode:        mode,
		LocationKey: s.Location,
		EnemyName:   out.EnemyName,
		TookDamage:  out.TookDamage,
		DealtDamage: out.DealtDamage,
		ItemNames:   out.ItemsGained,
		Facts:       out.Facts,
	}
	if sc != nil {
		req.BiomeKey = sc.Biome
	}
	flavor, err := e.narrator.Narrate(ctx, req)
	if err != nil {
		e.logger.Warn("narrator failed", zap.String("mode", string(mode)), zap.Error(err))
		return ""
	}
	return flavor
}
