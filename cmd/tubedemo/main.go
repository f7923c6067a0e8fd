// Command tubedemo renders the tube choreography in a terminal. It is the
// rendering collaborator made concrete: a tcell-backed Stage that turns the
// core's position/rotation/scale/alpha pushes into colored glyphs.
//
// Keys: q or ESC quits, a force-attacks every orbiting enemy.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/sl4ppy/gyruss-tube-shooter/internal/config"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/director"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/formation"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/movement"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/stage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// sprite is the demo-side state for one entity handle.
type sprite struct {
	x, y  float64
	scale float64
	alpha float64
}

// termStage implements stage.Stage on a tcell screen. World coordinates
// are mapped onto terminal cells at draw time.
type termStage struct {
	next    stage.Handle
	sprites map[stage.Handle]*sprite
}

func newTermStage() *termStage {
	return &termStage{sprites: make(map[stage.Handle]*sprite, 32)}
}

func (t *termStage) CreateEntityAt(x, y float64) stage.Handle {
	t.next++
	t.sprites[t.next] = &sprite{x: x, y: y, scale: 1, alpha: 1}
	return t.next
}

func (t *termStage) SetPosition(h stage.Handle, x, y float64) {
	if s, ok := t.sprites[h]; ok {
		s.x, s.y = x, y
	}
}

// Rotation has no terminal representation; glyph choice tracks scale only.
func (t *termStage) SetRotation(stage.Handle, float64) {}

func (t *termStage) SetScale(h stage.Handle, factor float64) {
	if s, ok := t.sprites[h]; ok {
		s.scale = factor
	}
}

func (t *termStage) SetAlpha(h stage.Handle, factor float64) {
	if s, ok := t.sprites[h]; ok {
		s.alpha = factor
	}
}

func (t *termStage) Destroy(h stage.Handle) {
	delete(t.sprites, h)
}

// glyph picks a rune by scale: deeper in the tube = smaller mark.
func glyph(scale float64) rune {
	switch {
	case scale < 0.3:
		return '·'
	case scale < 0.55:
		return 'o'
	case scale < 0.8:
		return 'O'
	default:
		return '@'
	}
}

func (t *termStage) draw(scr tcell.Screen, cfg *config.Config, wave int, live, score int) {
	scr.Clear()
	w, h := scr.Size()
	sx := float64(w) / cfg.Screen.Width
	sy := float64(h) / cfg.Screen.Height

	// Tube center marker.
	cx := int(cfg.Screen.Width / 2 * sx)
	cy := int(cfg.Screen.Height / 2 * sy)
	scr.SetContent(cx, cy, '+', nil, tcell.StyleDefault.Foreground(tcell.ColorGray))

	for _, s := range t.sprites {
		col := tcell.ColorGreen
		if s.alpha < 0.5 {
			col = tcell.ColorDarkGreen
		}
		scr.SetContent(int(s.x*sx), int(s.y*sy), glyph(s.scale), nil,
			tcell.StyleDefault.Foreground(col))
	}

	status := fmt.Sprintf(" wave %d  live %d  score %d  [q quit, a attack] ", wave, live, score)
	for i, r := range status {
		scr.SetContent(i, 0, r, nil, tcell.StyleDefault.Reverse(true))
	}
	scr.Show()
}

// cycle of formations the demo spawns, one after another.
var demoFormations = []formation.Type{
	formation.Circle, formation.V, formation.Line, formation.Diamond, formation.Cross,
}

func run() error {
	cfg := config.Defaults()

	scr, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("new screen: %w", err)
	}
	if err := scr.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer scr.Fini()

	ts := newTermStage()
	dir := director.New(director.Options{
		Config: cfg,
		Stage:  ts,
		Log:    zap.NewNop(),
	})

	keys := make(chan *tcell.EventKey, 8)
	go func() {
		for {
			ev := scr.PollEvent()
			switch e := ev.(type) {
			case *tcell.EventKey:
				keys <- e
			case *tcell.EventResize:
				scr.Sync()
			case nil:
				return
			}
		}
	}()

	ticker := time.NewTicker(cfg.Simulation.TickRate.Duration)
	defer ticker.Stop()

	var live []*movement.State
	nextFormation := 0
	wave := 0
	last := time.Now()

	for {
		select {
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now

			if dir.LiveCount() == 0 {
				ft := demoFormations[nextFormation%len(demoFormations)]
				nextFormation++
				wave++
				spawned, err := dir.SpawnFormation(ft, 8, cfg.Screen.MaxRadius*0.85, cfg.Movement.SpiralDuration.Duration)
				if err != nil {
					return fmt.Errorf("spawn %s: %w", ft, err)
				}
				live = spawned
			}

			dir.AdvanceAll(dt)
			dir.SyncStage()
			ts.draw(scr, cfg, wave, dir.LiveCount(), dir.Score())

		case e := <-keys:
			switch {
			case e.Key() == tcell.KeyEscape || e.Rune() == 'q':
				return nil
			case e.Rune() == 'a':
				for _, st := range live {
					dir.ForceAttack(st)
				}
			}
		}
	}
}
