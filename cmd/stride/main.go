package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/mgriffes/stride/common"
	"github.com/mgriffes/stride/detect"
	"github.com/mgriffes/stride/motor"
	"github.com/mgriffes/stride/physics"
	"github.com/mgriffes/stride/tuning"
)

const (
	screenW = 960
	screenH = 540
	// Pixels per world unit.
	unit = 32.0
	// Fixed simulation step, matching ebiten's default TPS.
	stepTime = 1.0 / 60.0
)

var spawn = cp.Vector{X: 4, Y: 2}

type wall struct {
	min, max cp.Vector
	col      color.Color
}

type slope struct {
	a, b cp.Vector
}

// Game is a minimal playground level exercising every contact and
// movement state: flat floor, a hard wall, a climbable wall, a floating
// platform, and a stair slope.
type Game struct {
	space  *physics.Space
	ctrl   *motor.Controller
	cfg    *tuning.Character
	pos    cp.Vector
	camX   float64
	walls  []wall
	slopes []slope

	configPath string
	watcher    *tuning.Watcher
}

func NewGame(configPath string) (*Game, error) {
	cfg := tuning.Default()
	if configPath != "" {
		loaded, err := tuning.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	g := &Game{
		cfg:        cfg,
		pos:        spawn,
		camX:       spawn.X,
		configPath: configPath,
	}
	g.buildLevel()
	if err := g.rig(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) buildLevel() {
	g.space = physics.NewSpace()
	g.walls = g.walls[:0]
	g.slopes = g.slopes[:0]

	g.addWall(cp.Vector{X: -2, Y: -1}, cp.Vector{X: 30, Y: 0}, physics.MaskSolid, colornames.Dimgray)
	g.addWall(cp.Vector{X: -2, Y: 0}, cp.Vector{X: -1, Y: 12}, physics.MaskSolid, colornames.Dimgray)
	g.addWall(cp.Vector{X: 28, Y: 0}, cp.Vector{X: 29, Y: 12}, physics.MaskSolid|physics.MaskClimb, colornames.Seagreen)
	g.addWall(cp.Vector{X: 9, Y: 3}, cp.Vector{X: 13, Y: 3.5}, physics.MaskSolid, colornames.Dimgray)

	// Stair slope up to the right.
	a, b := cp.Vector{X: 17, Y: 0}, cp.Vector{X: 23, Y: 3}
	g.space.AddSlope(a, b, physics.MaskSolid|physics.MaskStair)
	g.slopes = append(g.slopes, slope{a: a, b: b})
}

func (g *Game) addWall(min, max cp.Vector, mask physics.Mask, col color.Color) {
	g.space.AddBox(min, max, mask)
	g.walls = append(g.walls, wall{min: min, max: max, col: col})
}

// rig builds the detector/controller pair from the current tuning
// record. Called again on hot reload.
func (g *Game) rig() error {
	det, err := detect.NewDetector(g.space, g.cfg.Width, g.cfg.Height, g.cfg.DistanceThreshold)
	if err != nil {
		return err
	}
	ctrl, err := motor.New(g.cfg, det)
	if err != nil {
		return err
	}
	g.ctrl = ctrl
	return nil
}

func (g *Game) Update() error {
	g.pollReload()

	var x float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		x -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		x += 1
	}
	var y float64
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		y -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		y += 1
	}
	g.ctrl.SetXInput(x)
	g.ctrl.SetYInput(y)

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.ctrl.TryJump()
	}
	// Releasing the key early cuts the jump short for variable height.
	if inpututil.IsKeyJustReleased(ebiten.KeySpace) {
		g.ctrl.CancelJump()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.respawn()
	}

	g.ctrl.Step(stepTime, g.pos)
	g.pos = g.pos.Add(g.ctrl.Velocity().Mult(stepTime))
	g.camX = common.Lerp(g.camX, g.pos.X, 0.12)
	for _, evt := range g.ctrl.Events().Drain() {
		log.Printf("event: %s", evt.Kind)
	}

	if g.pos.Y < -10 {
		g.respawn()
	}
	return nil
}

func (g *Game) respawn() {
	g.pos = spawn
	g.camX = spawn.X
	g.ctrl.Activate()
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	select {
	case path, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		cfg, err := tuning.Load(g.configPath)
		if err != nil {
			log.Printf("reload %s: %v", path, err)
			return
		}
		g.cfg = cfg
		if err := g.rig(); err != nil {
			log.Printf("reload %s: %v", path, err)
			return
		}
		log.Printf("reloaded tuning from %s", path)
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("watch: %v", err)
		}
	default:
	}
}

// toScreen converts a Y-up world point to screen pixels. The camera
// trails the character horizontally.
func (g *Game) toScreen(p cp.Vector) (float32, float32) {
	off := screenW/2 - g.camX*unit
	return float32(p.X*unit + off), float32(screenH - 120 - p.Y*unit)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	for _, w := range g.walls {
		x, y := g.toScreen(cp.Vector{X: w.min.X, Y: w.max.Y})
		wd := float32((w.max.X - w.min.X) * unit)
		ht := float32((w.max.Y - w.min.Y) * unit)
		vector.DrawFilledRect(screen, x, y, wd, ht, w.col, false)
	}
	for _, s := range g.slopes {
		ax, ay := g.toScreen(s.a)
		bx, by := g.toScreen(s.b)
		vector.StrokeLine(screen, ax, ay, bx, by, 3, colornames.Sandybrown, true)
	}

	px, py := g.toScreen(cp.Vector{X: g.pos.X - g.cfg.Width/2, Y: g.pos.Y + g.cfg.Height/2})
	vector.DrawFilledRect(screen, px, py, float32(g.cfg.Width*unit), float32(g.cfg.Height*unit), colornames.Crimson, false)

	snap := g.ctrl.Snapshot()
	vel := g.ctrl.Velocity()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"ground: %s  wall: %s  climb: %s  edge: %s  stair: %s",
		snap.Ground, snap.WallState, snap.ClimbState, snap.EdgeState, snap.StairState), 10, 10)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"vel: (%.2f, %.2f)  jumping: %v  wallJump: %v  climbing: %v",
		vel.X, vel.Y, g.ctrl.IsJumping(), g.ctrl.IsWallJump(), g.ctrl.IsClimbing()), 10, 26)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	configPath := flag.String("config", "", "character tuning yaml (defaults to the embedded record)")
	flag.Parse()

	game, err := NewGame(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if *configPath != "" {
		watcher, err := tuning.NewWatcher(filepath.Dir(*configPath))
		if err != nil {
			log.Printf("watch: %v", err)
		} else {
			game.watcher = watcher
			defer watcher.Close()
		}
	}

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("stride")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
