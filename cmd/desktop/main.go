package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"simplelang/pkg/compiler"
	"simplelang/pkg/cpu"
	"simplelang/pkg/grid"
	"simplelang/pkg/utils"
)

const (
	screenWidth  = 960
	screenHeight = 560

	lineHeight = 16
	listingX   = 12
	listingY   = 12

	memCols  = 16
	cellW    = 30
	cellH    = 18
	memoryX  = 420
	memoryY  = 110
	stateX   = 420
	stateY   = 12
	runBurst = 10000
)

var (
	colText      = color.RGBA{0xd0, 0xd0, 0xd0, 0xff}
	colDim       = color.RGBA{0x60, 0x60, 0x60, 0xff}
	colCurrent   = color.RGBA{0x30, 0x50, 0x90, 0xff}
	colCell      = color.RGBA{0x20, 0x20, 0x20, 0xff}
	colVariable  = color.RGBA{0x20, 0x50, 0x30, 0xff}
	colFault     = color.RGBA{0xe0, 0x50, 0x50, 0xff}
	colBackdrop  = color.RGBA{0x10, 0x10, 0x10, 0xff}
	colHighlight = color.RGBA{0xf0, 0xd0, 0x60, 0xff}
)

// Viewer steps the machine and draws its state. It holds no ebiten
// resources itself so the stepping logic can run without a window.
type Viewer struct {
	vm   *cpu.CPU
	res  *compiler.Result
	vars map[byte]string // data address -> variable name
}

func NewViewer(res *compiler.Result) (*Viewer, error) {
	vm := cpu.NewCPU()
	if err := vm.Load(res.Code); err != nil {
		return nil, err
	}

	v := &Viewer{vm: vm, res: res, vars: make(map[byte]string)}
	for _, sym := range res.Symbols {
		v.vars[byte(sym.Address)] = sym.Name
	}
	return v, nil
}

// Step executes one instruction.
func (v *Viewer) Step() {
	v.vm.Step()
}

// RunBurst executes up to n instructions, stopping at hlt or a fault.
func (v *Viewer) RunBurst(n int) {
	for i := 0; i < n && !v.vm.Halted; i++ {
		v.vm.Step()
	}
}

// Reset clears the machine and rewinds to the first instruction.
func (v *Viewer) Reset() {
	v.vm.Reset()
}

// CurrentLine is the 1-based listing line of the instruction at PC, or 0.
func (v *Viewer) CurrentLine() int {
	return v.res.SourceMap[v.vm.PC]
}

func (v *Viewer) Status() string {
	switch {
	case v.vm.Fault != nil:
		return "FAULT: " + v.vm.Fault.Error()
	case v.vm.Halted:
		return "halted"
	default:
		return "ready"
	}
}

type Game struct {
	viewer  *Viewer
	running bool
	face    text.Face
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.running = false
		g.viewer.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.running = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.running = false
		g.viewer.Reset()
	}

	if g.running {
		g.viewer.RunBurst(runBurst)
		if g.viewer.vm.Halted {
			g.running = false
		}
	}
	return nil
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, op)
}

func fillRect(screen *ebiten.Image, x, y, w, h int, clr color.Color) {
	screen.SubImage(image.Rect(x, y, x+w, y+h)).(*ebiten.Image).Fill(clr)
}

func (g *Game) drawListing(screen *ebiten.Image) {
	current := g.viewer.CurrentLine()
	for i, line := range g.viewer.res.Lines {
		y := listingY + i*lineHeight
		if y > screenHeight-lineHeight {
			break
		}
		clr := color.Color(colText)
		if i+1 == current && !g.viewer.vm.Halted {
			fillRect(screen, listingX-4, y, 380, lineHeight, colCurrent)
			clr = colHighlight
		}
		g.drawText(screen, fmt.Sprintf("%3d  %s", i+1, line), listingX, y, clr)
	}
}

func (g *Game) drawState(screen *ebiten.Image) {
	vm := g.viewer.vm
	status := g.viewer.Status()
	statusClr := color.Color(colText)
	if vm.Fault != nil {
		statusClr = colFault
	}

	g.drawText(screen, fmt.Sprintf("PC=0x%04X  A=%3d  B=%3d  steps=%d", vm.PC, vm.Regs[cpu.RegA], vm.Regs[cpu.RegB], vm.Steps), stateX, stateY, colText)
	g.drawText(screen, status, stateX, stateY+lineHeight, statusClr)
	g.drawText(screen, "Space: step   R: run   Backspace: reset", stateX, stateY+3*lineHeight, colDim)

	// Variables in one row under the key help; the grid shows the rest.
	x := stateX
	for _, sym := range g.viewer.res.Symbols {
		label := fmt.Sprintf("%s=%d", sym.Name, vm.Memory[sym.Address])
		if x+len(label)*7 > screenWidth {
			break
		}
		g.drawText(screen, label, x, stateY+4*lineHeight, colHighlight)
		x += (len(label) + 2) * 7
	}
}

func (g *Game) drawMemory(screen *ebiten.Image) {
	vm := g.viewer.vm
	for i, value := range vm.Memory {
		px, py := grid.CellOrigin(i, memCols, cellW, cellH, memoryX, memoryY)
		bg := colCell
		if _, ok := g.viewer.vars[byte(i)]; ok {
			bg = colVariable
		}
		fillRect(screen, px, py, cellW-2, cellH-2, bg)
		clr := color.Color(colDim)
		if value != 0 {
			clr = colText
		}
		g.drawText(screen, fmt.Sprintf("%3d", value), px+2, py+2, clr)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackdrop)
	g.drawListing(screen)
	g.drawState(screen)
	g.drawMemory(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: desktop <file.sl>")
	}

	fullPath, _, err := utils.GetPathInfo(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to resolve path: %v", err)
	}
	source, err := utils.ReadSource(fullPath)
	if err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}

	res, err := compiler.Compile(source)
	if err != nil {
		log.Fatalf("Compilation failed: %v", err)
	}
	for _, w := range res.Warnings {
		log.Printf("warning: %s", w)
	}

	viewer, err := NewViewer(res)
	if err != nil {
		log.Fatalf("Load failed: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Simple Lang Machine")

	game := &Game{viewer: viewer, face: text.NewGoXFace(basicfont.Face7x13)}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
