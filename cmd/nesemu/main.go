// Command nesemu is the thin SDL2 host driver: it loads a ROM, owns the
// window/keyboard, and drives the emulator core one frame at a time.
package main

import (
	"fmt"
	"log"
	"os"
	"unsafe"

	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/nesgrain/nesgrain/pkg/cartridge"
	"github.com/nesgrain/nesgrain/pkg/controller"
	"github.com/nesgrain/nesgrain/pkg/nes"
	"github.com/nesgrain/nesgrain/pkg/ppu"
)

var allowedScales = map[int]bool{1: true, 2: true, 4: true, 8: true, 16: true, 32: true}

func main() {
	var scale int
	var verbose bool

	root := &cobra.Command{
		Use:   "nesemu PATH",
		Short: "Run an iNES ROM",
		Args:  cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !allowedScales[scale] {
				return fmt.Errorf("--scale must be one of 1, 2, 4, 8, 16, 32 (got %d)", scale)
			}
			return run(args[0], scale, verbose)
		},
	}
	root.Flags().IntVar(&scale, "scale", 2, "window scale factor (1, 2, 4, 8, 16, 32)")
	root.Flags().BoolVar(&verbose, "verbose", false, "log ROM/mapper diagnostics to stderr")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string, scale int, verbose bool) error {
	cart, err := cartridge.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}
	if verbose {
		log.Printf("loaded %s: mapper %s, prg=%dKB, chr=%dKB, mirroring=%v",
			path, cart.Mapper.Kind, len(cart.PRGROM)/1024, len(cart.CHRRAM)/1024, cart.Mirroring())
	}

	emulator := nes.New(cart)

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		"nesemu - "+path,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(ppu.ScreenWidth*scale), int32(ppu.ScreenHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING,
		ppu.ScreenWidth, ppu.ScreenHeight,
	)
	if err != nil {
		return fmt.Errorf("creating texture: %w", err)
	}
	defer texture.Destroy()

	var controller1 uint8
	running := true

	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Keysym.Sym == sdl.K_ESCAPE && e.Type == sdl.KEYDOWN {
					running = false
					continue
				}
				setButton(&controller1, e.Keysym.Sym, e.Type == sdl.KEYDOWN)
			}
		}

		emulator.UpdateController1(&controller1)
		frame := emulator.Frame()

		texture.Update(nil, unsafe.Pointer(&frame[0]), ppu.ScreenWidth*4)
		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()
	}

	return nil
}

// setButton maps the WASD/Space/LeftShift/T/Y layout onto the NES's
// eight-button controller state byte.
func setButton(state *uint8, key sdl.Keycode, pressed bool) {
	var button controller.Button
	switch key {
	case sdl.K_w:
		button = controller.ButtonUp
	case sdl.K_a:
		button = controller.ButtonLeft
	case sdl.K_s:
		button = controller.ButtonDown
	case sdl.K_d:
		button = controller.ButtonRight
	case sdl.K_SPACE:
		button = controller.ButtonA
	case sdl.K_LSHIFT:
		button = controller.ButtonB
	case sdl.K_t:
		button = controller.ButtonStart
	case sdl.K_y:
		button = controller.ButtonSelect
	default:
		return
	}
	if pressed {
		*state |= 1 << uint(button)
	} else {
		*state &^= 1 << uint(button)
	}
}
