package output

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/inky"
	"periph.io/x/host/v3"
)

// InkyOptions selects the panel and its wiring. Pins are BCM names.
type InkyOptions struct {
	Model    string // "what" or "phat"
	Colour   string // "red" or "yellow"
	SPIPort  string // empty picks the first port
	DCPin    string
	ResetPin string
	BusyPin  string
}

// Inky drives a Pimoroni Inky panel. The frame is held until Show.
type Inky struct {
	dev   *inky.Dev
	close func() error
	frame image.Image
}

// OpenInky initialises the host and opens the panel.
func OpenInky(o InkyOptions) (*Inky, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("inky: host init: %w", err)
	}
	port, err := spireg.Open(o.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("inky: open spi %q: %w", o.SPIPort, err)
	}
	pins := make([]gpio.PinIO, 0, 3)
	for _, name := range []string{o.DCPin, o.ResetPin, o.BusyPin} {
		p := gpioreg.ByName(name)
		if p == nil {
			port.Close()
			return nil, fmt.Errorf("inky: unknown gpio %q", name)
		}
		pins = append(pins, p)
	}
	opts := &inky.Opts{
		Model:       inky.WHAT,
		ModelColor:  inky.Yellow,
		BorderColor: inky.White,
	}
	if strings.EqualFold(o.Model, "phat") {
		opts.Model = inky.PHAT
	}
	if strings.EqualFold(o.Colour, "red") {
		opts.ModelColor = inky.Red
	}
	dev, err := inky.New(port, pins[0], pins[1], pins[2], opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("inky: %w", err)
	}
	return &Inky{dev: dev, close: port.Close}, nil
}

func (d *Inky) Bounds() image.Rectangle { return d.dev.Bounds() }

func (d *Inky) SetImage(img image.Image) error {
	if !img.Bounds().Size().Eq(d.Bounds().Size()) {
		return fmt.Errorf("inky: image %v does not match panel %v", img.Bounds().Size(), d.Bounds().Size())
	}
	d.frame = img
	return nil
}

// SetBorder maps c onto the nearest panel border colour.
func (d *Inky) SetBorder(c color.Color) {
	r, g, b, _ := c.RGBA()
	switch {
	case r > 0x8000 && g > 0x8000 && b > 0x8000:
		d.dev.SetBorder(inky.White)
	case r > 0x8000 && g > 0x8000:
		d.dev.SetBorder(inky.Yellow)
	case r > 0x8000:
		d.dev.SetBorder(inky.Red)
	default:
		d.dev.SetBorder(inky.Black)
	}
}

// Show refreshes the panel, which takes several seconds on tri-colour models.
func (d *Inky) Show(ctx context.Context) error {
	if d.frame == nil {
		return fmt.Errorf("inky: no image set")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.dev.Draw(d.Bounds(), d.frame, d.frame.Bounds().Min)
}

func (d *Inky) Close() error { return d.close() }
