package main

import (
	"flag"
	"fmt"
	stdimage "image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/quenby/go-skylight/pkg/core"
	skyimage "github.com/quenby/go-skylight/pkg/image"
	"github.com/quenby/go-skylight/pkg/profile"
	"github.com/quenby/go-skylight/pkg/renderer"
)

func main() {
	sceneType := flag.String("scene", "star", "Scene type: 'star' or 'galaxy'")
	pixelScale := flag.Float64("scale", 0.2, "Pixel scale in profile units per pixel")
	nPhotons := flag.Int("photons", 200000, "Photon budget for the shooting pass")
	seed := flag.Int64("seed", 42, "Random seed for photon shooting")
	verbose := flag.Bool("v", false, "Log renderer diagnostics")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Surface-brightness profile renderer")
		fmt.Println("Usage: skylight [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  star   - point source through Kolmogorov seeing and a Gaussian optics blur")
		fmt.Println("  galaxy - exponential disk plus nuclear point source, through a Moffat PSF")
		fmt.Println()
		fmt.Println("Output is saved to output/<scene>/render_<timestamp>_<method>.png")
		return
	}

	gsp := core.DefaultGSParams()
	prof, err := buildScene(*sceneType, gsp)
	if err != nil {
		log.Fatalf("Error building scene %q: %v", *sceneType, err)
	}
	fmt.Printf("Rendering %s\n", prof)

	outputDir := filepath.Join("output", *sceneType)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Error creating output directory: %v", err)
	}

	var logger core.Logger
	if *verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	for _, pass := range []struct {
		name string
		opts renderer.Options
	}{
		{"fft", renderer.Options{Method: renderer.MethodFFT, Logger: logger}},
		{"photon", renderer.Options{
			Method: renderer.MethodPhoton, NPhotons: *nPhotons, Seed: *seed, Logger: logger,
		}},
	} {
		var stats renderer.RenderStats
		pass.opts.Stats = &stats
		start := time.Now()
		img, err := renderer.Render(prof, *pixelScale, pass.opts)
		if err != nil {
			log.Fatalf("Error rendering via %s: %v", pass.name, err)
		}
		fmt.Printf("%s pass: %v, %dx%d pixels, flux %.5f of %.5f\n",
			pass.name, time.Since(start),
			stats.GridSize, stats.GridSize, img.Sum(), prof.Flux())
		if stats.PhotonsShot > 0 {
			fmt.Printf("  %d photons in %d chunks, %.5f shot / %.5f binned\n",
				stats.PhotonsShot, stats.Chunks, stats.FluxShot, stats.FluxBinned)
		}

		timestamp := time.Now().Format("20060102_150405")
		filename := filepath.Join(outputDir, fmt.Sprintf("render_%s_%s.png", timestamp, pass.name))
		if err := savePNG(filename, img); err != nil {
			log.Fatalf("Error saving PNG: %v", err)
		}
		fmt.Printf("Saved %s\n", filename)
	}
}

// buildScene assembles the demo profiles.
func buildScene(name string, gsp core.GSParams) (profile.Profile, error) {
	switch name {
	case "star":
		atm, err := profile.NewKolmogorov(0.9, 1, gsp)
		if err != nil {
			return nil, err
		}
		optics, err := profile.NewGaussian(0.15, 1, gsp)
		if err != nil {
			return nil, err
		}
		star := profile.NewDeltaFunction(100, gsp)
		return profile.NewConvolution(star, atm, optics)
	case "galaxy":
		disk, err := profile.NewExponentialFromHLR(1.2, 80, gsp)
		if err != nil {
			return nil, err
		}
		nucleus := profile.NewDeltaFunction(20, gsp)
		gal, err := profile.NewSum(disk, nucleus)
		if err != nil {
			return nil, err
		}
		psf, err := profile.NewMoffat(3.5, 0.3, 1, gsp)
		if err != nil {
			return nil, err
		}
		return profile.NewConvolution(gal, psf)
	default:
		return nil, core.Configf("unknown scene %q", name)
	}
}

// savePNG writes the image as 16-bit grayscale, linearly scaled to its
// peak value.
func savePNG(filename string, img *skyimage.Image[float64]) error {
	b := img.Bounds()
	peak := 0.0
	for y := b.YMin; y <= b.YMax; y++ {
		for x := b.XMin; x <= b.XMax; x++ {
			if v := img.At(x, y); v > peak {
				peak = v
			}
		}
	}
	gray := stdimage.NewGray16(stdimage.Rect(0, 0, b.NumCols(), b.NumRows()))
	if peak > 0 {
		for y := b.YMin; y <= b.YMax; y++ {
			for x := b.XMin; x <= b.XMax; x++ {
				v := img.At(x, y) / peak
				if v < 0 {
					v = 0
				}
				// Image rows run top-down; profile y runs up.
				gray.SetGray16(x-b.XMin, b.YMax-y, color.Gray16{Y: uint16(v * 65535)})
			}
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, gray)
}
