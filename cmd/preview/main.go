package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/HugoSmits86/nativewebp"

	"wobj-converter/internal/preview"
	"wobj-converter/internal/wobj"
)

func main() {
	size := flag.Int("size", 256, "Output image size in pixels")
	supersample := flag.Int("supersample", 2, "Supersampling factor")
	texPath := flag.String("texture", "", "Texture file (PNG, JPEG or TGA)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.wobj> <output.webp>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	doc, err := wobj.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var tex *image.NRGBA
	if *texPath != "" {
		tex, err = preview.LoadTexture(*texPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	img := preview.Render(doc, tex, *size, *supersample)

	f, err := os.Create(flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: WebP encode: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%dx%d)\n", flag.Arg(1), *size, *size)
}
