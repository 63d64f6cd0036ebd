// projlint loads a canvas project file, reports its contents, and exits
// non-zero when the file is malformed or unsupported.
package main

import (
	"flag"
	"fmt"
	"os"

	"canvas-annotator/internal/imageloader"
	"canvas-annotator/internal/project"
	"canvas-annotator/internal/version"
)

func main() {
	var verbose bool
	var checkBitmaps bool
	var showVersion bool

	flag.BoolVar(&verbose, "verbose", false, "Print per-image details")
	flag.BoolVar(&checkBitmaps, "bitmaps", false, "Decode embedded bitmaps and verify their dimensions")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("projlint %s (%s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] project.json\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	path := flag.Arg(0)
	f, err := project.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		os.Exit(1)
	}

	doc := f.Document()
	annos := len(doc.CanvasAnnotations)
	for _, img := range doc.Images {
		annos += len(img.Annotations)
	}

	fmt.Printf("%s: version %s\n", path, f.Version)
	fmt.Printf("  images:      %d\n", len(doc.Images))
	fmt.Printf("  groups:      %d\n", len(doc.Groups))
	fmt.Printf("  annotations: %d\n", annos)
	fmt.Printf("  archived:    %d\n", len(f.State.ArchivedImages))
	fmt.Printf("  layers:      %d rows\n", len(doc.Flatten()))

	if verbose {
		for i, img := range doc.Images {
			cropped := ""
			if img.CropRect != nil {
				cropped = " (cropped)"
			}
			fmt.Printf("  [%d] %s %q %.0fx%.0f scale=%.2f rot=%.1f annos=%d%s\n",
				i, img.ID, img.Name, img.Width, img.Height, img.Scale, img.Rotation,
				len(img.Annotations), cropped)
		}
	}

	if checkBitmaps {
		ok := true
		for _, img := range doc.Images {
			if img.DataURL == "" {
				continue
			}
			bmp, err := imageloader.DecodeDataURL(img.DataURL)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  image %s: bad bitmap: %v\n", img.ID, err)
				ok = false
				continue
			}
			if img.CropRect == nil && (float64(bmp.Width) != img.Width || float64(bmp.Height) != img.Height) {
				fmt.Fprintf(os.Stderr, "  image %s: bitmap %dx%d does not match declared %.0fx%.0f\n",
					img.ID, bmp.Width, bmp.Height, img.Width, img.Height)
				ok = false
			}
		}
		if !ok {
			os.Exit(1)
		}
		fmt.Println("  bitmaps:     ok")
	}
}
