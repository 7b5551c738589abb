package main

import (
	"fmt"
	"os"

	"github.com/1broseidon/xcurs/internal/xcursor"
)

const defaultInspectSize = 24

func runInspect(args []string) int {
	fs := newFlagSet("inspect",
		"Usage: xcurs inspect [--size N] [--rewrite OUT] FILE",
		"",
		"Print the table of contents of an Xcursor file and the frames chosen",
		"for the requested size.")
	size := fs.Uint("size", defaultInspectSize, "Nominal size to select")
	rewrite := fs.String("rewrite", "", "Write the selected frames to OUT as a new cursor file")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "inspect requires FILE")
		fs.Usage()
		return 2
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer f.Close()

	toc, err := xcursor.ReadToc(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", fs.Arg(0), err)
		return 1
	}
	fmt.Printf("entries: %d\n", len(toc))
	for i, e := range toc {
		kind := "other"
		if e.IsImage() {
			kind = "image"
		}
		fmt.Printf("  %3d  %-5s  type=%#08x  size=%-4d  pos=%d\n", i, kind, e.Type, e.Size, e.Position)
	}

	images, err := xcursor.Parse(f, uint32(*size))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", fs.Arg(0), err)
		return 1
	}
	nominal := selectedSize(toc, uint32(*size))
	fmt.Printf("selected size %d: %d frame(s)\n", nominal, len(images))
	for i, img := range images {
		fmt.Printf("  %3d  %dx%d  hot=(%d,%d)  delay=%dms\n", i, img.Width, img.Height, img.XHot, img.YHot, img.Delay)
	}

	if *rewrite == "" {
		return 0
	}
	out, err := os.Create(*rewrite)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := xcursor.Encode(out, nominal, images); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "%s: %v\n", *rewrite, err)
		return 1
	}
	if err := out.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("wrote %s\n", *rewrite)
	return 0
}

// selectedSize is the nominal size Parse picks for want: the first image
// size in table order at the smallest distance.
func selectedSize(toc []xcursor.TocEntry, want uint32) uint32 {
	var best uint32
	found := false
	for _, e := range toc {
		if !e.IsImage() {
			continue
		}
		if !found || absDiff(e.Size, want) < absDiff(best, want) {
			best, found = e.Size, true
		}
	}
	return best
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
