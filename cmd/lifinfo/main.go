// Diagnostic tool for inspecting LIF files
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/robert-malhotra/go-lif/lif"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: lifinfo <file.lif>")
		os.Exit(1)
	}

	filename := os.Args[1]
	fmt.Printf("=== %s ===\n\n", filename)

	f, err := lif.Open(filename)
	if err != nil {
		fmt.Printf("ERROR: failed to open file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Printf("Schema version: %d\n", f.SchemaVersion())
	fmt.Printf("Images: %d\n\n", f.NumImages())

	err = lif.Walk(f.Root(), func(path string, obj interface{}) error {
		switch o := obj.(type) {
		case *lif.Folder:
			if path == "" {
				return nil
			}
			fmt.Printf("Folder %s/\n", path)
		case *lif.Image:
			printImage(path, o)
		}
		return nil
	})
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func printImage(path string, img *lif.Image) {
	fmt.Printf("Image %s\n", path)

	var axes []string
	for _, ax := range img.Axes() {
		axes = append(axes, fmt.Sprintf("%s=%d", ax.Kind, ax.Len))
	}
	fmt.Printf("  Axes: %s\n", strings.Join(axes, " "))
	fmt.Printf("  Channels: %d, bit depths %v\n", img.ChannelCount(), img.BitDepths())
	fmt.Printf("  Scale: x=%.4f y=%.4f z=%.4f px/um, t=%.4f fps\n",
		img.Scale(lif.AxisX), img.Scale(lif.AxisY), img.Scale(lif.AxisZ), img.Scale(lif.AxisT))
	if img.MemoryBlockID() != "" {
		fmt.Printf("  Memory block: %s\n", img.MemoryBlockID())
	}
	if img.IsMosaic() {
		fmt.Printf("  Mosaic tiles: %d\n", len(img.Mosaic()))
	}
	if ts := img.Timestamps(); len(ts) > 0 {
		fmt.Printf("  Timestamps: %d, first %s\n", len(ts), ts[0].Format("2006-01-02 15:04:05.000"))
	}
	if img.Truncated() {
		fmt.Printf("  WARNING: pixel data truncated (expected %d bytes)\n", img.ExpectedSize())
	}
	fmt.Println()
}
