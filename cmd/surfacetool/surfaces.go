package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Faultbox/surfacegeom/internal/catalog"
	"github.com/Faultbox/surfacegeom/internal/config"
	"github.com/Faultbox/surfacegeom/pkg/math"
)

// openSurface resolves a configured surface name, falling back to a JSON
// file path.
func openSurface(cfg *config.Config, ref string) (*catalog.Entry, error) {
	c := catalog.New()
	entry, ok := cfg.Surface(ref)
	if !ok {
		if _, err := os.Stat(ref); err != nil {
			return nil, fmt.Errorf("%q is neither a configured surface nor a readable file", ref)
		}
		entry = config.SurfaceEntry{Name: ref, File: ref}
	}
	if err := c.LoadEntry(entry); err != nil {
		return nil, err
	}
	return c.Get(entry.Name)
}

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not a number", i+1, a)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func formatVec3(v math.Vec3) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
