package meshio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/Faultbox/surfacegeom/pkg/surface"
)

// WriteOBJ writes m as Wavefront OBJ. Each quad strip step becomes one
// quad face; triangle lists are written as triangles.
func WriteOBJ(w io.Writer, m *surface.Mesh, name string) error {
	bw := bufio.NewWriter(w)
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	if name != "" {
		line("o %s", name)
	}
	for _, v := range m.Vertices {
		line("v %f %f %f", v.X, v.Y, v.Z)
	}
	for _, tc := range m.TexCoords {
		line("vt %f %f", tc.X, tc.Y)
	}
	for _, n := range m.Normals {
		line("vn %f %f %f", n.X, n.Y, n.Z)
	}

	// OBJ indices are 1-based and v, vt, vn share numbering here.
	corner := func(i uint32) string {
		return fmt.Sprintf("%d/%d/%d", i+1, i+1, i+1)
	}
	for _, p := range m.Primitives {
		switch p.Mode {
		case surface.QuadStrip:
			for k := 0; k+3 < len(p.Indices); k += 2 {
				a, b, c, d := p.Indices[k], p.Indices[k+1], p.Indices[k+2], p.Indices[k+3]
				line("f %s %s %s %s", corner(a), corner(b), corner(d), corner(c))
			}
		case surface.Triangles:
			for k := 0; k+2 < len(p.Indices); k += 3 {
				line("f %s %s %s", corner(p.Indices[k]), corner(p.Indices[k+1]), corner(p.Indices[k+2]))
			}
		}
	}

	return errors.Wrap(bw.Flush(), "Failed to write obj")
}
