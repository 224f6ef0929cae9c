package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/Faultbox/surfacegeom/internal/catalog"
	"github.com/Faultbox/surfacegeom/internal/config"
	"github.com/Faultbox/surfacegeom/internal/logger"
	"github.com/Faultbox/surfacegeom/internal/preview"
	"github.com/Faultbox/surfacegeom/internal/server"
	"github.com/Faultbox/surfacegeom/pkg/math"
	"github.com/Faultbox/surfacegeom/pkg/meshio"
	"github.com/Faultbox/surfacegeom/pkg/surface"
)

func cmdInfo(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	dump := fs.Bool("dump", false, "Dump the parsed configuration structure")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: surfacetool info [-dump] <surface>")
	}

	e, err := openSurface(cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	g := e.Geometry
	m := e.Mesh(false)
	b := m.Bounds()

	fmt.Printf("Surface:    %s\n", e.Name)
	fmt.Printf("Source:     %s\n", e.Source)
	fmt.Printf("Model:      %s\n", g.Kind())
	fmt.Printf("Vertices:   %d\n", m.VertexCount())
	fmt.Printf("Primitives: %d\n", len(m.Primitives))
	fmt.Printf("Triangles:  %d\n", len(m.Triangles())/3)
	fmt.Printf("Bounds:     %s - %s\n", formatVec3(b.Min), formatVec3(b.Max))
	if c, ok := g.Model().(surface.Centerer); ok {
		fmt.Printf("Center:     %s\n", formatVec3(c.Center()))
	}

	doc, err := g.Config().MarshalJSON()
	if err != nil {
		return err
	}
	fmt.Printf("Config:     %s\n", doc)

	if *dump {
		fmt.Println()
		dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		dumper.Fdump(os.Stdout, g.Config())
	}
	return nil
}

func cmdMesh(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	format := fs.String("format", "", "Output format: glb, gltf, obj or json (default from -o, else json)")
	output := fs.String("o", "", "Output file (default stdout)")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: surfacetool mesh [-format f] [-o file] <surface>")
	}

	e, err := openSurface(cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	m := e.Mesh(cfg.Export.TexcoordColors)

	var f meshio.Format
	switch {
	case *format != "":
		f, err = meshio.ParseFormat(*format)
	case *output != "":
		f, err = meshio.FormatFromPath(*output)
	default:
		f = meshio.FormatJSON
	}
	if err != nil {
		return err
	}

	if *output == "" {
		return meshio.Write(os.Stdout, f, m, e.Name)
	}
	if ext, _ := meshio.FormatFromPath(*output); ext != f {
		return fmt.Errorf("output %s does not match format %s", *output, f)
	}
	if err := meshio.Save(*output, m, e.Name); err != nil {
		return err
	}
	logger.Info("mesh written", zap.String("path", *output), zap.Int("vertices", m.VertexCount()))
	return nil
}

func cmdLookup(cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: surfacetool lookup <surface> <u> <v>")
	}
	e, err := openSurface(cfg, args[0])
	if err != nil {
		return err
	}
	uv, err := parseFloats(args[1:])
	if err != nil {
		return err
	}

	tc := math.Vec2{X: uv[0], Y: uv[1]}
	model := e.Geometry.Model()
	pos := model.TexcoordToWorld(tc)
	if pos.IsNaN() {
		return fmt.Errorf("texcoord (%g, %g) is not on the surface", tc.X, tc.Y)
	}
	fmt.Printf("position %s\n", formatVec3(pos))
	fmt.Printf("normal   %s\n", formatVec3(model.TexcoordToNormal(tc)))
	return nil
}

func cmdInverse(cfg *config.Config, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: surfacetool inverse <surface> <x> <y> <z>")
	}
	e, err := openSurface(cfg, args[0])
	if err != nil {
		return err
	}
	p, err := parseFloats(args[1:])
	if err != nil {
		return err
	}

	inv, ok := e.Geometry.Model().(surface.Inverter)
	if !ok {
		return fmt.Errorf("%s does not support inverse mapping", e.Geometry.Kind())
	}
	tc, ok := inv.WorldToTexcoord(math.Vec3{X: p[0], Y: p[1], Z: p[2]})
	if !ok {
		return fmt.Errorf("point has no texture coordinate on %s", e.Name)
	}
	fmt.Printf("texcoord (%g, %g)\n", tc.X, tc.Y)
	return nil
}

func cmdIntersect(cfg *config.Config, args []string) error {
	if len(args) != 7 {
		return fmt.Errorf("usage: surfacetool intersect <surface> <fx> <fy> <fz> <tx> <ty> <tz>")
	}
	e, err := openSurface(cfg, args[0])
	if err != nil {
		return err
	}
	p, err := parseFloats(args[1:])
	if err != nil {
		return err
	}

	isect, ok := e.Geometry.Model().(surface.Intersector)
	if !ok {
		return fmt.Errorf("%s does not support ray intersection", e.Geometry.Kind())
	}
	hit, ok := isect.FirstSurface(math.Vec3{X: p[0], Y: p[1], Z: p[2]}, math.Vec3{X: p[3], Y: p[4], Z: p[5]})
	if !ok {
		fmt.Println("no hit")
		return nil
	}
	fmt.Printf("hit %s\n", formatVec3(hit))
	return nil
}

func cmdList(cfg *config.Config, _ []string) error {
	if len(cfg.Surfaces) == 0 {
		fmt.Fprintln(os.Stderr, "(no surfaces configured)")
		return nil
	}
	for _, s := range cfg.Surfaces {
		source := s.File
		if source == "" {
			source = "inline"
		}
		fmt.Printf("%-20s %s\n", s.Name, source)
	}
	return nil
}

func cmdExport(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", cfg.Export.Format, "Output format: glb, gltf, obj or json")
	outDir := fs.String("o", cfg.Export.OutputDir, "Output directory")
	fs.Parse(args)

	f, err := meshio.ParseFormat(*format)
	if err != nil {
		return err
	}
	c, err := catalog.FromConfig(cfg.Surfaces)
	if err != nil {
		return err
	}

	names := fs.Args()
	if len(names) == 0 {
		names = c.Names()
	}
	if len(names) == 0 {
		return fmt.Errorf("no surfaces to export")
	}

	for _, name := range names {
		e, err := c.Get(name)
		if err != nil {
			return err
		}
		path := filepath.Join(*outDir, name+"."+string(f))
		if err := meshio.Save(path, e.Mesh(cfg.Export.TexcoordColors), name); err != nil {
			return err
		}
		fmt.Println(path)
	}
	logger.Info("export complete", zap.Int("surfaces", len(names)), zap.String("dir", *outDir))
	return nil
}

func cmdServe(cfg *config.Config, _ []string) error {
	c, err := catalog.FromConfig(cfg.Surfaces)
	if err != nil {
		return err
	}
	if c.Len() == 0 {
		logger.Warn("no surfaces configured, only POST /mesh is useful")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(c, cfg.Server).ListenAndServe(ctx)
}

func cmdView(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: surfacetool view <surface>")
	}
	e, err := openSurface(cfg, args[0])
	if err != nil {
		return err
	}
	v := preview.NewViewer(cfg.Preview, e.Mesh)
	return v.Run(fmt.Sprintf("%s (%s)", e.Name, e.Geometry.Kind()), cfg.Export.OutputDir)
}

func cmdSnapshot(cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: surfacetool snapshot <surface> <out.png>")
	}
	e, err := openSurface(cfg, args[0])
	if err != nil {
		return err
	}
	return preview.NewViewer(cfg.Preview, e.Mesh).Snapshot(args[1])
}
