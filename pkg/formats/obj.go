package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrInvalidOBJ   = errors.New("invalid OBJ data")
	ErrOBJNoFaces   = errors.New("OBJ has no faces")
	ErrOBJBadVertex = errors.New("OBJ face references missing vertex")
)

// objKey identifies one unique v/vt/vn combination.
type objKey struct {
	v, vt, vn int
}

// objParser accumulates OBJ state while reading lines.
type objParser struct {
	positions [][3]float32
	texcoords [][2]float32
	normals   [][3]float32

	mesh      *TriMesh
	lookup    map[objKey]uint32
	hasNormal bool
	hasUV     bool
}

// ParseOBJ parses Wavefront OBJ text. Polygons are fan-triangulated;
// materials, groups and smoothing statements are ignored.
func ParseOBJ(data []byte) (*TriMesh, error) {
	return ReadOBJ(bytes.NewReader(data))
}

// LoadOBJ reads and parses an OBJ file.
func LoadOBJ(path string) (*TriMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ: %w", err)
	}
	defer f.Close()

	m, err := ReadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadOBJ parses OBJ text from r.
func ReadOBJ(r io.Reader) (*TriMesh, error) {
	p := &objParser{
		mesh:      &TriMesh{},
		lookup:    make(map[objKey]uint32),
		hasNormal: true,
		hasUV:     true,
	}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		if err := p.parseLine(strings.Fields(text)); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	if len(p.mesh.Indices) == 0 {
		return nil, ErrOBJNoFaces
	}
	if !p.hasNormal {
		p.mesh.Normals = nil
	}
	if !p.hasUV {
		p.mesh.TexCoords = nil
	}
	return p.mesh, nil
}

func (p *objParser) parseLine(fields []string) error {
	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, [3]float32{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(fields[1:], 2)
		if err != nil {
			return err
		}
		p.texcoords = append(p.texcoords, [2]float32{v[0], v[1]})
	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, [3]float32{v[0], v[1], v[2]})
	case "f":
		return p.parseFace(fields[1:])
	}
	return nil
}

func (p *objParser) parseFace(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("%w: face with %d vertices", ErrInvalidOBJ, len(refs))
	}

	corners := make([]uint32, len(refs))
	for i, ref := range refs {
		idx, err := p.vertex(ref)
		if err != nil {
			return err
		}
		corners[i] = idx
	}

	for i := 1; i+1 < len(corners); i++ {
		p.mesh.Indices = append(p.mesh.Indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// vertex resolves a "v", "v/vt", "v//vn" or "v/vt/vn" reference to a
// mesh vertex index, creating the vertex on first use.
func (p *objParser) vertex(ref string) (uint32, error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: vertex reference %q", ErrInvalidOBJ, ref)
	}

	var key objKey
	var err error
	if key.v, err = resolveIndex(parts[0], len(p.positions)); err != nil {
		return 0, err
	}
	key.vt, key.vn = -1, -1
	if len(parts) > 1 && parts[1] != "" {
		if key.vt, err = resolveIndex(parts[1], len(p.texcoords)); err != nil {
			return 0, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if key.vn, err = resolveIndex(parts[2], len(p.normals)); err != nil {
			return 0, err
		}
	}

	if idx, ok := p.lookup[key]; ok {
		return idx, nil
	}

	m := p.mesh
	idx := uint32(len(m.Positions))
	m.Positions = append(m.Positions, p.positions[key.v])

	var uv [2]float32
	if key.vt >= 0 {
		uv = p.texcoords[key.vt]
	} else {
		p.hasUV = false
	}
	m.TexCoords = append(m.TexCoords, uv)

	var n [3]float32
	if key.vn >= 0 {
		n = p.normals[key.vn]
	} else {
		p.hasNormal = false
	}
	m.Normals = append(m.Normals, n)

	p.lookup[key] = idx
	return idx, nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index.
func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrInvalidOBJ, s)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, fmt.Errorf("%w: index 0", ErrInvalidOBJ)
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("%w: %s of %d", ErrOBJBadVertex, s, count)
	}
	return i, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%w: expected %d components, got %d", ErrInvalidOBJ, n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOBJ, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}
