package surface

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Faultbox/surfacegeom/pkg/math"
)

// CylinderParams configures a Cylinder.
type CylinderParams struct {
	Radius float64
	Base   math.Vec3
	Axis   math.Vec3
}

// SphereParams configures a Sphere.
type SphereParams struct {
	Radius float64
	Center math.Vec3
}

// RectangleParams configures a PlanarRectangle.
type RectangleParams struct {
	LowerLeft  math.Vec3
	UpperLeft  math.Vec3
	LowerRight math.Vec3
}

// FileParams configures an Arbitrary surface.
type FileParams struct {
	Filename  string
	Precision float64
}

// Config is a validated surface description. Exactly the params pointer
// matching Model is set.
type Config struct {
	Model     Kind
	Cylinder  *CylinderParams
	Sphere    *SphereParams
	Rectangle *RectangleParams
	File      *FileParams
}

// ParseConfig parses a JSON surface description. The document may also be
// a JSON string holding the encoded object.
func ParseConfig(data []byte) (*Config, error) {
	doc, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	if s, ok := doc.(string); ok {
		if doc, err = decodeJSON([]byte(s)); err != nil {
			return nil, err
		}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &FieldError{Field: "document", Expected: "object"}
	}
	return ParseConfigValue(obj)
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("%w: could not load json line %d: %v",
				ErrInvalidConfig, lineOf(data, syntaxErr.Offset), err)
		}
		return nil, fmt.Errorf("%w: could not load json: %v", ErrInvalidConfig, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after json document", ErrInvalidConfig)
	}
	return doc, nil
}

// lineOf returns the 1-based line of a byte offset.
func lineOf(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}

// ParseConfigValue validates an already decoded document. Numbers may be
// any Go numeric type or json.Number, so values decoded by encoding/json
// and by YAML decoders are both accepted.
func ParseConfigValue(v map[string]any) (*Config, error) {
	raw, ok := v["model"]
	if !ok {
		return nil, &FieldError{Field: "model", Expected: "string"}
	}
	name, ok := raw.(string)
	if !ok {
		return nil, &FieldError{Field: "model", Expected: "string"}
	}
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}

	p := fieldParser{model: name, obj: v}
	cfg := &Config{Model: kind}
	switch kind {
	case KindCylinder:
		c := &CylinderParams{}
		if c.Radius, err = p.number("radius"); err != nil {
			return nil, err
		}
		if c.Base, err = p.vec3("base"); err != nil {
			return nil, err
		}
		if c.Axis, err = p.vec3("axis"); err != nil {
			return nil, err
		}
		cfg.Cylinder = c
	case KindSphere:
		s := &SphereParams{}
		if s.Radius, err = p.number("radius"); err != nil {
			return nil, err
		}
		if s.Center, err = p.vec3("center"); err != nil {
			return nil, err
		}
		cfg.Sphere = s
	case KindPlanarRectangle:
		r := &RectangleParams{}
		if r.LowerLeft, err = p.vec3("lowerleft"); err != nil {
			return nil, err
		}
		if r.UpperLeft, err = p.vec3("upperleft"); err != nil {
			return nil, err
		}
		if r.LowerRight, err = p.vec3("lowerright"); err != nil {
			return nil, err
		}
		cfg.Rectangle = r
	case KindFromFile:
		f := &FileParams{Precision: DefaultPrecision}
		if f.Filename, err = p.str("filename"); err != nil {
			return nil, err
		}
		if _, present := v["precision"]; present {
			if f.Precision, err = p.number("precision"); err != nil {
				return nil, err
			}
		}
		cfg.File = f
	}
	return cfg, nil
}

// Build constructs the configured model.
func (c *Config) Build() (Model, error) {
	switch c.Model {
	case KindCylinder:
		return NewCylinder(c.Cylinder.Radius, c.Cylinder.Base, c.Cylinder.Axis)
	case KindSphere:
		return NewSphere(c.Sphere.Radius, c.Sphere.Center)
	case KindPlanarRectangle:
		r := c.Rectangle
		return NewPlanarRectangle(r.LowerLeft, r.UpperLeft, r.LowerRight)
	case KindFromFile:
		return LoadArbitrary(c.File.Filename, c.File.Precision)
	default:
		return nil, fmt.Errorf("%w %s", ErrUnknownModel, c.Model)
	}
}

// ResolveRelative makes a relative from_file filename relative to dir.
func (c *Config) ResolveRelative(dir string) {
	if c.File != nil && !filepath.IsAbs(c.File.Filename) {
		c.File.Filename = filepath.Join(dir, c.File.Filename)
	}
}

// Document returns the configuration in its JSON document form.
func (c *Config) Document() map[string]any {
	doc := map[string]any{"model": c.Model.String()}
	switch c.Model {
	case KindCylinder:
		doc["radius"] = c.Cylinder.Radius
		doc["base"] = vec3Document(c.Cylinder.Base)
		doc["axis"] = vec3Document(c.Cylinder.Axis)
	case KindSphere:
		doc["radius"] = c.Sphere.Radius
		doc["center"] = vec3Document(c.Sphere.Center)
	case KindPlanarRectangle:
		doc["lowerleft"] = vec3Document(c.Rectangle.LowerLeft)
		doc["upperleft"] = vec3Document(c.Rectangle.UpperLeft)
		doc["lowerright"] = vec3Document(c.Rectangle.LowerRight)
	case KindFromFile:
		doc["filename"] = c.File.Filename
		doc["precision"] = c.File.Precision
	}
	return doc
}

// MarshalJSON encodes the document form.
func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Document())
}

func vec3Document(v math.Vec3) map[string]any {
	return map[string]any{"x": float64(v.X), "y": float64(v.Y), "z": float64(v.Z)}
}

// fieldParser reads typed fields out of one decoded object.
type fieldParser struct {
	model  string
	prefix string
	obj    map[string]any
}

func (p fieldParser) fail(key, expected string) error {
	return &FieldError{Model: p.model, Field: p.prefix + key, Expected: expected}
}

func (p fieldParser) number(key string) (float64, error) {
	f, ok := toFloat(p.obj[key])
	if !ok {
		return 0, p.fail(key, "number")
	}
	return f, nil
}

func (p fieldParser) str(key string) (string, error) {
	s, ok := p.obj[key].(string)
	if !ok {
		return "", p.fail(key, "string")
	}
	return s, nil
}

func (p fieldParser) vec3(key string) (math.Vec3, error) {
	obj, ok := p.obj[key].(map[string]any)
	if !ok {
		return math.Vec3{}, p.fail(key, "object")
	}
	sub := fieldParser{model: p.model, prefix: p.prefix + key + ".", obj: obj}

	var c [3]float64
	for i, axis := range []string{"x", "y", "z"} {
		f, err := sub.number(axis)
		if err != nil {
			return math.Vec3{}, err
		}
		c[i] = f
	}
	return math.Vec3From64(c[0], c[1], c[2]), nil
}

// toFloat accepts every numeric type a JSON or YAML decoder produces.
// Booleans and strings are not numbers.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
