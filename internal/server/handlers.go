package server

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/surfacegeom/internal/catalog"
	"github.com/Faultbox/surfacegeom/pkg/math"
	"github.com/Faultbox/surfacegeom/pkg/meshio"
	"github.com/Faultbox/surfacegeom/pkg/surface"
)

type surfaceSummary struct {
	Name   string `json:"name"`
	Model  string `json:"model"`
	Source string `json:"source"`
}

type meshStats struct {
	Vertices   int      `json:"vertices"`
	Primitives int      `json:"primitives"`
	Triangles  int      `json:"triangles"`
	BoundsMin  vec3JSON `json:"bounds_min"`
	BoundsMax  vec3JSON `json:"bounds_max"`
}

type surfaceInfo struct {
	surfaceSummary
	Config map[string]any `json:"config"`
	Center *vec3JSON      `json:"center,omitempty"`
	Mesh   meshStats      `json:"mesh"`
}

type worldResponse struct {
	Position vec3JSON `json:"position"`
	Normal   vec3JSON `json:"normal"`
}

type intersectRequest struct {
	From vec3JSON `json:"from"`
	To   vec3JSON `json:"to"`
}

type intersectResponse struct {
	Hit      bool      `json:"hit"`
	Position *vec3JSON `json:"position,omitempty"`
	Texcoord *vec2JSON `json:"texcoord,omitempty"`
}

func summarize(e *catalog.Entry) surfaceSummary {
	return surfaceSummary{Name: e.Name, Model: e.Geometry.Kind().String(), Source: e.Source}
}

func (s *Server) entry(r *http.Request) (*catalog.Entry, error) {
	return s.catalog.Get(mux.Vars(r)["name"])
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names := s.catalog.Names()
	list := make([]surfaceSummary, 0, len(names))
	for _, name := range names {
		e, err := s.catalog.Get(name)
		if err != nil {
			// removed concurrently
			continue
		}
		list = append(list, summarize(e))
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	m := e.Mesh(false)
	b := m.Bounds()
	info := surfaceInfo{
		surfaceSummary: summarize(e),
		Config:         e.Geometry.Config().Document(),
		Mesh: meshStats{
			Vertices:   m.VertexCount(),
			Primitives: len(m.Primitives),
			Triangles:  len(m.Triangles()) / 3,
			BoundsMin:  toVec3JSON(b.Min),
			BoundsMax:  toVec3JSON(b.Max),
		},
	}
	if c, ok := e.Geometry.Model().(surface.Centerer); ok {
		center := toVec3JSON(c.Center())
		info.Center = &center
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleMesh(w http.ResponseWriter, r *http.Request) {
	format, err := queryFormat(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	colors := queryBool(r, "colors")

	name := mux.Vars(r)["name"]
	key := string(format)
	if colors {
		key += "+colors"
	}
	data, err := s.catalog.Encoded(name, key, func(e *catalog.Entry) ([]byte, error) {
		var buf bytes.Buffer
		if err := meshio.Write(&buf, format, e.Mesh(colors), e.Name); err != nil {
			return nil, errors.Wrapf(err, "Failed to encode %s as %s", e.Name, format)
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := writeFile(w, format, name, data); err != nil {
		s.log.Debug("write mesh", zap.String("name", name), zap.Error(err))
	}
}

func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	u, err := queryFloat(r, "u")
	if err != nil {
		s.writeError(w, err)
		return
	}
	v, err := queryFloat(r, "v")
	if err != nil {
		s.writeError(w, err)
		return
	}

	tc := math.Vec2{X: u, Y: v}
	model := e.Geometry.Model()
	pos := model.TexcoordToWorld(tc)
	if pos.IsNaN() {
		s.writeError(w, errors.Wrapf(errBadRequest, "texcoord (%g, %g) is not on %s", u, v, e.Name))
		return
	}
	s.writeJSON(w, http.StatusOK, worldResponse{
		Position: toVec3JSON(pos),
		Normal:   toVec3JSON(model.TexcoordToNormal(tc)),
	})
}

func (s *Server) handleTexcoord(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	inv, ok := e.Geometry.Model().(surface.Inverter)
	if !ok {
		s.writeError(w, errors.Wrapf(errBadRequest, "%s does not support inverse mapping", e.Geometry.Kind()))
		return
	}

	var p [3]float32
	for i, key := range []string{"x", "y", "z"} {
		if p[i], err = queryFloat(r, key); err != nil {
			s.writeError(w, err)
			return
		}
	}
	tc, ok := inv.WorldToTexcoord(math.Vec3{X: p[0], Y: p[1], Z: p[2]})
	if !ok {
		s.writeError(w, errors.Wrapf(errBadRequest, "point has no texcoord on %s", e.Name))
		return
	}
	s.writeJSON(w, http.StatusOK, vec2JSON{U: tc.X, V: tc.Y})
}

func (s *Server) handleIntersect(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	isect, ok := e.Geometry.Model().(surface.Intersector)
	if !ok {
		s.writeError(w, errors.Wrapf(errBadRequest, "%s does not support ray intersection", e.Geometry.Kind()))
		return
	}

	var req intersectRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	resp := intersectResponse{}
	if hit, ok := isect.FirstSurface(req.From.vec3(), req.To.vec3()); ok {
		pos := toVec3JSON(hit)
		resp.Hit = true
		resp.Position = &pos
		if inv, ok := e.Geometry.Model().(surface.Inverter); ok {
			if tc, ok := inv.WorldToTexcoord(hit); ok {
				resp.Texcoord = &vec2JSON{U: tc.X, V: tc.Y}
			}
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleBuildMesh tessellates geometry posted in the request body without
// registering it. File-backed models are refused so clients cannot read
// server paths.
func (s *Server) handleBuildMesh(w http.ResponseWriter, r *http.Request) {
	format, err := queryFormat(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxGeometryBody))
	if err != nil {
		s.writeError(w, errors.Wrapf(errBadRequest, "reading body: %v", err))
		return
	}
	cfg, err := surface.ParseConfig(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if cfg.Model == surface.KindFromFile {
		s.writeError(w, errors.Wrapf(errBadRequest, "model %s is not accepted over HTTP", cfg.Model))
		return
	}
	g, err := surface.NewFromConfig(cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := meshio.Write(&buf, format, g.BuildMesh(queryBool(r, "colors")), "surface"); err != nil {
		s.writeError(w, errors.Wrapf(err, "Failed to encode mesh"))
		return
	}
	if err := writeFile(w, format, "surface", buf.Bytes()); err != nil {
		s.log.Debug("write mesh", zap.Error(err))
	}
}
