package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/surfacegeom/internal/catalog"
	"github.com/Faultbox/surfacegeom/pkg/math"
	"github.com/Faultbox/surfacegeom/pkg/meshio"
	"github.com/Faultbox/surfacegeom/pkg/surface"
)

// errBadRequest marks request parameter problems.
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

type vec3JSON struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

type vec2JSON struct {
	U float32 `json:"u"`
	V float32 `json:"v"`
}

func toVec3JSON(v math.Vec3) vec3JSON {
	return vec3JSON{X: v.X, Y: v.Y, Z: v.Z}
}

func (v vec3JSON) vec3() math.Vec3 {
	return math.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	buf, err := json.Marshal(v)
	if err != nil {
		s.writeError(w, errors.Wrapf(err, "Failed to marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf); err != nil {
		s.log.Debug("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	buf, _ := json.Marshal(errorResponse{Error: err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, surface.ErrInvalidConfig),
		errors.Is(err, surface.ErrUnknownModel),
		errors.Is(err, surface.ErrDegenerate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeFile sends encoded mesh bytes with download headers.
func writeFile(w http.ResponseWriter, f meshio.Format, name string, data []byte) error {
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"."+string(f)+"\"")
	_, err := w.Write(data)
	return err
}

// queryFloat reads a required float query parameter.
func queryFloat(r *http.Request, key string) (float32, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, errors.Wrapf(errBadRequest, "missing parameter %s", key)
	}
	f, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "parameter %s: %q is not a number", key, raw)
	}
	return float32(f), nil
}

// queryBool treats "1", "true", "yes" and "on" as true.
func queryBool(r *http.Request, key string) bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// queryFormat reads the mesh format parameter, defaulting to GLB.
func queryFormat(r *http.Request) (meshio.Format, error) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		return meshio.FormatGLB, nil
	}
	f, err := meshio.ParseFormat(raw)
	if err != nil {
		return "", errors.Wrapf(errBadRequest, "%v", err)
	}
	return f, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(errBadRequest, "decoding body: %v", err)
	}
	return nil
}
