package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vearutop/photoenhance"
	"github.com/vearutop/photoenhance/internal/metrics"
)

type presetJSON struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Brightness  float64 `json:"brightness"`
	Contrast    float64 `json:"contrast"`
	Warmth      float64 `json:"warmth"`
	Saturation  float64 `json:"saturation"`
}

func toPresetJSON(p photoenhance.Preset) presetJSON {
	return presetJSON{
		Name:        p.Name,
		Slug:        p.Slug(),
		Description: p.Description,
		Brightness:  p.Brightness,
		Contrast:    p.Contrast,
		Warmth:      p.Warmth,
		Saturation:  p.Saturation,
	}
}

type enhanceResponse struct {
	ID          string `json:"id"`
	Preset      string `json:"preset"`
	Format      string `json:"format"`
	Quality     int    `json:"quality,omitempty"`
	SrcWidth    int    `json:"srcWidth"`
	SrcHeight   int    `json:"srcHeight"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int    `json:"size"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"downloadUrl"`
	PreviewURL  string `json:"previewUrl"`
}

type previewJSON struct {
	presetJSON
	DataURL string `json:"dataUrl"`
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(page); err != nil {
		s.log.Errorf("writing index: %s", err)
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) presets(w http.ResponseWriter, _ *http.Request) {
	presets := photoenhance.Presets()
	out := make([]presetJSON, 0, len(presets))
	for _, p := range presets {
		out = append(out, toPresetJSON(p))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// readUpload returns the bytes of the "image" multipart file.
func (s *Server) readUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		return nil, badRequest("parse form: %w", err)
	}

	f, _, err := r.FormFile("image")
	if err != nil {
		return nil, badRequest("image file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return data, nil
}

func (s *Server) enhanceOptions(r *http.Request) (func(o *photoenhance.EnhanceOptions), error) {
	format := s.cfg.OutputFormat()
	if v := r.FormValue("format"); v != "" {
		f, err := photoenhance.ParseFormat(v)
		if err != nil {
			return nil, badRequest("format %q: %w", v, err)
		}
		format = f
	}

	quality := s.cfg.Quality
	if v := r.FormValue("quality"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 100 {
			return nil, badRequest("quality must be an integer within 1-100, got %q", v)
		}
		quality = q
	}

	return func(o *photoenhance.EnhanceOptions) {
		o.Format = format
		o.Quality = quality
		o.MaxDimension = s.cfg.MaxDimension
		o.MaxPixels = s.cfg.MaxPixels
		o.KeepMetadata = s.cfg.KeepMetadata
	}, nil
}

func (s *Server) enhance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	data, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts, err := s.enhanceOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	preset := photoenhance.PresetByName(r.FormValue("preset"))

	res, err := photoenhance.Enhance(r.Context(), data, preset.Name, opts)
	if err != nil {
		s.observe(preset.Name, outcomeOf(err), time.Since(start), 0, 0)
		s.writeError(w, err)
		return
	}

	entry := s.results.Put(res)
	s.observe(preset.Name, metrics.OutcomeOK, time.Since(start), res.Width, res.Height)
	if s.metrics != nil {
		s.metrics.SetCached(s.results.Len())
	}

	s.log.Debugf("enhanced %s %dx%d with %s into %s %dx%d (%d bytes)",
		res.SrcFormat, res.SrcWidth, res.SrcHeight, preset.Name, res.Format, res.Width, res.Height, len(res.Data))

	s.writeJSON(w, http.StatusOK, enhanceResponse{
		ID:          entry.ID,
		Preset:      res.Preset.Name,
		Format:      res.Format.String(),
		Quality:     res.Quality,
		SrcWidth:    res.SrcWidth,
		SrcHeight:   res.SrcHeight,
		Width:       res.Width,
		Height:      res.Height,
		Size:        len(res.Data),
		Filename:    res.Filename(),
		DownloadURL: "/api/results/" + entry.ID,
		PreviewURL:  "/api/results/" + entry.ID + "/preview",
	})
}

func (s *Server) observe(preset, outcome string, elapsed time.Duration, width, height int) {
	if s.metrics != nil {
		s.metrics.ObserveEnhance(preset, outcome, elapsed, width, height)
	}
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	e, err := s.results.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	res := e.Result
	w.Header().Set("Content-Type", res.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename()))
	http.ServeContent(w, r, res.Filename(), e.Created, bytes.NewReader(res.Data))
}

func (s *Server) resultPreview(w http.ResponseWriter, r *http.Request) {
	e, err := s.results.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	img, _, err := photoenhance.Decode(bytes.NewReader(e.Result.Data))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := photoenhance.Encode(&buf, photoenhance.Thumbnail(img, resultPreviewSize, resultPreviewSize), photoenhance.FormatPNG, 0); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", photoenhance.FormatPNG.ContentType())
	w.Header().Set("Cache-Control", "max-age=300")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Errorf("writing preview: %s", err)
	}
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	data, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	size := uint(0)
	if v := r.FormValue("size"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 || n > maxPreviewSize {
			s.writeError(w, badRequest("size must be within 1-%d, got %q", maxPreviewSize, v))
			return
		}
		size = uint(n)
	}

	img, err := s.decodeLimited(data)
	if err != nil {
		s.writeError(w, err)
		return
	}

	previews, err := photoenhance.PreviewPresets(r.Context(), img, size)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]previewJSON, 0, len(previews))
	for _, p := range previews {
		var buf bytes.Buffer
		if err := photoenhance.Encode(&buf, p.Image, photoenhance.FormatPNG, 0); err != nil {
			s.writeError(w, err)
			return
		}
		out = append(out, previewJSON{
			presetJSON: toPresetJSON(p.Preset),
			DataURL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		})
	}

	s.writeJSON(w, http.StatusOK, out)
}

// decodeLimited decodes data after checking the header against the pixel limit.
func (s *Server) decodeLimited(data []byte) (image.Image, error) {
	info, err := photoenhance.Inspect(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if info.Pixels() > s.cfg.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", photoenhance.ErrImageTooLarge, info.Width, info.Height)
	}

	img, _, err := photoenhance.Decode(bytes.NewReader(data))

	return img, err
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("writing JSON response: %s", err)
	}
}
