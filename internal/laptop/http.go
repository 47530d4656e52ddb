package laptop

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"PCBook/pkg/kit"
)

const (
	maxBodyBytes        = 1 << 20
	DefaultMaxImageSize = 1 << 20
	readyTimeout        = 1 * time.Second
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Server struct {
	Store   Store
	Ratings RatingStore
	Images  ImageStore
	Log     *zap.Logger
	Metrics *Metrics

	MaxImageSize int64
}

type createReq struct {
	Laptop *Laptop `json:"laptop"`
}

type createResp struct {
	ID string `json:"id"`
}

type searchResp struct {
	Laptop *Laptop `json:"laptop"`
}

type rateReq struct {
	LaptopID string  `json:"laptop_id"`
	Score    float64 `json:"score"`
}

type rateResp struct {
	LaptopID     string  `json:"laptop_id"`
	RatedCount   uint32  `json:"rated_count"`
	AverageScore float64 `json:"average_score"`
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if req.Laptop == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "laptop required", nil)
		return
	}

	l := req.Laptop
	if l.ID == "" {
		l.ID = uuid.NewString()
	} else if _, err := uuid.Parse(l.ID); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "laptop id is not a valid UUID", map[string]any{"id": l.ID})
		return
	}
	if msg := validateLaptop(l); msg != "" {
		kit.WriteError(w, r, http.StatusBadRequest, msg, map[string]any{"id": l.ID})
		return
	}

	if err := r.Context().Err(); err != nil {
		s.Log.Info("create cancelled before save", zap.String("laptop_id", l.ID), zap.Error(err))
		kit.WriteError(w, r, http.StatusGatewayTimeout, "request cancelled", nil)
		return
	}

	if err := s.Store.Save(r.Context(), l); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			kit.WriteError(w, r, http.StatusConflict, err.Error(), map[string]any{"id": l.ID})
			return
		}
		s.Log.Error("save laptop failed", zap.Error(err), zap.String("laptop_id", l.ID))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	s.Metrics.Created.Inc()
	s.Log.Info("laptop created", zap.String("laptop_id", l.ID))
	kit.WriteJSON(w, http.StatusCreated, createResp{ID: l.ID})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	l, ok, err := s.Store.Find(r.Context(), id)
	if err != nil {
		s.Log.Error("find laptop failed", zap.Error(err), zap.String("laptop_id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, l)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var f Filter
	if err := decodeJSON(w, r, &f); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	ctx := r.Context()
	stream := kit.NewStream(w)
	matches := 0

	err := s.Store.Search(ctx, &f, func(l *Laptop) error {
		if err := stream.Send(searchResp{Laptop: l}); err != nil {
			return err
		}
		matches++
		s.Metrics.SearchMatches.Inc()
		return nil
	})

	switch {
	case err != nil:
		s.Metrics.Searches.WithLabelValues(outcomeFailed).Inc()
		s.Log.Warn("search stream failed", zap.Error(err), zap.Int("matches", matches))
		stream.Fail(r, http.StatusInternalServerError, "search failed", nil)
		return
	case ctx.Err() != nil:
		s.Metrics.Searches.WithLabelValues(outcomeCancelled).Inc()
		s.Log.Info("search cancelled", zap.Int("matches", matches))
		return
	}

	s.Metrics.Searches.WithLabelValues(outcomeCompleted).Inc()
	if !stream.Started() {
		w.Header().Set("Content-Type", kit.ContentTypeNDJSON)
		w.WriteHeader(http.StatusOK)
	}
}

// rate folds a stream of scores into laptop ratings and answers each one
// with the updated aggregate, in request order.
func (s *Server) rate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stream := kit.NewStream(w)
	if err := stream.EnableFullDuplex(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.Log.Warn("enable full duplex failed", zap.Error(err))
	}

	dec := json.NewDecoder(r.Body)
	for {
		var req rateReq
		err := dec.Decode(&req)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				s.Log.Info("rating stream cancelled", zap.Error(ctx.Err()))
				return
			}
			stream.Fail(r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
			return
		}

		if math.IsNaN(req.Score) || math.IsInf(req.Score, 0) {
			stream.Fail(r, http.StatusBadRequest, "score must be a finite number", map[string]any{"laptop_id": req.LaptopID})
			return
		}

		_, found, err := s.Store.Find(ctx, req.LaptopID)
		if err != nil {
			s.Log.Error("find laptop failed", zap.Error(err), zap.String("laptop_id", req.LaptopID))
			stream.Fail(r, http.StatusInternalServerError, "server error", nil)
			return
		}
		if !found {
			stream.Fail(r, http.StatusNotFound, ErrLaptopNotFound.Error(), map[string]any{"laptop_id": req.LaptopID})
			return
		}

		rating, err := s.Ratings.Add(ctx, req.LaptopID, req.Score)
		if err != nil {
			s.Log.Error("add rating failed", zap.Error(err), zap.String("laptop_id", req.LaptopID))
			stream.Fail(r, http.StatusInternalServerError, "server error", nil)
			return
		}
		s.Metrics.Ratings.Inc()

		if err := stream.Send(rateResp{
			LaptopID:     req.LaptopID,
			RatedCount:   rating.Count,
			AverageScore: rating.Average,
		}); err != nil {
			s.Log.Warn("send rating failed", zap.Error(err), zap.String("laptop_id", req.LaptopID))
			return
		}
	}

	if !stream.Started() {
		w.Header().Set("Content-Type", kit.ContentTypeNDJSON)
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) getRating(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	_, found, err := s.Store.Find(r.Context(), id)
	if err != nil {
		s.Log.Error("find laptop failed", zap.Error(err), zap.String("laptop_id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	// a laptop nobody rated yet reports a zero count
	rating, _, err := s.Ratings.Get(r.Context(), id)
	if err != nil {
		s.Log.Error("get rating failed", zap.Error(err), zap.String("laptop_id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, rateResp{LaptopID: id, RatedCount: rating.Count, AverageScore: rating.Average})
}

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ext, ok := imageExtensions[r.Header.Get("Content-Type")]
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "unsupported image type",
			map[string]any{"content_type": r.Header.Get("Content-Type")})
		return
	}

	_, found, err := s.Store.Find(r.Context(), id)
	if err != nil {
		s.Log.Error("find laptop failed", zap.Error(err), zap.String("laptop_id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	info, err := s.Images.Save(r.Context(), id, ext, r.Body, s.MaxImageSize)
	if err != nil {
		if errors.Is(err, ErrImageTooLarge) {
			kit.WriteError(w, r, http.StatusRequestEntityTooLarge, err.Error(), map[string]any{"max_size": s.MaxImageSize})
			return
		}
		s.Log.Error("save image failed", zap.Error(err), zap.String("laptop_id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	s.Metrics.ImageBytes.Add(float64(info.Size))
	s.Log.Info("image stored",
		zap.String("laptop_id", id),
		zap.String("image_id", info.ID),
		zap.Int64("size", info.Size))
	kit.WriteJSON(w, http.StatusCreated, info)
}

// validateLaptop checks the fields the catalog indexes on. It returns an
// empty string when l is acceptable.
func validateLaptop(l *Laptop) string {
	switch {
	case math.IsNaN(l.PriceUsd) || math.IsInf(l.PriceUsd, 0) || l.PriceUsd < 0:
		return "price_usd must be a non-negative number"
	case l.CPU.NumberCores == 0:
		return "cpu.number_cores must be positive"
	case !(l.CPU.MinGhz > 0) || math.IsInf(l.CPU.MinGhz, 0):
		return "cpu.min_ghz must be positive"
	case l.RAM.Unit == "" || ToBit(1, l.RAM.Unit) == 0:
		return "ram.unit is not a known memory unit"
	}
	return ""
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}
