package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/dtr-datecode/internal/datecode"
	"github.com/couchcryptid/dtr-datecode/internal/domain"
	"github.com/couchcryptid/dtr-datecode/internal/observability"
)

// CodeHandler serves the encode and decode endpoints.
type CodeHandler struct {
	codec   *datecode.Codec
	decoder domain.Decoder
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCodeHandler wires the API to a clock-bound codec and a decoder (usually
// the cached one). A nil decoder decodes directly.
func NewCodeHandler(codec *datecode.Codec, decoder domain.Decoder, metrics *observability.Metrics, logger *slog.Logger) *CodeHandler {
	if decoder == nil {
		decoder = domain.CodeDecoder{}
	}
	return &CodeHandler{codec: codec, decoder: decoder, metrics: metrics, logger: logger}
}

// Register mounts the /v1/codes routes on r.
func (h *CodeHandler) Register(r chi.Router) {
	r.Route("/v1/codes", func(r chi.Router) {
		r.Get("/{kind}", h.handleEncode)
		r.Get("/{code}/dates", h.handleDecode)
	})
}

// handleEncode returns the code for a conveyance kind at ?at= (RFC 3339) or now.
func (h *CodeHandler) handleEncode(w http.ResponseWriter, r *http.Request) {
	kind, err := datecode.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}

	at, ok := h.timeParam(w, r, "at")
	if !ok {
		return
	}

	code := datecode.Encode(kind, at)
	if h.metrics != nil {
		h.metrics.CodesEncoded.WithLabelValues(kind.String()).Inc()
	}
	writeJSON(w, http.StatusOK, domain.CurrentCode{Kind: kind, Code: code, At: at})
}

// handleDecode returns every candidate date for a code relative to ?now= or
// the current time. ?kind= forces the conveyance instead of shape sniffing.
func (h *CodeHandler) handleDecode(w http.ResponseWriter, r *http.Request) {
	req := domain.DecodeRequest{
		Code: chi.URLParam(r, "code"),
		Kind: r.URL.Query().Get("kind"),
	}

	now, ok := h.timeParam(w, r, "now")
	if !ok {
		return
	}
	req.ReferenceTime = &now

	start := time.Now()
	res, err := domain.ResolveRequest(req, h.decoder)
	if h.metrics != nil {
		h.metrics.ObserveDecode(domain.KindLabel(req, res, err), len(res.Candidates), time.Since(start).Seconds(), err)
	}
	if err != nil {
		h.logger.Debug("decode rejected", "code", req.Code, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// timeParam reads an RFC 3339 query parameter, defaulting to the codec clock.
// The offset in the value decides the local day for Surface and Ocean codes.
func (h *CodeHandler) timeParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return h.codec.Now(), true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid " + name + ": " + err.Error(),
			"reason": "invalid_time",
		})
		return time.Time{}, false
	}
	return t, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	reason := datecode.Reason(err)
	if reason == "internal" {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{
		"error":  err.Error(),
		"reason": reason,
	})
}
