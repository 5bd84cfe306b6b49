package nametag_api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-nametags/internal/logger"
	"ms-nametags/internal/models"
	nametags "ms-nametags/internal/nametags/service"
	"ms-nametags/internal/prompt"
	"ms-nametags/internal/utils"
)

type Handler struct {
	NametagService *nametags.NametagService
	Logger         *logger.Logger
	MaxUploadBytes int64
}

func NewHandler(svc *nametags.NametagService, log *logger.Logger, maxUploadBytes int64) *Handler {
	return &Handler{NametagService: svc, Logger: log, MaxUploadBytes: maxUploadBytes}
}

// requestDecider answers dialogs from what the client sent. A request that
// carries no name cancels the prompt.
type requestDecider struct {
	confirm bool
	name    *string
}

func (d requestDecider) Confirm(string) bool { return d.confirm }

func (d requestDecider) PromptText(string, string) (string, bool) {
	if d.name == nil {
		return "", false
	}
	return *d.name, true
}

var _ prompt.Decider = requestDecider{}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

type nameRequest struct {
	Name *string `json:"name"`
}

// nameDecider reads {"name": "..."} from the body, falling back to ?name=.
func nameDecider(r *http.Request) (requestDecider, error) {
	var body nameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return requestDecider{}, err
		}
	}
	if body.Name == nil && r.URL.Query().Has("name") {
		n := r.URL.Query().Get("name")
		body.Name = &n
	}
	return requestDecider{name: body.Name}, nil
}

// writeError maps service errors onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrUnknownField):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNothingSelected), errors.Is(err, models.ErrNothingToExport):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.Logger.Error("API", err.Error())
	}
	utils.WriteJSON(w, status, utils.ErrorResponse(http.StatusText(status), err.Error()))
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Bad Request", msg))
}

// GetState returns the whole editor state.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	snap := h.NametagService.Snapshot()
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("state", struct {
		models.AppState
		SelectedCount int `json:"selectedCount"`
	}{snap, snap.SelectedCount()}))
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	snap := h.NametagService.Snapshot()
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("events", snap.Events))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	d, err := nameDecider(r)
	if err != nil {
		h.badRequest(w, "Invalid request body: "+err.Error())
		return
	}
	event, ok := h.NametagService.CreateEvent(r.Context(), d)
	if !ok {
		h.badRequest(w, "event name is required")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("event created", event))
}

func (h *Handler) RenameEvent(w http.ResponseWriter, r *http.Request) {
	d, err := nameDecider(r)
	if err != nil {
		h.badRequest(w, "Invalid request body: "+err.Error())
		return
	}
	id := chi.URLParam(r, "eventId")
	renamed, err := h.NametagService.RenameEvent(r.Context(), id, d)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !renamed {
		h.badRequest(w, "event name is required")
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("event renamed", nil))
}

func (h *Handler) ActivateEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.NametagService.SwitchEvent(r.Context(), chi.URLParam(r, "eventId")); err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("event activated", h.NametagService.VisibleTags()))
}

// DeleteEvent needs ?confirm=true; without it nothing is deleted.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventId")
	deleted, err := h.NametagService.DeleteEvent(r.Context(), id, requestDecider{confirm: queryBool(r, "confirm")})
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !deleted {
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse("Not deleted", "confirmation required: repeat with confirm=true"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("tags", h.NametagService.VisibleTags()))
}

// ImportTags takes a multipart "file" field. ?append=true answers the append
// question; it is only asked when the list already has tags.
func (h *Handler) ImportTags(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		h.badRequest(w, "a CSV upload in the \"file\" field is required: "+err.Error())
		return
	}
	defer file.Close()

	res, err := h.NametagService.ImportCSV(r.Context(), file, requestDecider{confirm: queryBool(r, "append")})
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse(fmt.Sprintf("imported %d tags (%s)", res.Added, res.Mode()), res.Tags))
}

type updateFieldRequest struct {
	Field models.TagField `json:"field"`
	Value string          `json:"value"`
}

func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var req updateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Invalid request body: "+err.Error())
		return
	}
	if err := h.NametagService.UpdateField(r.Context(), chi.URLParam(r, "tagId"), req.Field, req.Value); err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("tag updated", nil))
}

func (h *Handler) ToggleTag(w http.ResponseWriter, r *http.Request) {
	if err := h.NametagService.ToggleSelection(r.Context(), chi.URLParam(r, "tagId")); err != nil {
		h.writeError(w, err)
		return
	}
	h.selectionResponse(w)
}

func (h *Handler) SelectAll(w http.ResponseWriter, r *http.Request) {
	h.NametagService.SelectAll(r.Context())
	h.selectionResponse(w)
}

func (h *Handler) DeselectAll(w http.ResponseWriter, r *http.Request) {
	h.NametagService.DeselectAll(r.Context())
	h.selectionResponse(w)
}

func (h *Handler) selectionResponse(w http.ResponseWriter) {
	snap := h.NametagService.Snapshot()
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("selection updated", map[string]interface{}{
		"selectedCount":    snap.SelectedCount(),
		"showSelectedOnly": snap.ShowSelectedOnly,
	}))
}

// ClearTags needs ?confirm=true.
func (h *Handler) ClearTags(w http.ResponseWriter, r *http.Request) {
	if !h.NametagService.Clear(r.Context(), requestDecider{confirm: queryBool(r, "confirm")}) {
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse("Not cleared", "confirmation required: repeat with confirm=true"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type filterRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Invalid request body: "+err.Error())
		return
	}
	if err := h.NametagService.SetShowSelectedOnly(r.Context(), req.Enabled); err != nil {
		h.writeError(w, err)
		return
	}
	h.selectionResponse(w)
}

func (h *Handler) ExportRoster(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.NametagService.ExportCSV(&buf); err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="roster.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) ListSheets(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("sheets", h.NametagService.Sheets()))
}

// ExportSheets renders the visible tags to a PDF, three badges per page.
func (h *Handler) ExportSheets(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	pages, err := h.NametagService.ExportPDF(r.Context(), &buf)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="nametags.pdf"`)
	w.Header().Set("X-Page-Count", strconv.Itoa(pages))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
