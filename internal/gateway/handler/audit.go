package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"eightd/internal/gateway/service/workbench"
)

// auditText reads the report text from a JSON body or a multipart "file".
func (h *Handler) auditText(r *http.Request) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "multipart/form-data" {
		var in struct {
			Text string `json:"text"`
		}
		if err := decodeBody(r, &in); err != nil {
			return "", err
		}
		return in.Text, nil
	}
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return "", fmt.Errorf("%w: %w", workbench.ErrInvalidInput, err)
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("%w: %w", workbench.ErrInvalidInput, err)
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUpload))
	if err != nil {
		return "", fmt.Errorf("%w: %w", workbench.ErrInvalidInput, err)
	}
	return h.svc.DecodeUpload(hdr.Filename, data)
}

func (h *Handler) runAudit(w http.ResponseWriter, r *http.Request) {
	text, err := h.auditText(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.svc.Audit(r.Context(), r.PathValue("id"), text, apiKey(r))
	h.reply(w, r, sess, err)
}

func (h *Handler) translateAudit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Lang string `json:"lang"`
	}
	if err := decodeBody(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.svc.TranslateAudit(r.Context(), r.PathValue("id"), strings.TrimSpace(in.Lang), apiKey(r))
	h.reply(w, r, sess, err)
}

func (h *Handler) exportAudit(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.ExportAudit(r.Context(), r.PathValue("id"), r.URL.Query().Get("lang"), apiKey(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeFile(w, f)
}
