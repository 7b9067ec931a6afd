package handler

import (
	"fmt"
	"net/http"
	"strings"

	"eightd/internal/actionstatus"
	"eightd/internal/gateway/service/workbench"
	"eightd/internal/report"
)

type textBody struct {
	Text string `json:"text"`
}

func (h *Handler) putSection(w http.ResponseWriter, r *http.Request) {
	var apply func(*report.Model)
	switch section := strings.ToLower(r.PathValue("section")); section {
	case "d0":
		var v report.D0
		if err := decodeBody(r, &v); err != nil {
			h.fail(w, r, err)
			return
		}
		apply = func(m *report.Model) { m.SetD0(v) }
	case "d1":
		var v report.D1
		if err := decodeBody(r, &v); err != nil {
			h.fail(w, r, err)
			return
		}
		apply = func(m *report.Model) { m.SetD1(v) }
	case "d2":
		var v report.D2
		if err := decodeBody(r, &v); err != nil {
			h.fail(w, r, err)
			return
		}
		apply = func(m *report.Model) { m.SetD2(v) }
	case "d7":
		var v report.D7
		if err := decodeBody(r, &v); err != nil {
			h.fail(w, r, err)
			return
		}
		apply = func(m *report.Model) { m.SetD7(v) }
	default:
		h.fail(w, r, fmt.Errorf("%w: unknown section %q", workbench.ErrInvalidInput, section))
		return
	}
	sess, err := h.svc.EditReport(r.Context(), r.PathValue("id"), func(m *report.Model) error {
		apply(m)
		return nil
	})
	h.reply(w, r, sess, err)
}

func (h *Handler) addContainment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Content string `json:"content"`
	}
	if err := decodeBody(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.svc.EditReport(r.Context(), r.PathValue("id"), func(m *report.Model) error {
		if !m.AddContainment(in.Content) {
			return fmt.Errorf("%w: content is empty", workbench.ErrInvalidInput)
		}
		return nil
	})
	h.reply(w, r, sess, err)
}

func (h *Handler) clearContainment(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.EditReport(r.Context(), r.PathValue("id"), func(m *report.Model) error {
		m.ClearContainment()
		return nil
	})
	h.reply(w, r, sess, err)
}

func (h *Handler) putWhy(w http.ResponseWriter, r *http.Request) {
	i, err := slot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in textBody
	if err := decodeBody(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.svc.EditReport(r.Context(), r.PathValue("id"), func(m *report.Model) error {
		return m.SetWhy(i, in.Text)
	})
	h.reply(w, r, sess, err)
}

func (h *Handler) putRootCause(w http.ResponseWriter, r *http.Request) {
	var in textBody
	if err := decodeBody(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.svc.EditReport(r.Context(), r.PathValue("id"), func(m *report.Model) error {
		m.SetRootCause(in.Text)
		return nil
	})
	h.reply(w, r, sess, err)
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.SuggestWhys(r.Context(), r.PathValue("id"), apiKey(r))
	h.reply(w, r, sess, err)
}

func (h *Handler) adopt(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.AdoptSuggestion(r.Context(), r.PathValue("id"))
	h.reply(w, r, sess, err)
}

func (h *Handler) addAction(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Action string `json:"action"`
		Date   string `json:"date"`
	}
	if err := decodeBody(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.svc.AddPermanentAction(r.Context(), r.PathValue("id"), in.Action, strings.TrimSpace(in.Date))
	h.reply(w, r, sess, err)
}

func (h *Handler) patchAction(w http.ResponseWriter, r *http.Request) {
	i, err := slot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.svc.EditReport(r.Context(), r.PathValue("id"), func(m *report.Model) error {
		return m.SetPermanentActionStatus(i, actionstatus.ParseStatus(in.Status))
	})
	h.reply(w, r, sess, err)
}

func (h *Handler) deleteAction(w http.ResponseWriter, r *http.Request) {
	i, err := slot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.svc.EditReport(r.Context(), r.PathValue("id"), func(m *report.Model) error {
		return m.RemovePermanentAction(i)
	})
	h.reply(w, r, sess, err)
}

func (h *Handler) actions(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Actions(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"actions": out})
}

func (h *Handler) exportReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := h.svc.ExportReport(r.Context(), r.PathValue("id"), q.Get("lang"), q.Get("format"), apiKey(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeFile(w, f)
}
