package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"example.com/knoxify/internal/orchestrator"
	"example.com/knoxify/internal/speech"
)

// maxUploadBytes caps the multipart request body. Text submissions are
// limited to 3000 characters anyway; anything bigger is not a text file.
const maxUploadBytes = 50 * 1024

type application struct {
	orc *orchestrator.Orchestrator
	log *slog.Logger
}

func (app *application) PingHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (app *application) VoicesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"voices": app.orc.Voices()})
}

// UploadHandler accepts a multipart form with a "file" part and a "voice"
// field and submits a conversion job.
func (app *application) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "file size exceeds 50 KB limit")
			return
		}
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "no file selected")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file size exceeds 50 KB limit")
		return
	}

	voice := r.FormValue("voice")
	if voice == "" {
		voice = speech.DefaultVoice
	}

	jobID, err := app.orc.Submit(r.Context(), string(content), voice, header.Filename)
	if err != nil {
		app.writeSubmitError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"job_id":  jobID,
		"message": "File uploaded. Processing started.",
	})
}

// StatusHandler reports the current job snapshot. A ready job gains a
// download_url pointing at this service, not at the store.
func (app *application) StatusHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	snap, err := app.orc.CheckStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, speech.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		app.log.Error("status check failed", "job_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"voice":    snap.Voice,
		"filename": snap.SourceName,
	}
	if snap.Status == speech.StatusReady {
		resp["download_url"] = "/download/" + snap.ID
	}
	if snap.Status == speech.StatusError {
		resp["error"] = snap.ErrorDetail
	}
	writeJSON(w, http.StatusOK, resp)
}

// DownloadHandler redirects to a five-minute presigned link for the audio.
func (app *application) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	url, err := app.orc.Retrieve(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, speech.ErrJobNotFound):
			writeError(w, http.StatusNotFound, "job not found")
		case errors.Is(err, speech.ErrNotReady):
			writeError(w, http.StatusBadRequest, "audio not ready yet")
		default:
			app.log.Error("download failed", "job_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "download failed")
		}
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

func (app *application) writeSubmitError(w http.ResponseWriter, err error) {
	var verr *speech.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Reason)
		return
	}
	app.log.Error("submit failed", "error", err)
	writeError(w, http.StatusInternalServerError, "upload failed: "+err.Error())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
