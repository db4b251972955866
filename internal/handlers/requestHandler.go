package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/avemuri/CaseDocAPI/internal/adapter"
	"github.com/avemuri/CaseDocAPI/internal/adapter/utils"
	"github.com/avemuri/CaseDocAPI/internal/api"
	"github.com/avemuri/CaseDocAPI/internal/chunker"
	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/internal/ingest"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// PostDocumentsHandler handles the uploading of case documents.
// @Summary      Upload a document
// @Description  Receives a file via multipart/form-data, stores the blob and registers a document row. The document is not queued for extraction yet.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        case_id        formData  string  true   "Case the document belongs to"
// @Param        document_name  formData  string  false  "Display name; defaults to the uploaded filename"
// @Param        document       formData  file    true   "The file to upload"
// @Success      201  {object}  api.UploadResponse "Created"
// @Failure      400  {object}  api.ErrorResponse  "Missing fields or file too large"
// @Failure      403  {object}  api.ErrorResponse  "Caller does not own the case"
// @Router       /documents [post]
func PostDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	caseId := r.FormValue("case_id")
	if caseId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "case_id is required")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	docName := r.FormValue("document_name")
	if docName == "" {
		docName = fileMetadata.Filename
	}

	data, err := io.ReadAll(io.LimitReader(fileReader, maxUploadSize))
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Read error")
		return
	}

	doc, err := UploadDocument(r.Context(), callerFromContext(r.Context()), caseId, docName,
		fileMetadata.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, ingest.ErrForbidden) {
			WriteErrorResponse(w, http.StatusForbidden, caseId, "Forbidden")
			return
		}
		logRH.Error("Upload failed", "case", caseId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
		return
	}
	writeJsonResponse(w, http.StatusCreated, adapter.ToUploadResponse(doc))
}

// PostEnqueueHandler godoc
// @Summary      Queue documents for extraction
// @Description  Creates one pending extraction job per eligible document. Documents with a live job, without a file, or already extracted are reported back, not re-queued.
// @Tags         Jobs
// @Accept       json
// @Produce      json
// @Param        request  body      api.EnqueueRequest   true  "Case ID, document IDs and optional priority"
// @Success      202      {object}  api.EnqueueResponse  "Jobs queued"
// @Failure      400      {object}  api.ErrorResponse    "Invalid request data"
// @Failure      403      {object}  api.ErrorResponse    "Caller does not own the case"
// @Router       /enqueue [post]
func PostEnqueueHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	var requestData api.EnqueueRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the Enqueue handler reader :", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil ||
		requestData.CaseId == "" || len(requestData.DocumentIds) == 0 {
		logRH.Warn("Bad Enqueue Request: ", "error:", err, "request data:", requestData)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.CaseId, "Bad Request")
		return
	}

	result, err := EnqueueDocuments(r.Context(), callerFromContext(r.Context()),
		requestData.CaseId, requestData.DocumentIds, requestData.Priority)
	if err != nil {
		if errors.Is(err, ingest.ErrForbidden) {
			WriteErrorResponse(w, http.StatusForbidden, requestData.CaseId, "Forbidden")
			return
		}
		logRH.Error("Enqueue failed", "case", requestData.CaseId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, requestData.CaseId, "Internal error")
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToEnqueueResponse(result))
}

// PostProcessHandler godoc
// @Summary      Drain one batch of pending jobs
// @Description  Claims up to a batch of claimable jobs and runs them to completion. Intended for an external scheduler; gated by the service token.
// @Tags         Jobs
// @Produce      json
// @Success      200  {object}  api.ProcessResponse  "Batch report"
// @Failure      401  {object}  api.ErrorResponse    "Missing or invalid service token"
// @Router       /process [post]
func PostProcessHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	report, err := DrainBatch(r.Context())
	if err != nil {
		logRH.Error("Batch drain failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Internal error")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToProcessResponse(report))
}

// GetStatusHandler godoc
// @Summary      Get job status for a case
// @Description  Per-status counts plus per-job detail for every extraction job the caller owns in the case.
// @Tags         Job Status
// @Produce      json
// @Param        case_id  query     string  true  "Case ID"
// @Success      200      {object}  api.StatusResponse  "Current job state"
// @Failure      403      {object}  api.ErrorResponse   "Caller does not own the case"
// @Router       /status [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	caseId := r.URL.Query().Get("case_id")
	if caseId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "case_id is required")
		return
	}

	counts, jobs, err := CaseStatus(r.Context(), callerFromContext(r.Context()), caseId)
	if err != nil {
		if errors.Is(err, ingest.ErrForbidden) {
			WriteErrorResponse(w, http.StatusForbidden, caseId, "Forbidden")
			return
		}
		logRH.Error("Status lookup failed", "case", caseId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, caseId, "Internal error")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToStatusResponse(caseId, counts, jobs))
}

// GetChunksHandler godoc
// @Summary      Get chunked document text
// @Description  Returns the extracted text split into linked, citation-ready chunks. Chunk size and overlap are tunable per request.
// @Tags         Documents
// @Produce      json
// @Param        id       path      string  true   "Document ID"
// @Param        max      query     int     false  "Max chunk size in characters"
// @Param        overlap  query     int     false  "Overlap between chunks in characters"
// @Success      200  {object}  api.ChunksResponse  "Chunks in document order"
// @Failure      404  {object}  api.ErrorResponse   "Document not found"
// @Failure      409  {object}  api.ErrorResponse   "Document has no extracted text yet"
// @Router       /documents/{id}/chunks [get]
func GetChunksHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	doc, found := GetDocument(r.Context(), idString)
	if !found || doc.OwnerId != callerFromContext(r.Context()) {
		//a foreign document and a missing one look the same to the caller
		WriteErrorResponse(w, http.StatusNotFound, idString, "Document not found")
		return
	}
	if !doc.OcrProcessed || doc.ExtractedText == "" {
		WriteErrorResponse(w, http.StatusConflict, idString, "Document has no extracted text yet")
		return
	}

	opts := chunker.DefaultOptions()
	if max := queryInt(r, "max"); max > 0 {
		opts.MaxChunkSize = max
	}
	if overlap := queryInt(r, "overlap"); overlap >= 0 && r.URL.Query().Has("overlap") {
		opts.OverlapSize = overlap
	}
	if opts.OverlapSize >= opts.MaxChunkSize || opts.MaxChunkSize < config.MinChunkSize {
		WriteErrorResponse(w, http.StatusBadRequest, idString, "Invalid chunking parameters")
		return
	}

	chunks := ChunkDocument(doc, opts)
	writeJsonResponse(w, http.StatusOK, adapter.ToChunksResponse(doc.Id, chunks))
}

func queryInt(r *http.Request, key string) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return -1
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}
