package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"spectroscan/db"
	"spectroscan/ingest"
	"spectroscan/ir"
	"spectroscan/models"
	"spectroscan/predict"
	"spectroscan/reference"
	"spectroscan/utils"
)

const maxUploadSize = 50 << 20 // 50 MB

var (
	irConfig = ir.DefaultIRConfig()

	// set up in serve() before the server starts
	refStore   *reference.Store
	classifier predict.Classifier
	scaler     predict.Scaler
)

type analyzeResponse struct {
	CompoundName string                   `json:"compound_name"`
	Confidence   float64                  `json:"confidence"`
	Message      string                   `json:"message"`
	PeakReport   []string                 `json:"peak_report"`
	Report       models.CorrelationReport `json:"report"`
	Peaks        []models.DetectedPeak    `json:"peaks"`
	Data         spectrumData             `json:"data"`
}

type spectrumData struct {
	Wavenumber    []float64 `json:"wavenumber"`
	Absorbance    []float64 `json:"absorbance"`
	Transmittance []float64 `json:"transmittance"`
}

type referenceResponse struct {
	Ranges    int      `json:"ranges"`
	Skipped   int      `json:"skipped"`
	BondTypes []string `json:"bondTypes"`
}

type statsResponse struct {
	TotalAnalyses   int `json:"totalAnalyses"`
	ReferenceRanges int `json:"referenceRanges"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	log.Printf("[error] %d: %s", status, msg)
	writeJSON(w, status, map[string]string{"error": msg})
}

func saveUploadedFile(r *http.Request) (string, string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", fmt.Errorf("no file provided: %v", err)
	}
	defer file.Close()

	if err := utils.CreateFolder("tmp"); err != nil {
		return "", "", fmt.Errorf("failed to create tmp dir: %v", err)
	}

	tmpPath := filepath.Join("tmp", header.Filename)
	dst, err := os.Create(tmpPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create temp file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", "", fmt.Errorf("failed to write file: %v", err)
	}

	return tmpPath, header.Filename, nil
}

func handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reqStart := time.Now()
	log.Printf("[analyze] received request from %s", r.RemoteAddr)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	tmpPath, filename, err := saveUploadedFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer os.Remove(tmpPath)

	raw, err := ingest.ReadFile(tmpPath)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unreadable spectrum: %v", err))
		return
	}

	table, err := refStore.Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reference table unavailable")
		return
	}

	result, err := ir.Analyze(raw, table, irConfig)
	if err != nil {
		if errors.Is(err, ir.ErrNoUsableData) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.LogError(r.Context(), "analysis failed", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := analyzeResponse{
		Message:    "Prediction completed successfully.",
		PeakReport: result.Report.RenderLines(),
		Report:     result.Report,
		Peaks:      result.Peaks,
		Data:       buildSpectrumData(result.Spectrum),
	}

	// prediction failure must never block the peak report
	if classifier == nil {
		resp.Message = "Prediction unavailable: no classifier loaded."
	} else {
		features := predict.BuildFeatures(result.Spectrum, scaler)
		pred, err := classifier.Predict(features)
		if err != nil {
			log.Printf("[analyze] prediction failed: %v", err)
			resp.Message = fmt.Sprintf("Prediction unavailable: %v", err)
		} else {
			resp.CompoundName = pred.Label
			resp.Confidence = pred.Confidence
		}
	}

	storeAnalysis(filename, result, resp)

	log.Printf("[analyze] completed %q: %d peaks, %d matches in %s",
		filename, len(result.Peaks), result.Report.TotalMatches(), time.Since(reqStart))
	writeJSON(w, http.StatusOK, resp)
}

func buildSpectrumData(points []models.SpectrumPoint) spectrumData {
	data := spectrumData{
		Wavenumber:    make([]float64, len(points)),
		Absorbance:    make([]float64, len(points)),
		Transmittance: make([]float64, len(points)),
	}
	for i, p := range points {
		data.Wavenumber[i] = p.Wavenumber
		data.Absorbance[i] = p.Absorbance
		data.Transmittance[i] = p.Transmittance
	}
	return data
}

// storeAnalysis persists a history record on a best-effort basis; a
// storage failure never fails the request.
func storeAnalysis(filename string, result *ir.Result, resp analyzeResponse) {
	dbClient, err := db.NewDBClient()
	if err != nil {
		log.Printf("[analyze] history store unavailable: %v", err)
		return
	}
	defer dbClient.Close()

	record := models.AnalysisRecord{
		ID:          utils.GenerateUniqueID(),
		Filename:    filename,
		Compound:    resp.CompoundName,
		Confidence:  resp.Confidence,
		PeakCount:   len(result.Peaks),
		MatchCount:  result.Report.TotalMatches(),
		DefectCount: result.Defects,
		AnalyzedAt:  time.Now().UTC(),
	}
	if err := dbClient.StoreAnalysis(record); err != nil {
		log.Printf("[analyze] failed to store history record: %v", err)
	}
}

func handleReference(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	table, err := refStore.Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reference table unavailable")
		return
	}

	writeJSON(w, http.StatusOK, referenceResponse{
		Ranges:    table.Len(),
		Skipped:   table.Skipped,
		BondTypes: table.BondTypes(),
	})
}

func handleReferenceReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := refStore.Load(); err != nil {
		// the previous snapshot stays active; in-flight readers are unaffected
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("reload failed: %v", err))
		return
	}

	table, _ := refStore.Snapshot()
	log.Printf("[reference] table reloaded: %d ranges", table.Len())
	writeJSON(w, http.StatusOK, referenceResponse{
		Ranges:    table.Len(),
		Skipped:   table.Skipped,
		BondTypes: table.BondTypes(),
	})
}

func handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dbClient, err := db.NewDBClient()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer dbClient.Close()

	records, err := dbClient.RecentAnalyses(20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if records == nil {
		records = []models.AnalysisRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}

func handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dbClient, err := db.NewDBClient()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer dbClient.Close()

	total, _ := dbClient.TotalAnalyses()

	ranges := 0
	if table, err := refStore.Snapshot(); err == nil {
		ranges = table.Len()
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalAnalyses:   total,
		ReferenceRanges: ranges,
	})
}
